// ABOUTME: Shared pipeline assembly for CLI commands
// ABOUTME: Builds catalog, index, scorers, and the routing pipeline from config
package commands

import (
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/config"
	"github.com/ruralcare/triage-engine/internal/core"
	"github.com/ruralcare/triage-engine/internal/rewrite"
	"github.com/ruralcare/triage-engine/internal/scoring"
	"github.com/ruralcare/triage-engine/internal/session"
)

// buildPipeline assembles the full routing pipeline from configuration.
// It returns the catalog too, for commands that need to inspect it.
func buildPipeline(cfg *config.Config) (*core.Pipeline, *catalog.Catalog, error) {
	if cfg.OpenAIKey == "" {
		return nil, nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.ClassifierURL == "" {
		return nil, nil, fmt.Errorf("CLASSIFIER_URL is required")
	}

	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog from %s: %w", cfg.DataDir, err)
	}

	backend, err := scoring.NewOpenAIEmbedder(scoring.EmbedderConfig{
		APIKey:     cfg.OpenAIKey,
		Model:      openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configuring embedder: %w", err)
	}
	embedder := scoring.NewCachingEmbedder(backend)

	if !quiet {
		log.Printf("[CLI] Building catalog index (%d clusters)...", len(cat.Clusters))
	}
	idx, err := catalog.BuildIndex(cat, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("building catalog index: %w", err)
	}

	classifier, err := scoring.NewHTTPClassifier(cfg.ClassifierURL,
		[]string{"low", "medium", "high"}, cfg.Timeout, cfg.MaxRetries)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring classifier client: %w", err)
	}

	var reranker scoring.RelevanceScorer
	if cfg.RerankerURL != "" {
		reranker = scoring.NewHTTPReranker(cfg.RerankerURL, cfg.Timeout, cfg.MaxRetries)
	}

	var rewriter core.QuestionRewriter
	if cfg.RewriteQuestions {
		r, err := rewrite.NewRewriter(&rewrite.ClientConfig{
			APIKey:     cfg.OpenAIKey,
			ChatModel:  cfg.ChatModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("configuring question rewriter: %w", err)
		}
		rewriter = r
	}

	pipeline := core.NewPipeline(
		session.NewMemoryStore(),
		core.NewCollector(cat, idx, embedder),
		core.NewGuardrail(embedder, reranker),
		core.NewShortlister(cat, idx, embedder),
		core.NewAssessor(embedder, classifier),
		core.NewPCPPlanner(cat, idx, embedder),
		core.NewMDTPlanner(cat, idx, embedder),
		core.NewEmergencyHandler(),
		rewriter,
	)
	return pipeline, cat, nil
}
