// ABOUTME: Main entry point for the triage HTTP server
// ABOUTME: Loads config, builds the catalog index, assembles the pipeline, serves
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/config"
	"github.com/ruralcare/triage-engine/internal/core"
	"github.com/ruralcare/triage-engine/internal/httpapi"
	"github.com/ruralcare/triage-engine/internal/rewrite"
	"github.com/ruralcare/triage-engine/internal/scoring"
	"github.com/ruralcare/triage-engine/internal/session"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatalf("OPENAI_API_KEY is required: the engine cannot score without embeddings")
	}
	if cfg.ClassifierURL == "" {
		log.Fatalf("CLASSIFIER_URL is required: complexity assessment is served externally")
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	server := httpapi.NewServer(pipeline)
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Printf("[Server] Triage engine listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func buildPipeline(cfg *config.Config) (*core.Pipeline, error) {
	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", cfg.DataDir, err)
	}
	log.Printf("[Server] Catalog loaded: %d clusters, %d syndromes", len(cat.Clusters), len(cat.Syndromes))

	backend, err := scoring.NewOpenAIEmbedder(scoring.EmbedderConfig{
		APIKey:     cfg.OpenAIKey,
		Model:      openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring embedder: %w", err)
	}
	embedder := scoring.NewCachingEmbedder(backend)

	idx, err := catalog.BuildIndex(cat, embedder)
	if err != nil {
		return nil, fmt.Errorf("building catalog index: %w", err)
	}
	log.Printf("[Server] Catalog index built: %d question vectors, %d symptom vectors",
		len(idx.Questions), len(idx.Symptoms))

	classifier, err := scoring.NewHTTPClassifier(cfg.ClassifierURL,
		[]string{"low", "medium", "high"}, cfg.Timeout, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("configuring classifier client: %w", err)
	}

	var reranker scoring.RelevanceScorer
	if cfg.RerankerURL != "" {
		reranker = scoring.NewHTTPReranker(cfg.RerankerURL, cfg.Timeout, cfg.MaxRetries)
		log.Printf("[Server] Reranker enabled at %s", cfg.RerankerURL)
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
			return nil, fmt.Errorf("configuring question rewriter: %w", err)
		}
		rewriter = r
		log.Printf("[Server] Question rewriting enabled with model %s", cfg.ChatModel)
	}

	return core.NewPipeline(
		session.NewMemoryStore(),
		core.NewCollector(cat, idx, embedder),
		core.NewGuardrail(embedder, reranker),
		core.NewShortlister(cat, idx, embedder),
		core.NewAssessor(embedder, classifier),
		core.NewPCPPlanner(cat, idx, embedder),
		core.NewMDTPlanner(cat, idx, embedder),
		core.NewEmergencyHandler(),
		rewriter,
	), nil
}
