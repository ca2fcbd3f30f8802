// ABOUTME: OpenAI-backed embedder with retry and unit normalization
// ABOUTME: Uses text-embedding-3-small by default (configurable)
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ruralcare/triage-engine/internal/util"
)

// DefaultEmbeddingModel is the default model for embeddings
const DefaultEmbeddingModel = openai.SmallEmbedding3

// OpenAIEmbedder wraps the OpenAI embeddings API with retry logic.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// EmbedderConfig holds configuration for the OpenAI embedder.
type EmbedderConfig struct {
	APIKey     string
	Model      openai.EmbeddingModel
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// NewOpenAIEmbedder creates an embedder from config. The API key is required.
func NewOpenAIEmbedder(cfg EmbedderConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultEmbeddingModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	return &OpenAIEmbedder{
		client:     openai.NewClient(cfg.APIKey),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Embed generates a unit-normalized embedding vector for text.
func (e *OpenAIEmbedder) Embed(text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(e.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: e.model,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}

		return normalize(embedding64), nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", e.maxRetries+1, lastErr)
}

// normalize scales a vector to unit length so cosine similarity reduces
// to a dot product. A zero vector is returned unchanged.
func normalize(vec []float64) []float64 {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
