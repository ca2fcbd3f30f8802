// ABOUTME: Embedder contract, cosine similarity, and memoizing wrapper
// ABOUTME: Cosine similarity is the sole comparison operator used by the engine
package scoring

import (
	"math"
	"sync"
)

// Embedder maps text to a unit-normalized vector. Implementations must
// be deterministic for identical text.
type Embedder interface {
	Embed(text string) ([]float64, error)
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched or zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CachingEmbedder memoizes embeddings by exact text. Embedding calls are
// side-effect-free and idempotent, so repeated lookups on static config
// text hit the cache and only new text reaches the backend.
type CachingEmbedder struct {
	backend Embedder
	mu      sync.RWMutex
	cache   map[string][]float64
}

// NewCachingEmbedder wraps an embedder with an in-process cache.
func NewCachingEmbedder(backend Embedder) *CachingEmbedder {
	return &CachingEmbedder{
		backend: backend,
		cache:   make(map[string][]float64),
	}
}

// Embed returns the cached vector for text, computing it once on miss.
func (ce *CachingEmbedder) Embed(text string) ([]float64, error) {
	ce.mu.RLock()
	vec, ok := ce.cache[text]
	ce.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := ce.backend.Embed(text)
	if err != nil {
		return nil, err
	}

	ce.mu.Lock()
	ce.cache[text] = vec
	ce.mu.Unlock()
	return vec, nil
}
