// ABOUTME: Tests for cosine similarity and the caching embedder
// ABOUTME: Verifies identical-text determinism and single backend computation
package scoring

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{"identical unit vectors", []float64{1, 0, 0}, []float64{1, 0, 0}, 1.0},
		{"orthogonal", []float64{1, 0, 0}, []float64{0, 1, 0}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"mismatched length", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

// countingEmbedder records how many times each text hits the backend.
type countingEmbedder struct {
	calls map[string]int
}

func (c *countingEmbedder) Embed(text string) ([]float64, error) {
	c.calls[text]++
	return []float64{float64(len(text)), 1}, nil
}

func TestCachingEmbedder_ComputesOnce(t *testing.T) {
	backend := &countingEmbedder{calls: make(map[string]int)}
	ce := NewCachingEmbedder(backend)

	first, err := ce.Embed("fever and cough")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	second, err := ce.Embed("fever and cough")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}

	if backend.calls["fever and cough"] != 1 {
		t.Errorf("backend called %d times for identical text, want 1", backend.calls["fever and cough"])
	}
	if len(first) != len(second) {
		t.Fatal("cached vector differs from original")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cached vector differs at index %d", i)
		}
	}
}

func TestNormalize(t *testing.T) {
	vec := normalize([]float64{3, 4})
	if math.Abs(vec[0]-0.6) > 1e-9 || math.Abs(vec[1]-0.8) > 1e-9 {
		t.Errorf("normalize([3 4]) = %v, want [0.6 0.8]", vec)
	}

	zero := normalize([]float64{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("normalize(zero) = %v, want zero vector", zero)
	}
}
