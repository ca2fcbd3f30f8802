// ABOUTME: Complexity classifier contract and linear softmax implementation
// ABOUTME: Deterministic for a fixed feature vector; weights come from static config
package scoring

import (
	"fmt"
	"math"
)

// Classifier predicts a probability distribution over complexity tiers
// from a numeric feature vector.
type Classifier interface {
	Predict(features []float64) ([]float64, error)
	Labels() []string
}

// LinearClassifier is a softmax over per-class linear scores. The weight
// matrix is loaded from static config at startup, making predictions
// fully deterministic.
type LinearClassifier struct {
	labels  []string
	weights [][]float64
	biases  []float64
}

// NewLinearClassifier builds a classifier from per-class weight rows and
// biases. Every weight row must have the same length; row count must
// match labels and biases.
func NewLinearClassifier(labels []string, weights [][]float64, biases []float64) (*LinearClassifier, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("classifier requires at least one label")
	}
	if len(weights) != len(labels) {
		return nil, fmt.Errorf("classifier has %d weight rows for %d labels", len(weights), len(labels))
	}
	if len(biases) != len(labels) {
		return nil, fmt.Errorf("classifier has %d biases for %d labels", len(biases), len(labels))
	}
	dim := len(weights[0])
	for i, row := range weights {
		if len(row) != dim {
			return nil, fmt.Errorf("weight row %d has dimension %d, want %d", i, len(row), dim)
		}
	}

	return &LinearClassifier{labels: labels, weights: weights, biases: biases}, nil
}

// Labels returns the class labels in prediction order.
func (c *LinearClassifier) Labels() []string {
	return c.labels
}

// Dimension returns the expected feature vector length.
func (c *LinearClassifier) Dimension() int {
	return len(c.weights[0])
}

// Predict returns softmax probabilities over the labels.
func (c *LinearClassifier) Predict(features []float64) ([]float64, error) {
	dim := c.Dimension()
	if len(features) != dim {
		return nil, fmt.Errorf("feature vector has dimension %d, classifier expects %d", len(features), dim)
	}

	scores := make([]float64, len(c.labels))
	maxScore := math.Inf(-1)
	for i, row := range c.weights {
		s := c.biases[i]
		for j, w := range row {
			s += w * features[j]
		}
		scores[i] = s
		if s > maxScore {
			maxScore = s
		}
	}

	// Softmax with max subtraction for numeric stability.
	var sum float64
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs, nil
}

// Argmax returns the index of the largest probability. Ties resolve to
// the earliest label for determinism.
func Argmax(probs []float64) int {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}
