// ABOUTME: HTTP client for an externally served complexity classifier
// ABOUTME: Same contract as the linear classifier, served by a model host
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ruralcare/triage-engine/internal/util"
)

// HTTPClassifier calls an external classification service. The label
// order is fixed at construction and must match the service's output.
type HTTPClassifier struct {
	url        string
	labels     []string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewHTTPClassifier creates a classifier client for the given endpoint.
func NewHTTPClassifier(url string, labels []string, timeout time.Duration, maxRetries int) (*HTTPClassifier, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("classifier requires at least one label")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClassifier{
		url:        url,
		labels:     labels,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}, nil
}

type classifyRequest struct {
	Features []float64 `json:"features"`
}

type classifyResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// Labels returns the class labels in prediction order.
func (c *HTTPClassifier) Labels() []string {
	return c.labels
}

// Predict posts the feature vector and returns the probability
// distribution over the configured labels.
func (c *HTTPClassifier) Predict(features []float64) ([]float64, error) {
	body, err := json.Marshal(classifyRequest{Features: features})
	if err != nil {
		return nil, fmt.Errorf("marshaling classify request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building classify request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("attempt %d: classifier returned status %d", attempt+1, resp.StatusCode)
			continue
		}

		var parsed classifyResponse
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: decoding classifier response: %w", attempt+1, err)
			continue
		}

		if len(parsed.Probabilities) != len(c.labels) {
			return nil, fmt.Errorf("classifier returned %d probabilities for %d labels", len(parsed.Probabilities), len(c.labels))
		}
		return parsed.Probabilities, nil
	}

	return nil, fmt.Errorf("classifier failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
