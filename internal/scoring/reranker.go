// ABOUTME: Cross-encoder relevance scorer contract and HTTP client
// ABOUTME: Last-resort gate in the answer guardrail; served by an external reranker
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

// RelevanceScorer scores how relevant an answer is to a question.
// Higher is more relevant.
type RelevanceScorer interface {
	Score(question, answer string) (float64, error)
}

// HTTPReranker calls an external cross-encoder reranker service.
type HTTPReranker struct {
	url        string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewHTTPReranker creates a reranker client for the given endpoint.
func NewHTTPReranker(url string, timeout time.Duration, maxRetries int) *HTTPReranker {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPReranker{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}
}

type rerankRequest struct {
	Query string `json:"query"`
	Text  string `json:"text"`
}

type rerankResponse struct {
	Score float64 `json:"score"`
}

// Score posts the question/answer pair and returns the reranker score.
func (r *HTTPReranker) Score(question, answer string) (float64, error) {
	body, err := json.Marshal(rerankRequest{Query: question, Text: answer})
	if err != nil {
		return 0, fmt.Errorf("marshaling rerank request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(r.retryDelay, attempt))
		}

		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, r.url, bytes.NewReader(body))
		if err != nil {
			return 0, fmt.Errorf("building rerank request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("attempt %d: reranker returned status %d", attempt+1, resp.StatusCode)
			continue
		}

		var parsed rerankResponse
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: decoding reranker response: %w", attempt+1, err)
			continue
		}

		return parsed.Score, nil
	}

	return 0, fmt.Errorf("reranker failed after %d attempts: %w", r.maxRetries+1, lastErr)
}
