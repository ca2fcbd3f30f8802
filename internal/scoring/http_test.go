// ABOUTME: Tests for the HTTP reranker and classifier clients
// ABOUTME: Uses httptest servers; covers success, retry, and shape errors
package scoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPReranker_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Query == "" || req.Text == "" {
			t.Error("reranker request missing query or text")
		}
		json.NewEncoder(w).Encode(rerankResponse{Score: 0.82})
	}))
	defer srv.Close()

	r := NewHTTPReranker(srv.URL, time.Second, 0)
	score, err := r.Score("Any vomiting along with the fever?", "greenish vomit")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if score != 0.82 {
		t.Errorf("score = %v, want 0.82", score)
	}
}

func TestHTTPReranker_RetriesThenFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewHTTPReranker(srv.URL, time.Second, 2)
	r.retryDelay = time.Millisecond
	if _, err := r.Score("q", "a"); err == nil {
		t.Fatal("Score() succeeded against failing server")
	}
	if calls != 3 {
		t.Errorf("server called %d times, want 3", calls)
	}
}

func TestHTTPClassifier_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if len(req.Features) != 4 {
			t.Errorf("features = %d, want 4", len(req.Features))
		}
		json.NewEncoder(w).Encode(classifyResponse{Probabilities: []float64{0.2, 0.3, 0.5}})
	}))
	defer srv.Close()

	c, err := NewHTTPClassifier(srv.URL, []string{"low", "medium", "high"}, time.Second, 0)
	if err != nil {
		t.Fatalf("NewHTTPClassifier() error: %v", err)
	}

	probs, err := c.Predict([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	if Argmax(probs) != 2 {
		t.Errorf("Argmax(%v) = %d, want 2", probs, Argmax(probs))
	}
}

func TestHTTPClassifier_ShapeMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{Probabilities: []float64{0.5, 0.5}})
	}))
	defer srv.Close()

	c, err := NewHTTPClassifier(srv.URL, []string{"low", "medium", "high"}, time.Second, 0)
	if err != nil {
		t.Fatalf("NewHTTPClassifier() error: %v", err)
	}
	if _, err := c.Predict([]float64{1}); err == nil {
		t.Error("Predict() accepted a wrong-length distribution")
	}
}

func TestNewHTTPClassifier_RequiresLabels(t *testing.T) {
	if _, err := NewHTTPClassifier("http://localhost", nil, time.Second, 0); err == nil {
		t.Error("NewHTTPClassifier() with no labels succeeded")
	}
}
