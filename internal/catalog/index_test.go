// ABOUTME: Tests for the precomputed embedding index
// ABOUTME: Verifies every catalog text gets a vector exactly once per distinct string
package catalog

import (
	"testing"

	"github.com/ruralcare/triage-engine/internal/models"
)

// stubEmbedder returns a fixed-length vector derived from text length.
type stubEmbedder struct {
	calls int
}

func (s *stubEmbedder) Embed(text string) ([]float64, error) {
	s.calls++
	return []float64{float64(len(text)), 1, 0}, nil
}

func TestBuildIndex_CoversCatalog(t *testing.T) {
	cat := validCatalog()
	emb := &stubEmbedder{}

	idx, err := BuildIndex(cat, emb)
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}

	if len(idx.ClusterKeywords["fever_general"]) != 1 {
		t.Errorf("cluster keyword vectors = %d, want 1", len(idx.ClusterKeywords["fever_general"]))
	}
	qid := models.QuestionID("fever_general", "duration")
	if idx.Questions[qid] == nil {
		t.Errorf("question %q has no vector", qid)
	}
	if idx.Symptoms["fever"] == nil {
		t.Error("symptom vocabulary vector missing for fever")
	}
	if idx.Syndromes["viral_fever"] == nil || idx.Syndromes[FallbackSyndromeID] == nil {
		t.Error("syndrome vectors missing")
	}
	if idx.Templates["GeneralPhysician"][GeneralTemplateID] == nil {
		t.Error("specialist template vector missing")
	}
	if len(idx.Snippets) != len(cat.Snippets) {
		t.Errorf("snippet vectors = %d, want %d", len(idx.Snippets), len(cat.Snippets))
	}
}
