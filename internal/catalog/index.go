// ABOUTME: Precomputed embedding index over the static catalog
// ABOUTME: Built once at startup so per-case scoring never re-embeds config text
package catalog

import (
	"fmt"
	"strings"

	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/scoring"
)

// Index holds the embedding vectors for every piece of matchable
// catalog text. Read-only after BuildIndex.
type Index struct {
	// ClusterKeywords maps cluster name to one vector per keyword,
	// in keyword order.
	ClusterKeywords map[string][][]float64

	// Questions maps question id (cluster:slot) to the question vector.
	Questions map[string][]float64

	// Symptoms maps each lower-cased symptom keyword to its vector.
	Symptoms map[string][]float64

	// Syndromes maps syndrome id to the vector of its joined keywords.
	Syndromes map[string][]float64

	// Templates maps specialist to template id to the template vector.
	Templates map[string]map[string][]float64

	// Snippets holds one vector per catalog snippet, parallel to
	// Catalog.Snippets.
	Snippets [][]float64
}

// BuildIndex embeds every matchable catalog text through the given
// embedder. Errors propagate as hard failures: starting without a
// complete index would make scoring silently wrong.
func BuildIndex(cat *Catalog, emb scoring.Embedder) (*Index, error) {
	idx := &Index{
		ClusterKeywords: make(map[string][][]float64, len(cat.Clusters)),
		Questions:       make(map[string][]float64),
		Symptoms:        make(map[string][]float64),
		Syndromes:       make(map[string][]float64, len(cat.Syndromes)),
		Templates:       make(map[string]map[string][]float64, len(cat.MDTRules)),
	}

	for i := range cat.Clusters {
		cl := &cat.Clusters[i]
		vecs := make([][]float64, len(cl.Keywords))
		for j, kw := range cl.Keywords {
			vec, err := emb.Embed(kw)
			if err != nil {
				return nil, fmt.Errorf("embedding keyword %q of cluster %q: %w", kw, cl.Name, err)
			}
			vecs[j] = vec
		}
		idx.ClusterKeywords[cl.Name] = vecs

		for _, q := range cl.Questions {
			vec, err := emb.Embed(q.Text)
			if err != nil {
				return nil, fmt.Errorf("embedding question %q: %w", models.QuestionID(cl.Name, q.Slot), err)
			}
			idx.Questions[models.QuestionID(cl.Name, q.Slot)] = vec
		}
	}

	for _, symptom := range cat.AllSymptoms() {
		vec, err := emb.Embed(symptom)
		if err != nil {
			return nil, fmt.Errorf("embedding symptom %q: %w", symptom, err)
		}
		idx.Symptoms[symptom] = vec
	}

	for i := range cat.Syndromes {
		s := &cat.Syndromes[i]
		vec, err := emb.Embed(strings.Join(s.Keywords, " "))
		if err != nil {
			return nil, fmt.Errorf("embedding syndrome %q: %w", s.ID, err)
		}
		idx.Syndromes[s.ID] = vec
	}

	for specialist, templates := range cat.MDTRules {
		byID := make(map[string][]float64, len(templates))
		for i := range templates {
			tpl := &templates[i]
			vec, err := emb.Embed(tpl.MatchText())
			if err != nil {
				return nil, fmt.Errorf("embedding template %s:%s: %w", specialist, tpl.ID, err)
			}
			byID[tpl.ID] = vec
		}
		idx.Templates[specialist] = byID
	}

	idx.Snippets = make([][]float64, len(cat.Snippets))
	for i, sn := range cat.Snippets {
		vec, err := emb.Embed(sn.Text)
		if err != nil {
			return nil, fmt.Errorf("embedding snippet %d: %w", i, err)
		}
		idx.Snippets[i] = vec
	}

	return idx, nil
}
