// ABOUTME: Shortlister extracts present and negated symptoms from raw text
// ABOUTME: Semantic match plus local-window negation; deterministic, no state
package core

import (
	"sort"
	"strings"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/scoring"
)

// negationWords is the fixed vocabulary scanned in the window before a
// symptom mention.
var negationWords = map[string]bool{
	"no": true, "not": true, "never": true, "without": true,
	"denies": true, "deny": true, "none": true, "nothing": true,
	"nil": true, "absent": true,
}

// Shortlister finds symptom mentions by embedding similarity and
// classifies each as present or negated.
type Shortlister struct {
	catalog        *catalog.Catalog
	index          *catalog.Index
	embedder       scoring.Embedder
	matchThreshold float64
	negationWindow int
}

// NewShortlister creates a Shortlister over the loaded catalog.
func NewShortlister(cat *catalog.Catalog, idx *catalog.Index, emb scoring.Embedder) *Shortlister {
	return &Shortlister{
		catalog:        cat,
		index:          idx,
		embedder:       emb,
		matchThreshold: 0.50,
		negationWindow: 4,
	}
}

// Shortlist extracts the symptom sets from patient text. The same input
// always yields the same sets: matching is pure similarity plus a
// token-window scan, with sorted output.
func (sl *Shortlister) Shortlist(patientText string) (*models.Shortlist, error) {
	text := strings.ToLower(patientText)

	textVec, err := sl.embedder.Embed(text)
	if err != nil {
		return nil, err
	}

	var present, negated []string
	for symptom, symVec := range sl.index.Symptoms {
		score := scoring.CosineSimilarity(textVec, symVec)
		if score < sl.matchThreshold {
			continue
		}
		if sl.isNegated(text, symptom) {
			negated = append(negated, symptom)
		} else {
			present = append(present, symptom)
		}
	}

	sort.Strings(present)
	sort.Strings(negated)

	return &models.Shortlist{
		Symptoms: present,
		Negated:  negated,
		RawText:  patientText,
	}, nil
}

// isNegated scans the tokens immediately preceding each literal
// occurrence of the symptom phrase for a negation word.
func (sl *Shortlister) isNegated(text, symptom string) bool {
	tokens := strings.Fields(text)
	symTokens := strings.Fields(symptom)
	if len(symTokens) == 0 {
		return false
	}

	for i := 0; i+len(symTokens) <= len(tokens); i++ {
		if !tokensMatch(tokens[i:i+len(symTokens)], symTokens) {
			continue
		}
		start := i - sl.negationWindow
		if start < 0 {
			start = 0
		}
		for _, w := range tokens[start:i] {
			if negationWords[w] {
				return true
			}
		}
	}
	return false
}

func tokensMatch(a, b []string) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
