// ABOUTME: Shortlist is the negation-aware symptom extraction result
// ABOUTME: Derived fresh per call; present and negated sets are disjoint
package models

// Shortlist holds the symptoms extracted from accumulated case text.
// Both sets are sorted for determinism. Diseases carries any upstream
// disease labels attached to the case; it is consulted only by the
// emergency handler.
type Shortlist struct {
	Symptoms []string `json:"symptoms"`
	Negated  []string `json:"negated_symptoms"`
	Diseases []string `json:"possible_diseases,omitempty"`
	RawText  string   `json:"raw_text"`
}
