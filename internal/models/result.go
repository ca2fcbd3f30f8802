// ABOUTME: CaseResult is the final structured output of the routing pipeline
// ABOUTME: One result per finalized case, regardless of tier
package models

import "time"

// ResultMeta carries per-stage observability data.
type ResultMeta struct {
	Syndrome      string   `json:"syndrome,omitempty"`
	Score         float64  `json:"score,omitempty"`
	TemplatesUsed []string `json:"templates_used,omitempty"`
}

// CaseResult is the finalized outcome of a case after tier dispatch.
type CaseResult struct {
	CaseID          string     `json:"case_id"`
	Timestamp       time.Time  `json:"timestamp"`
	Tier            Tier       `json:"tier"`
	Route           string     `json:"route"`
	Symptoms        []string   `json:"symptoms"`
	NegatedSymptoms []string   `json:"negated_symptoms"`
	Specialists     []string   `json:"specialists_involved"`
	Discussion      string     `json:"specialist_discussion"`
	Advice          string     `json:"advice"`
	Medicines       []string   `json:"medicines_advised"`
	Meta            ResultMeta `json:"meta"`
}
