// ABOUTME: Tests for the primary-care planner
// ABOUTME: Duration escalation, syndrome matching, fallback, RAG caps, allow-list
package core

import (
	"strings"
	"testing"

	"github.com/ruralcare/triage-engine/internal/catalog"
)

func pcpFixture() (*catalog.Catalog, *catalog.Index, *mapEmbedder) {
	cat := &catalog.Catalog{
		Syndromes: []catalog.Syndrome{
			{ID: "viral_fever", Name: "Viral fever", Keywords: []string{"fever", "body ache"}, DefaultTemplate: "viral_fever"},
			{ID: catalog.FallbackSyndromeID, Name: "Non-specific mild illness", Keywords: []string{"unwell"}, DefaultTemplate: "general_care"},
		},
		PCPRules: map[string]catalog.RuleSet{
			"viral_fever": {
				ConditionSummary:   "Likely viral fever.",
				PossibleCauses:     []string{"Seasonal viral infection"},
				NurseActions:       []string{"Check temperature twice daily"},
				EscalationCriteria: []string{"Fever beyond 5 days"},
				MedicinesAdvised:   []string{"Doctor may consider Paracetamol for fever", "Ibuprofen 400mg"},
			},
			"general_care": {
				ConditionSummary: "Non-specific mild illness.",
				NurseActions:     []string{"Advise rest and fluids"},
			},
		},
		AllowedMedicines: []string{"Doctor may consider Paracetamol"},
		Snippets: []catalog.Snippet{
			{Text: "Encourage oral fluids during fever.", Source: "Field guide"},
			{Text: "Snakebite requires immobilization.", Source: "Field guide"},
		},
	}
	idx := &catalog.Index{
		Syndromes: map[string][]float64{
			"viral_fever":              {1, 0, 0},
			catalog.FallbackSyndromeID: {0, 1, 0},
		},
		Snippets: [][]float64{
			{1, 0, 0},
			{0, 0, 1},
		},
	}
	emb := &mapEmbedder{vectors: map[string][]float64{
		"high fever with body ache": {1, 0, 0},
		"vague tiredness complaint": {0.05, 0.05, 0.99},
		"viral fever":               {1, 0, 0},
		"non-specific mild illness": {0, 1, 0},
	}}
	return cat, idx, emb
}

func TestPlan_DurationEscalation(t *testing.T) {
	cat, idx, emb := pcpFixture()
	p := NewPCPPlanner(cat, idx, emb)

	plan, meta, err := p.Plan("fever for 8 days now")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if !strings.HasPrefix(plan.ConditionSummary, "Escalation required.") {
		t.Errorf("summary = %q, want escalation", plan.ConditionSummary)
	}
	if len(plan.MedicinesAdvised) != 0 {
		t.Errorf("escalation plan advises medicines: %v", plan.MedicinesAdvised)
	}
	if meta.Syndrome != "duration_escalation" {
		t.Errorf("meta.Syndrome = %q", meta.Syndrome)
	}
}

func TestPlan_ShortDurationDoesNotEscalate(t *testing.T) {
	cat, idx, emb := pcpFixture()
	emb.vectors["fever for 3 days with body ache"] = []float64{1, 0, 0}
	p := NewPCPPlanner(cat, idx, emb)

	plan, meta, err := p.Plan("fever for 3 days with body ache")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if plan.ConditionSummary != "Likely viral fever." {
		t.Errorf("summary = %q", plan.ConditionSummary)
	}
	if meta.Syndrome != "viral_fever" {
		t.Errorf("meta.Syndrome = %q", meta.Syndrome)
	}
}

func TestPlan_MatchedSyndromeWithRAGAndAllowList(t *testing.T) {
	cat, idx, emb := pcpFixture()
	p := NewPCPPlanner(cat, idx, emb)

	plan, meta, err := p.Plan("high fever with body ache")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if meta.Syndrome != "viral_fever" || meta.Score != 1.0 {
		t.Errorf("meta = %+v", meta)
	}

	// The fever snippet matches the syndrome name; the snakebite one must not.
	wantLine := "Encourage oral fluids during fever. (Source: Field guide)"
	if !contains(plan.NurseActions, wantLine) {
		t.Errorf("NurseActions = %v, want snippet appended", plan.NurseActions)
	}
	if !contains(plan.EscalationCriteria, wantLine) {
		t.Errorf("EscalationCriteria = %v, want snippet appended", plan.EscalationCriteria)
	}
	for _, a := range plan.NurseActions {
		if strings.Contains(a, "Snakebite") {
			t.Errorf("irrelevant snippet leaked into plan: %q", a)
		}
	}

	// Ibuprofen is not on the allow-list.
	if len(plan.MedicinesAdvised) != 1 || !strings.Contains(plan.MedicinesAdvised[0], "Paracetamol") {
		t.Errorf("MedicinesAdvised = %v, want only the allow-listed entry", plan.MedicinesAdvised)
	}
}

func TestPlan_FallbackSyndrome(t *testing.T) {
	cat, idx, emb := pcpFixture()
	p := NewPCPPlanner(cat, idx, emb)

	plan, meta, err := p.Plan("vague tiredness complaint")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if meta.Syndrome != catalog.FallbackSyndromeID {
		t.Errorf("meta.Syndrome = %q, want fallback", meta.Syndrome)
	}
	if meta.Score != 0.40 {
		t.Errorf("meta.Score = %v, want fixed fallback score", meta.Score)
	}
	if plan.ConditionSummary != "Non-specific mild illness." {
		t.Errorf("summary = %q", plan.ConditionSummary)
	}
}

func TestPlan_ListCap(t *testing.T) {
	cat, idx, emb := pcpFixture()
	rules := cat.PCPRules["viral_fever"]
	rules.NurseActions = []string{"a", "b", "c", "d", "e", "f"}
	cat.PCPRules["viral_fever"] = rules
	p := NewPCPPlanner(cat, idx, emb)

	plan, _, err := p.Plan("high fever with body ache")
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(plan.NurseActions) > 6 {
		t.Errorf("NurseActions has %d entries, cap is 6", len(plan.NurseActions))
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
