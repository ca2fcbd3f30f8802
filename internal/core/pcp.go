// ABOUTME: PCPPlanner builds the low-tier primary-care plan
// ABOUTME: Syndrome match, static rule template, RAG enrichment, medicine allow-list
package core

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/scoring"
)

var dayCountPattern = regexp.MustCompile(`(\d+)\s*day`)

// Duration beyond which a low-tier case is escalated without matching.
const escalationDays = 6

// Maximum entries per plan list after RAG enrichment.
const maxPlanItems = 6

// PCPPlanner produces deterministic primary-care plans from the static
// rule library. No generative model is involved at this tier.
type PCPPlanner struct {
	catalog          *catalog.Catalog
	index            *catalog.Index
	embedder         scoring.Embedder
	matchThreshold   float64
	fallbackScore    float64
	snippetThreshold float64
	maxSnippets      int
}

// NewPCPPlanner creates a PCPPlanner over the loaded catalog.
func NewPCPPlanner(cat *catalog.Catalog, idx *catalog.Index, emb scoring.Embedder) *PCPPlanner {
	return &PCPPlanner{
		catalog:          cat,
		index:            idx,
		embedder:         emb,
		matchThreshold:   0.45,
		fallbackScore:    0.40,
		snippetThreshold: 0.25,
		maxSnippets:      3,
	}
}

// Plan builds the low-tier plan for the accumulated case text.
func (p *PCPPlanner) Plan(text string) (*models.Plan, *models.PlanMeta, error) {
	if days, ok := symptomDays(text); ok && days >= escalationDays {
		return durationEscalationPlan(days), &models.PlanMeta{Syndrome: "duration_escalation", Score: 1.0}, nil
	}

	syndrome, score, err := p.matchSyndrome(text)
	if err != nil {
		return nil, nil, err
	}

	rules, ok := p.catalog.PCPRules[syndrome.DefaultTemplate]
	if !ok {
		return nil, nil, fmt.Errorf("syndrome %q references missing template %q", syndrome.ID, syndrome.DefaultTemplate)
	}

	plan := &models.Plan{
		ConditionSummary:   rules.ConditionSummary,
		PossibleCauses:     append([]string{}, rules.PossibleCauses...),
		NurseActions:       append([]string{}, rules.NurseActions...),
		EscalationCriteria: append([]string{}, rules.EscalationCriteria...),
		MedicinesAdvised:   p.allowedOnly(rules.MedicinesAdvised),
	}

	if err := p.augment(plan, syndrome); err != nil {
		return nil, nil, err
	}

	meta := &models.PlanMeta{Syndrome: syndrome.ID, Score: round2(score)}
	return plan, meta, nil
}

// symptomDays extracts the first "<n> day(s)" mention from the text.
func symptomDays(text string) (int, bool) {
	m := dayCountPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return days, true
}

func durationEscalationPlan(days int) *models.Plan {
	return &models.Plan{
		ConditionSummary: "Escalation required. Symptom duration exceeds the safe window for primary-care management.",
		PossibleCauses:   []string{fmt.Sprintf("Symptoms persisting for %d days need clinician review", days)},
		NurseActions: []string{
			"Refer the patient to the nearest clinician today",
			"Record complete vitals before referral",
		},
		EscalationCriteria: []string{"Already met: prolonged symptom duration"},
		MedicinesAdvised:   []string{},
	}
}

// matchSyndrome picks the closest syndrome by keyword similarity, or
// the non-specific fallback when nothing clears the threshold.
func (p *PCPPlanner) matchSyndrome(text string) (*catalog.Syndrome, float64, error) {
	textVec, err := p.embedder.Embed(strings.ToLower(text))
	if err != nil {
		return nil, 0, fmt.Errorf("embedding case text: %w", err)
	}

	var best *catalog.Syndrome
	bestScore := 0.0
	for i := range p.catalog.Syndromes {
		s := &p.catalog.Syndromes[i]
		score := scoring.CosineSimilarity(textVec, p.index.Syndromes[s.ID])
		if score > bestScore || (score == bestScore && best != nil && s.ID < best.ID) {
			best, bestScore = s, score
		}
	}

	if best == nil || bestScore < p.matchThreshold {
		return p.catalog.FallbackSyndrome(), p.fallbackScore, nil
	}
	return best, bestScore, nil
}

// augment appends the closest guideline snippets to the action and
// escalation lists, capped so plans stay readable.
func (p *PCPPlanner) augment(plan *models.Plan, syndrome *catalog.Syndrome) error {
	nameVec, err := p.embedder.Embed(strings.ToLower(syndrome.Name))
	if err != nil {
		return fmt.Errorf("embedding syndrome name: %w", err)
	}

	type scored struct {
		idx   int
		score float64
	}
	var hits []scored
	for i, vec := range p.index.Snippets {
		if score := scoring.CosineSimilarity(nameVec, vec); score > p.snippetThreshold {
			hits = append(hits, scored{idx: i, score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].idx < hits[j].idx
	})
	if len(hits) > p.maxSnippets {
		hits = hits[:p.maxSnippets]
	}

	for _, h := range hits {
		sn := p.catalog.Snippets[h.idx]
		line := fmt.Sprintf("%s (Source: %s)", sn.Text, sn.Source)
		plan.NurseActions = append(plan.NurseActions, line)
		plan.EscalationCriteria = append(plan.EscalationCriteria, line)
	}
	if len(plan.NurseActions) > maxPlanItems {
		plan.NurseActions = plan.NurseActions[:maxPlanItems]
	}
	if len(plan.EscalationCriteria) > maxPlanItems {
		plan.EscalationCriteria = plan.EscalationCriteria[:maxPlanItems]
	}
	return nil
}

// allowedOnly keeps only medicines covered by the allow-list. Matching
// is a case-insensitive substring test against each allowed name.
func (p *PCPPlanner) allowedOnly(medicines []string) []string {
	out := []string{}
	for _, med := range medicines {
		lower := strings.ToLower(med)
		for _, allowed := range p.catalog.AllowedMedicines {
			if strings.Contains(lower, strings.ToLower(allowed)) {
				out = append(out, med)
				break
			}
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
