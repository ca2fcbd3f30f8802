// ABOUTME: MDTPlanner assembles the medium-tier multi-specialist plan
// ABOUTME: Rule-selected specialists, template matching, merged deduped output
package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/scoring"
)

// specialistRule pairs a presentation predicate with the specialists it
// convenes. Rules are evaluated in order; the first hit wins. Predicates
// see the lower-cased case text so selection stays deterministic.
type specialistRule struct {
	applies     func(text string, v models.Vitals) bool
	specialists []string
}

// MDTPlanner selects specialists by clinical rules and merges their
// template opinions into one plan. Templates are static config; nothing
// at this tier is freely generated.
type MDTPlanner struct {
	catalog           *catalog.Catalog
	index             *catalog.Index
	embedder          scoring.Embedder
	templateThreshold float64
	snippetThreshold  float64
	maxSnippets       int
	rules             []specialistRule
}

// NewMDTPlanner creates an MDTPlanner over the loaded catalog.
func NewMDTPlanner(cat *catalog.Catalog, idx *catalog.Index, emb scoring.Embedder) *MDTPlanner {
	return &MDTPlanner{
		catalog:           cat,
		index:             idx,
		embedder:          emb,
		templateThreshold: 0.35,
		snippetThreshold:  0.25,
		maxSnippets:       2,
		rules: []specialistRule{
			{
				applies: func(text string, v models.Vitals) bool {
					return mentionsAny(text, "chest pain", "breathing difficulty")
				},
				specialists: []string{"Cardiologist", "Pulmonologist"},
			},
			{
				applies: func(text string, v models.Vitals) bool {
					return v.Age < 12 && mentionsAny(text, "fever", "cough")
				},
				specialists: []string{"Pediatrician", "Pulmonologist"},
			},
			{
				applies: func(text string, v models.Vitals) bool {
					return mentionsAny(text, "vomit", "stomach", "abdominal")
				},
				specialists: []string{"Gastroenterologist", "GeneralPhysician"},
			},
			{
				applies: func(text string, v models.Vitals) bool {
					return v.BPSys < 100 || mentionsAny(text, "dizziness")
				},
				specialists: []string{"Cardiologist", "Neurologist"},
			},
		},
	}
}

// mentionsAny reports whether the lower-cased case text contains one of
// the given fragments.
func mentionsAny(text string, fragments ...string) bool {
	for _, frag := range fragments {
		if strings.Contains(text, frag) {
			return true
		}
	}
	return false
}

// SelectSpecialists returns the panel for the case presentation.
func (m *MDTPlanner) SelectSpecialists(text string, vitals models.Vitals) []string {
	txt := strings.ToLower(text)
	for _, rule := range m.rules {
		if rule.applies(txt, vitals) {
			return rule.specialists
		}
	}
	return []string{"GeneralPhysician", "Pulmonologist"}
}

// Plan builds the merged multi-specialist plan. It returns the plan,
// the individual opinions, and the template ids used per specialist.
func (m *MDTPlanner) Plan(text string, vitals models.Vitals) (*models.Plan, []models.SpecialistOpinion, []string, error) {
	textVec, err := m.embedder.Embed(strings.ToLower(text))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("embedding case text: %w", err)
	}

	specialists := m.SelectSpecialists(text, vitals)

	var opinions []models.SpecialistOpinion
	var templatesUsed []string
	for _, specialist := range specialists {
		tpl, err := m.bestTemplate(specialist, textVec)
		if err != nil {
			return nil, nil, nil, err
		}
		opinions = append(opinions, models.SpecialistOpinion{
			Specialist:   specialist,
			Impression:   tpl.Impression,
			NurseActions: append([]string{}, tpl.NurseActions...),
			Escalation:   append([]string{}, tpl.Escalation...),
			Medicines:    append([]string{}, tpl.Medicines...),
		})
		templatesUsed = append(templatesUsed, fmt.Sprintf("%s:%s", specialist, tpl.ID))
	}

	plan := m.merge(opinions)
	if err := m.augment(plan, textVec); err != nil {
		return nil, nil, nil, err
	}
	return plan, opinions, templatesUsed, nil
}

// bestTemplate picks the specialist's template closest to the case
// text, falling back to the mandatory general template.
func (m *MDTPlanner) bestTemplate(specialist string, textVec []float64) (*catalog.SpecialistTemplate, error) {
	templates := m.catalog.MDTRules[specialist]
	if len(templates) == 0 {
		return nil, fmt.Errorf("no templates configured for specialist %q", specialist)
	}

	bestID := ""
	bestScore := 0.0
	for i := range templates {
		tpl := &templates[i]
		score := scoring.CosineSimilarity(textVec, m.index.Templates[specialist][tpl.ID])
		if score > bestScore || (score == bestScore && bestID != "" && tpl.ID < bestID) {
			bestID, bestScore = tpl.ID, score
		}
	}
	if bestScore < m.templateThreshold {
		bestID = catalog.GeneralTemplateID
	}

	for i := range templates {
		if templates[i].ID == bestID {
			return &templates[i], nil
		}
	}
	return nil, fmt.Errorf("specialist %q is missing template %q", specialist, bestID)
}

// merge folds the opinions into one plan. The condition summary joins
// the first three impressions as spoken; every list is deduped
// case-insensitively with first occurrence winning, preserving
// specialist order.
func (m *MDTPlanner) merge(opinions []models.SpecialistOpinion) *models.Plan {
	var impressions, actions, escalation, medicines []string
	for _, op := range opinions {
		impressions = append(impressions, op.Impression)
		actions = append(actions, op.NurseActions...)
		escalation = append(escalation, op.Escalation...)
		medicines = append(medicines, op.Medicines...)
	}

	summaryParts := impressions
	if len(summaryParts) > 3 {
		summaryParts = summaryParts[:3]
	}

	return &models.Plan{
		ConditionSummary:   strings.Join(summaryParts, " "),
		PossibleCauses:     dedupe(impressions),
		NurseActions:       dedupe(actions),
		EscalationCriteria: dedupe(escalation),
		MedicinesAdvised:   dedupe(medicines),
	}
}

// augment appends up to maxSnippets guideline snippets relevant to the
// case text onto the action list.
func (m *MDTPlanner) augment(plan *models.Plan, textVec []float64) error {
	type scored struct {
		idx   int
		score float64
	}
	var hits []scored
	for i, vec := range m.index.Snippets {
		if score := scoring.CosineSimilarity(textVec, vec); score > m.snippetThreshold {
			hits = append(hits, scored{idx: i, score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].idx < hits[j].idx
	})
	if len(hits) > m.maxSnippets {
		hits = hits[:m.maxSnippets]
	}

	for _, h := range hits {
		plan.NurseActions = append(plan.NurseActions,
			fmt.Sprintf("%s (Guideline reference)", m.catalog.Snippets[h.idx].Text))
	}
	return nil
}

// dedupe removes case-insensitive duplicates, keeping first occurrences
// in order. Always returns a non-nil slice.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
