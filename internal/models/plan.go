// ABOUTME: Structured nurse-facing plan and specialist opinion types
// ABOUTME: Plans render into the fixed five-section text used everywhere downstream
package models

import (
	"fmt"
	"strings"
)

// Plan is the structured output of the low and medium tiers. Fields are
// always present; lists may be empty but never nil when built through
// the planners.
type Plan struct {
	ConditionSummary   string   `json:"condition_summary"`
	PossibleCauses     []string `json:"possible_causes"`
	NurseActions       []string `json:"nurse_actions"`
	EscalationCriteria []string `json:"escalation_criteria"`
	MedicinesAdvised   []string `json:"medicines_advised"`
}

// PlanMeta records how a low-tier plan was matched, for observability.
type PlanMeta struct {
	Syndrome string  `json:"syndrome"`
	Score    float64 `json:"score"`
}

// SpecialistOpinion is one specialist's template-sourced contribution
// to a medium-tier case. Never freely generated.
type SpecialistOpinion struct {
	Specialist   string   `json:"specialist"`
	Impression   string   `json:"impression"`
	NurseActions []string `json:"nurse_actions"`
	Escalation   []string `json:"escalation"`
	Medicines    []string `json:"medicines"`
}

// Render produces the five-section plan text in fixed section order.
func (p *Plan) Render() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CONDITION SUMMARY:\n%s\n\n", p.ConditionSummary))
	sb.WriteString(fmt.Sprintf("POSSIBLE CAUSES:\n%s\n\n", bullets(p.PossibleCauses)))
	sb.WriteString(fmt.Sprintf("NURSE ACTIONS:\n%s\n\n", bullets(p.NurseActions)))
	sb.WriteString(fmt.Sprintf("ESCALATION CRITERIA:\n%s\n\n", bullets(p.EscalationCriteria)))
	sb.WriteString(fmt.Sprintf("MEDICINES ADVISED:\n%s", bullets(p.MedicinesAdvised)))
	return sb.String()
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
