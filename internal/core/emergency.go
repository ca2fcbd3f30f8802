// ABOUTME: EmergencyHandler produces the high-tier response
// ABOUTME: Keyword cascade only - no embeddings, no model calls, nothing to fail
package core

import (
	"strings"

	"github.com/ruralcare/triage-engine/internal/models"
)

// EmergencyHandler builds immediate-referral advice for high-tier
// cases. It is deliberately model-free so that the most urgent path can
// never be blocked by an upstream service.
type EmergencyHandler struct{}

// NewEmergencyHandler creates an EmergencyHandler.
func NewEmergencyHandler() *EmergencyHandler {
	return &EmergencyHandler{}
}

// Handle matches the raw case text and shortlisted diseases against an
// ordered alert cascade. The first match wins; the generic escalation
// catches everything else.
func (e *EmergencyHandler) Handle(sl *models.Shortlist) (*models.Plan, string) {
	text := strings.ToLower(sl.RawText)

	jaundice := strings.Contains(text, "jaundice") || strings.Contains(text, "yellow")
	febrile := strings.Contains(text, "fever") || strings.Contains(text, "102") || strings.Contains(text, "chills")

	switch {
	case jaundice && febrile:
		return emergencyPlan(
			"EMERGENCY: jaundice with fever suggests cholangitis or sepsis.",
			[]string{"Acute cholangitis", "Sepsis of biliary origin"},
			[]string{
				"Arrange immediate transport to the nearest emergency department",
				"Do not give anything by mouth",
				"Monitor consciousness during transport",
			},
		), "cholangitis_sepsis"

	case strings.Contains(text, "shortness of breath") || strings.Contains(text, "chest pain"):
		return emergencyPlan(
			"EMERGENCY: possible acute cardiac or pulmonary event.",
			[]string{"Acute coronary syndrome", "Pulmonary embolism", "Severe asthma"},
			[]string{
				"Arrange immediate transport to the nearest emergency department",
				"Keep the patient seated upright and at rest",
				"Give oxygen if available",
			},
		), "cardiopulmonary"

	case hasDisease(sl, "stroke"):
		return emergencyPlan(
			"EMERGENCY: stroke suspected - time-critical referral.",
			[]string{"Acute stroke"},
			[]string{
				"Note the exact time symptoms started",
				"Arrange immediate transport to a stroke-capable facility",
				"Do not give food, water, or medicines by mouth",
			},
		), "stroke"

	case hasDisease(sl, "sepsis") || hasDisease(sl, "infection"):
		return emergencyPlan(
			"EMERGENCY: severe infection or sepsis suspected.",
			[]string{"Sepsis", "Severe systemic infection"},
			[]string{
				"Arrange immediate transport to the nearest emergency department",
				"Record temperature, pulse, and blood pressure before transport",
			},
		), "sepsis"
	}

	return emergencyPlan(
		"EMERGENCY: high-complexity presentation requiring immediate clinician review.",
		[]string{"Undifferentiated emergency"},
		[]string{
			"Arrange immediate transport to the nearest emergency department",
			"Keep the patient monitored until handover",
		},
	), "generic_escalation"
}

func hasDisease(sl *models.Shortlist, fragment string) bool {
	for _, d := range sl.Diseases {
		if strings.Contains(strings.ToLower(d), fragment) {
			return true
		}
	}
	return false
}

func emergencyPlan(summary string, causes, actions []string) *models.Plan {
	return &models.Plan{
		ConditionSummary:   summary,
		PossibleCauses:     causes,
		NurseActions:       actions,
		EscalationCriteria: []string{"Already met: emergency referral in progress"},
		MedicinesAdvised:   []string{},
	}
}
