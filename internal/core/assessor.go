// ABOUTME: Assessor turns case text plus vitals into a complexity tier
// ABOUTME: Embedding concat vitals features, classifier probabilities, argmax
package core

import (
	"fmt"
	"strings"

	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/scoring"
)

// Assessor computes the routing tier for a finalized case.
type Assessor struct {
	embedder   scoring.Embedder
	classifier scoring.Classifier
}

// NewAssessor creates an Assessor.
func NewAssessor(emb scoring.Embedder, clf scoring.Classifier) *Assessor {
	return &Assessor{embedder: emb, classifier: clf}
}

// vitalsFeatures returns the fixed-order numeric block appended to the
// text embedding: raw vitals followed by clinical flag bits.
func vitalsFeatures(v models.Vitals) []float64 {
	flags := []struct {
		on bool
	}{
		{v.Age < 5},
		{v.Age >= 60},
		{v.SpO2 < 94},
		{v.BPSys < 90},
		{v.Pulse > 110},
	}
	out := []float64{
		float64(v.Age),
		float64(v.SpO2),
		float64(v.Pulse),
		float64(v.BPSys),
		float64(v.BPDia),
	}
	for _, f := range flags {
		if f.on {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	return out
}

// Assess classifies the case into a tier. Unknown classifier labels map
// to TierUnknown, which downstream treats as a hard stop.
func (a *Assessor) Assess(text string, vitals models.Vitals) (models.Tier, []float64, error) {
	textVec, err := a.embedder.Embed(strings.ToLower(text))
	if err != nil {
		return models.TierUnknown, nil, fmt.Errorf("embedding case text: %w", err)
	}

	features := make([]float64, 0, len(textVec)+10)
	features = append(features, textVec...)
	features = append(features, vitalsFeatures(vitals)...)

	probs, err := a.classifier.Predict(features)
	if err != nil {
		return models.TierUnknown, nil, fmt.Errorf("classifying case: %w", err)
	}

	labels := a.classifier.Labels()
	if len(probs) != len(labels) {
		return models.TierUnknown, probs, fmt.Errorf("classifier returned %d probabilities for %d labels", len(probs), len(labels))
	}

	tier := models.Tier(labels[scoring.Argmax(probs)])
	if !tier.IsValid() {
		return models.TierUnknown, probs, nil
	}
	return tier, probs, nil
}
