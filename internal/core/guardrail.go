// ABOUTME: Guardrail validates clarification answers before they enter a case
// ABOUTME: Rule checks first, semantic similarity and reranker as fallbacks
package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/scoring"
)

var numberPattern = regexp.MustCompile(`\b\d+\b`)

// intentCues maps question fragments to intents. Checked in fixed order;
// the first intent with a matching cue wins.
var intentChecks = []struct {
	intent models.Intent
	cues   []string
}{
	{models.IntentDuration, []string{"since", "when", "how long", "weeks", "days"}},
	{models.IntentFrequency, []string{"how many", "times", "24 hours"}},
	{models.IntentSeverity, []string{"severe", "mild", "continuous", "active", "feeding"}},
	{models.IntentSystems, []string{"any", "with", "along with", "only"}},
	{models.IntentRedFlag, []string{"confusion", "bleeding", "unconscious", "collapse", "fits", "seizure", "paralysis"}},
}

// Reassuring words ("normal", "fine", "okay") count as negative: they
// deny the symptom the question is probing for.
var guardNegativeWords = map[string]bool{
	"no": true, "not": true, "none": true, "never": true,
	"normal": true, "fine": true, "okay": true, "good": true,
	"absent": true, "without": true, "nil": true, "nothing": true,
}

var guardPositiveWords = map[string]bool{
	"yes": true, "present": true, "having": true, "exists": true,
	"severe": true, "mild": true, "continuous": true, "worse": true,
	"vomiting": true, "bleeding": true, "pain": true,
	"breathless": true, "confused": true, "drowsy": true,
}

// stateWords describe the patient's current condition. A state answer
// counts as positive: it asserts an observation rather than denying one.
var guardStateWords = map[string]bool{
	"alert": true, "conscious": true, "feeding": true, "active": true,
	"eating": true, "drinking": true, "responsive": true,
}

// Guardrail decides whether an answer actually addresses the question it
// was given for. Invalid answers are rejected before they can pollute
// the accumulated case text.
type Guardrail struct {
	embedder           scoring.Embedder
	reranker           scoring.RelevanceScorer
	relevanceThreshold float64
	rerankThreshold    float64
}

// NewGuardrail creates a Guardrail. The reranker is optional; when nil,
// validation stops at the embedding similarity check.
func NewGuardrail(emb scoring.Embedder, reranker scoring.RelevanceScorer) *Guardrail {
	return &Guardrail{
		embedder:           emb,
		reranker:           reranker,
		relevanceThreshold: 0.45,
		rerankThreshold:    0.30,
	}
}

// InferIntent classifies what the question is asking for. Questions with
// no recognizable cue default to a systems probe.
func InferIntent(question string) models.Intent {
	q := strings.ToLower(question)
	for _, check := range intentChecks {
		for _, cue := range check.cues {
			if strings.Contains(q, cue) {
				return check.intent
			}
		}
	}
	return models.IntentSystems
}

// DetectPolarity reports the yes/no direction of an answer. Negative
// words dominate, then explicit positives, then state descriptions.
func DetectPolarity(answer string) models.Polarity {
	tokens := strings.Fields(strings.ToLower(answer))
	hasPositive, hasState := false, false
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?")
		if guardNegativeWords[tok] {
			return models.PolarityNegative
		}
		if guardPositiveWords[tok] {
			hasPositive = true
		}
		if guardStateWords[tok] {
			hasState = true
		}
	}
	if hasPositive || hasState {
		return models.PolarityPositive
	}
	return models.PolarityUnknown
}

// Validate checks one answer against its question. The rule ladder runs
// cheapest-first; model calls happen only when no rule accepts.
func (g *Guardrail) Validate(question, answer string) (*models.AnswerVerdict, error) {
	ans := strings.ToLower(strings.TrimSpace(answer))
	if ans == "" {
		return &models.AnswerVerdict{Valid: false, Reason: "Empty answer"}, nil
	}

	intent := InferIntent(question)
	polarity := DetectPolarity(ans)

	if intent == models.IntentDuration {
		return &models.AnswerVerdict{Valid: true, Reason: "Duration answer accepted", Polarity: polarity, Confidence: 1.0}, nil
	}
	if numberPattern.MatchString(ans) {
		return &models.AnswerVerdict{Valid: true, Reason: "Numeric answer accepted", Polarity: polarity, Confidence: 1.0}, nil
	}
	if intent == models.IntentRedFlag && polarity != models.PolarityUnknown {
		return &models.AnswerVerdict{Valid: true, Reason: "Red-flag answer accepted", Polarity: polarity, Confidence: 1.0}, nil
	}
	if (intent == models.IntentSystems || intent == models.IntentSeverity) && polarity != models.PolarityUnknown {
		return &models.AnswerVerdict{Valid: true, Reason: "Polarity answer accepted", Polarity: polarity, Confidence: 1.0}, nil
	}

	qVec, err := g.embedder.Embed(strings.ToLower(question))
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	aVec, err := g.embedder.Embed(ans)
	if err != nil {
		return nil, fmt.Errorf("embedding answer: %w", err)
	}
	if sim := scoring.CosineSimilarity(qVec, aVec); sim >= g.relevanceThreshold {
		return &models.AnswerVerdict{Valid: true, Reason: "Semantically relevant", Polarity: polarity, Confidence: sim}, nil
	}

	if g.reranker != nil {
		score, err := g.reranker.Score(question, ans)
		if err != nil {
			return nil, fmt.Errorf("reranking answer: %w", err)
		}
		if score >= g.rerankThreshold {
			return &models.AnswerVerdict{Valid: true, Reason: "Reranker accepted", Polarity: polarity, Confidence: score}, nil
		}
	}

	return &models.AnswerVerdict{Valid: false, Reason: "Answer not clinically relevant", Polarity: polarity}, nil
}
