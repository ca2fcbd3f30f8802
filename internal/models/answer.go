// ABOUTME: Answer validation types for the clarification guardrail
// ABOUTME: Defines question intents, answer polarity, and the verdict struct
package models

// Intent classifies what a clarifying question is asking for.
type Intent string

const (
	IntentDuration  Intent = "duration"
	IntentFrequency Intent = "frequency"
	IntentSeverity  Intent = "severity"
	IntentSystems   Intent = "systems"
	IntentRedFlag   Intent = "red_flag"
)

// Polarity is the detected yes/no direction of an answer.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityUnknown  Polarity = "unknown"
)

// AnswerVerdict is the guardrail's decision on one answer.
type AnswerVerdict struct {
	Valid      bool     `json:"is_valid"`
	Reason     string   `json:"reason"`
	Polarity   Polarity `json:"polarity,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}
