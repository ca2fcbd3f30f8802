// ABOUTME: Complexity tier types - the single dispatch point for the pipeline
// ABOUTME: Defines the 3 handling strategies plus the unknown hard stop
package models

// Tier is the complexity tier selecting a downstream handling strategy
type Tier string

const (
	// TierLow - deterministic primary-care planner
	TierLow Tier = "low"

	// TierMedium - multi-disciplinary specialist planner
	TierMedium Tier = "medium"

	// TierHigh - emergency keyword cascade, no model calls
	TierHigh Tier = "high"

	// TierUnknown - hard stop, more input required; never silently defaulted
	TierUnknown Tier = "unknown"
)

// IsValid reports whether the tier is one of the defined values.
func (t Tier) IsValid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh, TierUnknown:
		return true
	}
	return false
}

// RouteLabel is the human-readable route name used in case results.
func (t Tier) RouteLabel() string {
	switch t {
	case TierLow:
		return "Low (PCP)"
	case TierMedium:
		return "Medium (MDT)"
	case TierHigh:
		return "High (Emergency)"
	}
	return "Unknown"
}
