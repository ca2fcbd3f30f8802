// ABOUTME: Vitals carried with each case and used by the complexity assessor
// ABOUTME: Defaults match a stable adult so missing readings stay neutral
package models

// Clinical defaults applied when a reading was not taken.
const (
	DefaultAge   = 30
	DefaultSpO2  = 98
	DefaultPulse = 80
	DefaultBPSys = 120
	DefaultBPDia = 80
)

// Vitals are the five raw readings for a case. All fields are assumed
// resolved (defaults applied) by the time they reach the assessor.
type Vitals struct {
	Age   int `json:"age"`
	SpO2  int `json:"spo2"`
	Pulse int `json:"pulse"`
	BPSys int `json:"bp_sys"`
	BPDia int `json:"bp_dia"`
}

// DefaultVitals returns the neutral adult baseline.
func DefaultVitals() Vitals {
	return Vitals{
		Age:   DefaultAge,
		SpO2:  DefaultSpO2,
		Pulse: DefaultPulse,
		BPSys: DefaultBPSys,
		BPDia: DefaultBPDia,
	}
}
