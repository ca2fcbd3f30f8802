// ABOUTME: Tests for the complexity assessor
// ABOUTME: Verifies feature layout and label-to-tier mapping
package core

import (
	"reflect"
	"testing"

	"github.com/ruralcare/triage-engine/internal/models"
)

// fixedClassifier returns a canned distribution regardless of features,
// recording the feature vector it saw.
type fixedClassifier struct {
	labels []string
	probs  []float64
	seen   []float64
}

func (f *fixedClassifier) Predict(features []float64) ([]float64, error) {
	f.seen = features
	return f.probs, nil
}

func (f *fixedClassifier) Labels() []string { return f.labels }

func TestVitalsFeatures_FlagBits(t *testing.T) {
	tests := []struct {
		name   string
		vitals models.Vitals
		want   []float64
	}{
		{
			name:   "stable adult",
			vitals: models.DefaultVitals(),
			want:   []float64{30, 98, 80, 120, 80, 0, 0, 0, 0, 0},
		},
		{
			name:   "sick infant",
			vitals: models.Vitals{Age: 3, SpO2: 91, Pulse: 130, BPSys: 85, BPDia: 55},
			want:   []float64{3, 91, 130, 85, 55, 1, 0, 1, 1, 1},
		},
		{
			name:   "elderly at flag boundaries",
			vitals: models.Vitals{Age: 60, SpO2: 94, Pulse: 110, BPSys: 90, BPDia: 60},
			want:   []float64{60, 94, 110, 90, 60, 0, 1, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vitalsFeatures(tt.vitals)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("vitalsFeatures() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssess_TierFromArgmax(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float64{
		"severe chest pain": {1, 0, 0},
	}}
	clf := &fixedClassifier{
		labels: []string{"low", "medium", "high"},
		probs:  []float64{0.1, 0.2, 0.7},
	}
	a := NewAssessor(emb, clf)

	tier, probs, err := a.Assess("Severe Chest Pain", models.DefaultVitals())
	if err != nil {
		t.Fatalf("Assess() error: %v", err)
	}
	if tier != models.TierHigh {
		t.Errorf("tier = %v, want high", tier)
	}
	if len(probs) != 3 {
		t.Errorf("probs = %v, want 3 entries", probs)
	}
	// Text embedding first, vitals block after.
	if len(clf.seen) != 3+10 {
		t.Fatalf("feature dimension = %d, want 13", len(clf.seen))
	}
	if clf.seen[0] != 1 || clf.seen[3] != 30 {
		t.Errorf("feature layout wrong: %v", clf.seen)
	}
}

func TestAssess_UnknownLabelIsHardStop(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float64{
		"mild cold": {0, 1, 0},
	}}
	clf := &fixedClassifier{
		labels: []string{"low", "medium", "urgent"},
		probs:  []float64{0.1, 0.2, 0.7},
	}
	a := NewAssessor(emb, clf)

	tier, _, err := a.Assess("mild cold", models.DefaultVitals())
	if err != nil {
		t.Fatalf("Assess() error: %v", err)
	}
	if tier != models.TierUnknown {
		t.Errorf("tier = %v, want unknown for unrecognized label", tier)
	}
}
