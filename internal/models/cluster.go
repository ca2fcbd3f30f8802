// ABOUTME: Symptom cluster types and per-session cluster state
// ABOUTME: Clusters are static config; ClusterState tracks slot filling per case
package models

// SlotState represents the fill state of one clarifying slot.
// There is no "denied" state: a negative confirmation closes the
// whole cluster, not a single slot.
type SlotState int

const (
	// SlotUnknown - the slot has not been answered or prefilled yet
	SlotUnknown SlotState = iota

	// SlotConfirmed - resolved, nothing further to ask
	SlotConfirmed
)

// Question is one clarifying slot inside a cluster. Order matters:
// slots are asked in the order they appear in the cluster config.
type Question struct {
	Slot string `yaml:"slot" json:"slot"`
	Text string `yaml:"text" json:"text"`
}

// Cluster is a static symptom cluster: related keywords, its ordered
// clarifying questions, and a clinical priority. Immutable after load.
type Cluster struct {
	Name      string     `yaml:"name" json:"name"`
	Keywords  []string   `yaml:"keywords" json:"keywords"`
	Questions []Question `yaml:"questions" json:"questions"`
	Priority  int        `yaml:"priority" json:"priority"`
}

// QuestionText returns the question for a slot, or "" if the slot
// does not exist in this cluster.
func (c *Cluster) QuestionText(slot string) string {
	for _, q := range c.Questions {
		if q.Slot == slot {
			return q.Text
		}
	}
	return ""
}

// ClusterState is the per-session state of one active cluster.
type ClusterState struct {
	Score    float64              `json:"score"`
	Priority int                  `json:"priority"`
	Slots    map[string]SlotState `json:"slots"`
}

// NewClusterState creates state for a newly detected cluster with all
// slots unknown.
func NewClusterState(c *Cluster, score float64) *ClusterState {
	slots := make(map[string]SlotState, len(c.Questions))
	for _, q := range c.Questions {
		slots[q.Slot] = SlotUnknown
	}
	return &ClusterState{
		Score:    score,
		Priority: c.Priority,
		Slots:    slots,
	}
}

// CloseAll marks every slot confirmed. Used by the negative-confirmation
// rule: a "no" to the most recent question closes the entire line of
// inquiry that produced it.
func (cs *ClusterState) CloseAll() {
	for slot := range cs.Slots {
		cs.Slots[slot] = SlotConfirmed
	}
}

// Exhausted reports whether no unknown slot remains.
func (cs *ClusterState) Exhausted() bool {
	for _, state := range cs.Slots {
		if state == SlotUnknown {
			return false
		}
	}
	return true
}
