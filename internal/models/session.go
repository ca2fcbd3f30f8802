// ABOUTME: CaseSession holds the clarification state for one patient interaction
// ABOUTME: Owned by the routing pipeline; borrowed by the collector each turn
package models

import (
	"fmt"
	"time"
)

// DefaultMaxRounds caps the number of clarification rounds per case.
const DefaultMaxRounds = 5

// CaseSession is the mutable state of one patient interaction. Text is
// append-only: every accepted answer is folded into it so later slot
// prefills can see the full history.
type CaseSession struct {
	ID           string                   `json:"id"`
	Text         string                   `json:"text"`
	Vitals       Vitals                   `json:"vitals"`
	Active       map[string]*ClusterState `json:"active_clusters"`
	Asked        map[string]bool          `json:"asked"`
	LastCluster  string                   `json:"last_cluster"`
	LastQuestion string                   `json:"last_question"`
	Round        int                      `json:"round"`
	MaxRounds    int                      `json:"max_rounds"`
	Done         bool                     `json:"done"`
	CreatedAt    time.Time                `json:"created_at"`
}

// NewCaseSession creates a session for an initial patient description.
func NewCaseSession(id, text string, vitals Vitals) *CaseSession {
	return &CaseSession{
		ID:        id,
		Text:      text,
		Vitals:    vitals,
		Active:    make(map[string]*ClusterState),
		Asked:     make(map[string]bool),
		MaxRounds: DefaultMaxRounds,
		CreatedAt: time.Now(),
	}
}

// QuestionID builds the session-unique id of a cluster slot.
func QuestionID(cluster, slot string) string {
	return fmt.Sprintf("%s:%s", cluster, slot)
}

// AppendAnswer folds an accepted question/answer pair into the
// accumulated text and advances the round counter.
func (s *CaseSession) AppendAnswer(question, answer string) {
	s.Text += fmt.Sprintf(" | %s: %s", question, answer)
	s.Round++
}

// MarkAsked records that a question was asked and which cluster it
// came from, so a later denial can close that cluster.
func (s *CaseSession) MarkAsked(cluster, slot string) {
	s.Asked[QuestionID(cluster, slot)] = true
	s.LastCluster = cluster
}

// RoundLimitReached reports whether the clarification cap is hit.
func (s *CaseSession) RoundLimitReached() bool {
	return s.Round >= s.MaxRounds
}
