// ABOUTME: Collector drives multi-turn symptom clarification for a case
// ABOUTME: Detects clusters, prefills slots from text, picks the next question
package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/scoring"
)

// negativeConfirmations are answer fragments that close the entire
// cluster the last question came from. Matched as substrings of the
// lower-cased answer.
var negativeConfirmations = []string{
	"no", "not", "none", "never", "no such", "nothing like",
	"only headache", "only pain", "no problem", "no symptoms",
}

// PendingQuestion is the next clarifying question chosen for a session.
type PendingQuestion struct {
	Cluster string `json:"cluster"`
	Slot    string `json:"slot"`
	Text    string `json:"text"`
}

// Collector owns the clarification loop. It never talks to a planner:
// its only job is to decide which question, if any, to ask next.
type Collector struct {
	catalog          *catalog.Catalog
	index            *catalog.Index
	embedder         scoring.Embedder
	detectThreshold  float64
	prefillThreshold float64
}

// NewCollector creates a Collector over the loaded catalog.
func NewCollector(cat *catalog.Catalog, idx *catalog.Index, emb scoring.Embedder) *Collector {
	return &Collector{
		catalog:          cat,
		index:            idx,
		embedder:         emb,
		detectThreshold:  0.45,
		prefillThreshold: 0.55,
	}
}

// DetectClusters activates every cluster whose best keyword similarity
// against the session text clears the detection threshold. Already
// active clusters keep their existing state.
func (c *Collector) DetectClusters(s *models.CaseSession) error {
	textVec, err := c.embedder.Embed(strings.ToLower(s.Text))
	if err != nil {
		return fmt.Errorf("embedding case text: %w", err)
	}

	for i := range c.catalog.Clusters {
		cl := &c.catalog.Clusters[i]
		if _, active := s.Active[cl.Name]; active {
			continue
		}
		best := 0.0
		for _, kwVec := range c.index.ClusterKeywords[cl.Name] {
			if score := scoring.CosineSimilarity(textVec, kwVec); score > best {
				best = score
			}
		}
		if best >= c.detectThreshold {
			s.Active[cl.Name] = models.NewClusterState(cl, best)
		}
	}
	return nil
}

// PrefillSlots confirms any unknown slot whose question is already
// answered by the accumulated text, so it is never asked aloud.
func (c *Collector) PrefillSlots(s *models.CaseSession) error {
	textVec, err := c.embedder.Embed(strings.ToLower(s.Text))
	if err != nil {
		return fmt.Errorf("embedding case text: %w", err)
	}

	for name, state := range s.Active {
		for slot, slotState := range state.Slots {
			if slotState != models.SlotUnknown {
				continue
			}
			qVec := c.index.Questions[models.QuestionID(name, slot)]
			if qVec == nil {
				continue
			}
			if scoring.CosineSimilarity(textVec, qVec) >= c.prefillThreshold {
				state.Slots[slot] = models.SlotConfirmed
			}
		}
	}
	return nil
}

// RecordAnswer applies the negative-confirmation rule: an answer that
// is essentially "no" closes every slot of the cluster whose question
// was just asked.
func (c *Collector) RecordAnswer(s *models.CaseSession, answer string) {
	if s.LastCluster == "" {
		return
	}
	state, ok := s.Active[s.LastCluster]
	if !ok {
		return
	}
	lower := strings.ToLower(answer)
	for _, phrase := range negativeConfirmations {
		if strings.Contains(lower, phrase) {
			state.CloseAll()
			return
		}
	}
}

// NextQuestion picks the highest-priority unanswered question, marks it
// asked, and returns it. A nil question means clarification is complete
// and the session is marked done. The round cap is enforced here too.
func (c *Collector) NextQuestion(s *models.CaseSession) (*PendingQuestion, error) {
	if s.RoundLimitReached() {
		s.Done = true
		return nil, nil
	}

	for _, name := range c.orderedActive(s) {
		state := s.Active[name]
		cl := c.catalog.Cluster(name)
		if cl == nil {
			return nil, fmt.Errorf("session %s references unknown cluster %q", s.ID, name)
		}
		// Config order, not map order: slots are asked as written.
		for _, q := range cl.Questions {
			if state.Slots[q.Slot] != models.SlotUnknown {
				continue
			}
			if s.Asked[models.QuestionID(name, q.Slot)] {
				continue
			}
			s.MarkAsked(name, q.Slot)
			state.Slots[q.Slot] = models.SlotConfirmed
			return &PendingQuestion{Cluster: name, Slot: q.Slot, Text: q.Text}, nil
		}
	}

	s.Done = true
	return nil, nil
}

// orderedActive returns active cluster names sorted by priority desc,
// detection score desc, then name, so question order is deterministic.
func (c *Collector) orderedActive(s *models.CaseSession) []string {
	names := make([]string, 0, len(s.Active))
	for name := range s.Active {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.Active[names[i]], s.Active[names[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return names[i] < names[j]
	})
	return names
}
