// ABOUTME: Pipeline is the routing facade tying every engine together
// ABOUTME: Start, SubmitAnswer, Finalize - plus the progress-streaming variant
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/session"
)

// QuestionRewriter rephrases a clarifying question for the nurse. A
// failed or rejected rewrite must return the original text unchanged.
type QuestionRewriter interface {
	Rewrite(question string) string
}

// ProgressEvent is one stage notification during streamed finalization.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// StartResponse is the outcome of opening a new case.
type StartResponse struct {
	CaseID   string           `json:"case_id"`
	Question *PendingQuestion `json:"question,omitempty"`
	Done     bool             `json:"done"`
}

// AnswerResponse is the outcome of submitting one answer.
type AnswerResponse struct {
	CaseID   string                `json:"case_id"`
	Verdict  *models.AnswerVerdict `json:"verdict"`
	Question *PendingQuestion      `json:"question,omitempty"`
	Done     bool                  `json:"done"`
}

// Pipeline wires the clarification loop, the guardrail, the assessor,
// and the three tier handlers behind a case-id keyed API.
type Pipeline struct {
	store       session.Store
	collector   *Collector
	guardrail   *Guardrail
	shortlister *Shortlister
	assessor    *Assessor
	pcp         *PCPPlanner
	mdt         *MDTPlanner
	emergency   *EmergencyHandler
	rewriter    QuestionRewriter
}

// NewPipeline assembles a Pipeline. The rewriter is optional; when nil,
// questions are asked exactly as written in the cluster config.
func NewPipeline(store session.Store, collector *Collector, guardrail *Guardrail,
	shortlister *Shortlister, assessor *Assessor, pcp *PCPPlanner, mdt *MDTPlanner,
	emergency *EmergencyHandler, rewriter QuestionRewriter) *Pipeline {
	return &Pipeline{
		store:       store,
		collector:   collector,
		guardrail:   guardrail,
		shortlister: shortlister,
		assessor:    assessor,
		pcp:         pcp,
		mdt:         mdt,
		emergency:   emergency,
		rewriter:    rewriter,
	}
}

// Start opens a case for an initial description, detects symptom
// clusters, prefills whatever the text already answers, and returns the
// first clarifying question if one is needed.
func (p *Pipeline) Start(text string, vitals models.Vitals) (*StartResponse, error) {
	caseID := strings.ToUpper(uuid.New().String()[:8])
	s := models.NewCaseSession(caseID, text, vitals)

	if err := p.collector.DetectClusters(s); err != nil {
		return nil, fmt.Errorf("detecting clusters for case %s: %w", caseID, err)
	}
	if err := p.collector.PrefillSlots(s); err != nil {
		return nil, fmt.Errorf("prefilling slots for case %s: %w", caseID, err)
	}

	q, err := p.nextQuestion(s)
	if err != nil {
		return nil, err
	}
	p.store.Put(s)

	log.Printf("[Pipeline] Case %s started: %d active clusters, first question: %v",
		caseID, len(s.Active), q != nil)
	return &StartResponse{CaseID: caseID, Question: q, Done: s.Done}, nil
}

// SubmitAnswer validates one answer. Invalid answers do not advance the
// case: the verdict explains the rejection and the same question stands.
func (p *Pipeline) SubmitAnswer(caseID, answer string) (*AnswerResponse, error) {
	s, err := p.store.Get(caseID)
	if err != nil {
		return nil, err
	}
	if s.Done {
		return &AnswerResponse{CaseID: caseID, Done: true,
			Verdict: &models.AnswerVerdict{Valid: false, Reason: "Case is already finalized"}}, nil
	}

	verdict, err := p.guardrail.Validate(s.LastQuestion, answer)
	if err != nil {
		return nil, fmt.Errorf("validating answer for case %s: %w", caseID, err)
	}
	if !verdict.Valid {
		log.Printf("[Pipeline] Case %s: answer rejected (%s)", caseID, verdict.Reason)
		return &AnswerResponse{CaseID: caseID, Verdict: verdict}, nil
	}

	p.collector.RecordAnswer(s, answer)
	s.AppendAnswer(s.LastQuestion, answer)

	// Cluster detection happens once, at case start. Answers can close
	// slots via prefill but never open new lines of inquiry.
	if err := p.collector.PrefillSlots(s); err != nil {
		return nil, fmt.Errorf("prefilling slots for case %s: %w", caseID, err)
	}

	q, err := p.nextQuestion(s)
	if err != nil {
		return nil, err
	}
	p.store.Put(s)

	return &AnswerResponse{CaseID: caseID, Verdict: verdict, Question: q, Done: s.Done}, nil
}

// nextQuestion advances the collector and applies the optional rewrite
// to the outgoing copy only. The session keeps the catalog wording:
// validation and the accumulated case text never see the rewrite.
func (p *Pipeline) nextQuestion(s *models.CaseSession) (*PendingQuestion, error) {
	q, err := p.collector.NextQuestion(s)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	s.LastQuestion = q.Text
	if p.rewriter != nil {
		q.Text = p.rewriter.Rewrite(q.Text)
	}
	return q, nil
}

// Finalize closes the case: shortlist, tier assessment, and dispatch to
// the tier handler. The session is removed once a result exists.
func (p *Pipeline) Finalize(caseID string) (*models.CaseResult, error) {
	return p.finalize(context.Background(), caseID, nil)
}

// FinalizeWithProgress behaves like Finalize but emits a stage event
// before each processing step. Every event fires before the result is
// returned, and the result is produced exactly once.
func (p *Pipeline) FinalizeWithProgress(ctx context.Context, caseID string, emit func(ProgressEvent)) (*models.CaseResult, error) {
	return p.finalize(ctx, caseID, emit)
}

func (p *Pipeline) finalize(ctx context.Context, caseID string, emit func(ProgressEvent)) (*models.CaseResult, error) {
	s, err := p.store.Get(caseID)
	if err != nil {
		return nil, err
	}

	notify := func(stage, message string) {
		if emit != nil {
			emit(ProgressEvent{Stage: stage, Message: message})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notify("shortlisting", "Extracting symptoms from case text")
	sl, err := p.shortlister.Shortlist(s.Text)
	if err != nil {
		return nil, fmt.Errorf("shortlisting case %s: %w", caseID, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notify("assessing", "Assessing case complexity")
	tier, _, err := p.assessor.Assess(s.Text, s.Vitals)
	if err != nil {
		return nil, fmt.Errorf("assessing case %s: %w", caseID, err)
	}
	log.Printf("[Pipeline] Case %s assessed as tier %s", caseID, tier)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := &models.CaseResult{
		CaseID:          caseID,
		Timestamp:       time.Now(),
		Tier:            tier,
		Route:           tier.RouteLabel(),
		Symptoms:        sl.Symptoms,
		NegatedSymptoms: sl.Negated,
	}

	switch tier {
	case models.TierLow:
		notify("planning", "Building primary-care plan")
		plan, meta, err := p.pcp.Plan(s.Text)
		if err != nil {
			return nil, fmt.Errorf("planning case %s: %w", caseID, err)
		}
		result.Advice = plan.Render()
		result.Medicines = plan.MedicinesAdvised
		result.Meta = models.ResultMeta{Syndrome: meta.Syndrome, Score: meta.Score}

	case models.TierMedium:
		notify("planning", "Convening specialist panel")
		plan, opinions, templates, err := p.mdt.Plan(s.Text, s.Vitals)
		if err != nil {
			return nil, fmt.Errorf("planning case %s: %w", caseID, err)
		}
		result.Advice = plan.Render()
		result.Medicines = plan.MedicinesAdvised
		result.Specialists = make([]string, 0, len(opinions))
		var discussion []string
		for _, op := range opinions {
			result.Specialists = append(result.Specialists, op.Specialist)
			discussion = append(discussion, fmt.Sprintf("%s: %s", op.Specialist, op.Impression))
		}
		result.Discussion = strings.Join(discussion, "\n")
		result.Meta = models.ResultMeta{TemplatesUsed: templates}

	case models.TierHigh:
		notify("planning", "Issuing emergency guidance")
		plan, alert := p.emergency.Handle(sl)
		result.Advice = plan.Render()
		result.Medicines = plan.MedicinesAdvised
		result.Meta = models.ResultMeta{Syndrome: alert}

	default:
		return nil, fmt.Errorf("case %s: tier could not be determined, more input required", caseID)
	}

	p.store.Delete(caseID)
	log.Printf("[Pipeline] Case %s finalized: route %s", caseID, result.Route)
	return result, nil
}
