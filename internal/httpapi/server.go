// ABOUTME: HTTP surface for the triage engine - REST endpoints plus a progress websocket
// ABOUTME: Thin JSON layer over the pipeline; all decisions live in core
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/ruralcare/triage-engine/internal/core"
	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/session"
)

// Server exposes the pipeline over HTTP.
type Server struct {
	pipeline *core.Pipeline
	upgrader websocket.Upgrader
}

// NewServer creates a Server around an assembled pipeline.
func NewServer(p *core.Pipeline) *Server {
	return &Server{
		pipeline: p,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/api/start_case", s.handleStartCase)
	r.Post("/api/next_question", s.handleNextQuestion)
	r.Post("/api/process_final_answers", s.handleFinalize)
	r.Get("/ws/process_case", s.handleProcessCaseWS)

	return r
}

type startCaseRequest struct {
	Text   string         `json:"text"`
	Vitals *models.Vitals `json:"vitals,omitempty"`
}

type answerRequest struct {
	CaseID string `json:"case_id"`
	Answer string `json:"answer"`
}

type finalizeRequest struct {
	CaseID string `json:"case_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStartCase(w http.ResponseWriter, r *http.Request) {
	var req startCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	resp, err := s.pipeline.Start(req.Text, resolveVitals(req.Vitals))
	if err != nil {
		log.Printf("[HTTP] start_case failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to start case"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.CaseID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "case_id is required"})
		return
	}

	resp, err := s.pipeline.SubmitAnswer(req.CaseID, req.Answer)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "case not found"})
			return
		}
		log.Printf("[HTTP] next_question failed for case %s: %v", req.CaseID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to process answer"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.CaseID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "case_id is required"})
		return
	}

	result, err := s.pipeline.Finalize(req.CaseID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "case not found"})
			return
		}
		log.Printf("[HTTP] finalize failed for case %s: %v", req.CaseID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to finalize case"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// wsFrame is one websocket message: progress frames stream first, then
// exactly one result or error frame closes the exchange.
type wsFrame struct {
	Type    string             `json:"type"`
	Stage   string             `json:"stage,omitempty"`
	Message string             `json:"message,omitempty"`
	Result  *models.CaseResult `json:"result,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func (s *Server) handleProcessCaseWS(w http.ResponseWriter, r *http.Request) {
	caseID := r.URL.Query().Get("case_id")
	if caseID == "" {
		http.Error(w, "case_id is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HTTP] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	result, err := s.pipeline.FinalizeWithProgress(r.Context(), caseID, func(ev core.ProgressEvent) {
		frame := wsFrame{Type: "progress", Stage: ev.Stage, Message: ev.Message}
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("[HTTP] websocket write failed for case %s: %v", caseID, err)
		}
	})
	if err != nil {
		conn.WriteJSON(wsFrame{Type: "error", Error: err.Error()})
		return
	}
	conn.WriteJSON(wsFrame{Type: "result", Result: result})
}

// resolveVitals fills any missing reading with the clinical default so
// the assessor always sees a complete vector.
func resolveVitals(v *models.Vitals) models.Vitals {
	if v == nil {
		return models.DefaultVitals()
	}
	out := *v
	if out.Age == 0 {
		out.Age = models.DefaultAge
	}
	if out.SpO2 == 0 {
		out.SpO2 = models.DefaultSpO2
	}
	if out.Pulse == 0 {
		out.Pulse = models.DefaultPulse
	}
	if out.BPSys == 0 {
		out.BPSys = models.DefaultBPSys
	}
	if out.BPDia == 0 {
		out.BPDia = models.DefaultBPDia
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] encoding response failed: %v", err)
	}
}
