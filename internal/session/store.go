// ABOUTME: Session store abstraction keyed by case id
// ABOUTME: Replaces implicit single-session state; safe for concurrent cases
package session

import (
	"errors"
	"sync"

	"github.com/ruralcare/triage-engine/internal/models"
)

// ErrNotFound is returned when a case id has no live session. It is a
// recoverable input error, never a crash.
var ErrNotFound = errors.New("session not found")

// Store holds live case sessions. Every lookup takes an explicit case
// id; there is no "current session" shortcut.
type Store interface {
	Get(caseID string) (*models.CaseSession, error)
	Put(s *models.CaseSession)
	Delete(caseID string)
}

// MemoryStore is an in-process Store. Sessions hold no external
// resources, so abandoned entries simply stay until deleted.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.CaseSession
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.CaseSession),
	}
}

// Get returns the session for caseID or ErrNotFound.
func (m *MemoryStore) Get(caseID string) (*models.CaseSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[caseID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Put stores or replaces the session under its id.
func (m *MemoryStore) Put(s *models.CaseSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Delete removes a session. Deleting a missing id is a no-op.
func (m *MemoryStore) Delete(caseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, caseID)
}
