package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	predictplot "github.com/aouyang1/go-predictplot"
)

// DefaultSessionID names the session that always exists for single user deployments
const DefaultSessionID = "default"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDefaultSession  = errors.New("default session cannot be deleted")
)

// SessionManager maps session ids to independent sessions. No state is shared between
// sessions other than the persister.
type SessionManager struct {
	opt       *predictplot.Options
	persister predictplot.Persister

	mu       sync.RWMutex
	sessions map[string]*predictplot.Session
}

// NewSessionManager creates a manager holding only the default session
func NewSessionManager(opt *predictplot.Options, persister predictplot.Persister) (*SessionManager, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	m := &SessionManager{
		opt:       opt,
		persister: persister,
		sessions:  make(map[string]*predictplot.Session),
	}

	s, err := predictplot.NewSession(m.opt, m.persister)
	if err != nil {
		return nil, fmt.Errorf("unable to create default session, %w", err)
	}
	m.sessions[DefaultSessionID] = s
	return m, nil
}

// Create starts a new empty session and returns its id
func (m *SessionManager) Create() (string, *predictplot.Session, error) {
	s, err := predictplot.NewSession(m.opt, m.persister)
	if err != nil {
		return "", nil, err
	}
	id := uuid.New().String()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return id, s, nil
}

// Get returns the session registered under id
func (m *SessionManager) Get(id string) (*predictplot.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%q, %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Delete removes a session after its in-flight persistence completes
func (m *SessionManager) Delete(id string) error {
	if id == DefaultSessionID {
		return ErrDefaultSession
	}

	m.mu.Lock()
	s, exists := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("%q, %w", id, ErrSessionNotFound)
	}
	s.Wait()
	return nil
}

// IDs returns the registered session ids in sorted order
func (m *SessionManager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Wait blocks until every session has finished persisting
func (m *SessionManager) Wait() {
	m.mu.RLock()
	sessions := make([]*predictplot.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.Wait()
	}
}
