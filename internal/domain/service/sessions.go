package service

import (
	"sync"
	"time"

	"github.com/Badsnus/tabqr/internal/domain/entity"
)

// Session is one open popup: its state and its display surface.
type Session struct {
	Surface *Surface

	mu    sync.Mutex
	state entity.PopupState
	seen  time.Time
}

// State returns a snapshot of the session state.
func (s *Session) State() entity.PopupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update replaces the state with fn's result. fn runs under the session lock
// and must not render; reserving a surface sequence in it is fine.
func (s *Session) Update(fn func(entity.PopupState) entity.PopupState) entity.PopupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// Sessions keeps the open popups and forgets the ones idle for longer than
// the ttl.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*Session
	ttl   time.Duration
	now   func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		items: make(map[string]*Session),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the session and marks it as used.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[id]
	if ok {
		session.seen = s.now()
	}
	return session, ok
}

// Put opens a session with the given state, replacing any previous one.
func (s *Sessions) Put(state entity.PopupState) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &Session{
		Surface: NewSurface(),
		state:   state,
		seen:    s.now(),
	}
	s.items[state.SessionID] = session
	return session
}

// Delete removes a session and returns its last state.
func (s *Sessions) Delete(id string) (entity.PopupState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[id]
	if !ok {
		return entity.PopupState{}, false
	}
	delete(s.items, id)
	return session.State(), true
}

// Expire removes idle sessions and returns their last states.
func (s *Sessions) Expire() []entity.PopupState {
	if s.ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	deadline := s.now().Add(-s.ttl)
	var expired []entity.PopupState
	for id, session := range s.items {
		if session.seen.Before(deadline) {
			expired = append(expired, session.State())
			delete(s.items, id)
		}
	}
	return expired
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
