package memory

import (
	"context"
	"sync"
	"time"

	"hotspot-quiz-service/internal/app"
)

type session struct {
	ctrl     *app.Controller
	lastSeen time.Time
}

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

func (s *SessionStore) GetOrCreate(key string, create func() *app.Controller) *app.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		sess.lastSeen = s.now()
		return sess.ctrl
	}
	ctrl := create()
	s.sessions[key] = &session{ctrl: ctrl, lastSeen: s.now()}
	return ctrl
}

func (s *SessionStore) Get(key string) (*app.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ctrl, true
}

func (s *SessionStore) DeleteIfEmpty(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return
	}
	if sess.ctrl.IsEmpty() {
		delete(s.sessions, key)
	}
}

// Reap drops sessions untouched for longer than idle that nobody watches.
// It returns how many were removed.
func (s *SessionStore) Reap(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) && sess.ctrl.IsEmpty() {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// RunReaper calls Reap every idle/2 until ctx is done.
func (s *SessionStore) RunReaper(ctx context.Context, idle time.Duration) {
	runReaper(ctx, idle, s.Reap)
}

// Len reports how many rounds are held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func runReaper(ctx context.Context, idle time.Duration, reap func(time.Duration) int) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reap(idle)
		}
	}
}
