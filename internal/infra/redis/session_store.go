package redis

import (
	"context"
	"sync"
	"time"

	"hotspot-quiz-service/internal/app"

	"github.com/redis/go-redis/v9"
)

type session struct {
	ctrl     *app.Controller
	lastSeen time.Time
}

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Rounds themselves stay in process memory; Redis only carries a liveness
// marker per session so operators can count active players across instances.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *SessionStore) GetOrCreate(key string, create func() *app.Controller) *app.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		sess.lastSeen = s.now()
		s.touch(key)
		return sess.ctrl
	}
	ctrl := create()
	s.sessions[key] = &session{ctrl: ctrl, lastSeen: s.now()}
	s.touch(key)
	return ctrl
}

// Get also refreshes the liveness marker, so clicks and resets keep a
// player counted.
func (s *SessionStore) Get(key string) (*app.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	s.touch(key)
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
		_ = s.client.Del(context.Background(), s.key(key)).Err()
	}
}

// Reap drops sessions untouched for longer than idle that nobody watches,
// and refreshes the markers of sessions that still have subscribers.
func (s *SessionStore) Reap(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	var expired, watched []string
	s.mu.Lock()
	for key, sess := range s.sessions {
		switch {
		case !sess.ctrl.IsEmpty():
			watched = append(watched, key)
		case sess.lastSeen.Before(cutoff):
			delete(s.sessions, key)
			expired = append(expired, key)
		}
	}
	s.mu.Unlock()

	ctx := context.Background()
	_, _ = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range expired {
			pipe.Del(ctx, s.key(key))
		}
		for _, key := range watched {
			pipe.Set(ctx, s.key(key), "1", s.ttl)
		}
		return nil
	})
	return len(expired)
}

// RunReaper calls Reap every idle/2 until ctx is done.
func (s *SessionStore) RunReaper(ctx context.Context, idle time.Duration) {
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
			s.Reap(idle)
		}
	}
}

// Len reports how many rounds this instance holds.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CountLive counts liveness markers, across every instance sharing Redis.
func (s *SessionStore) CountLive(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, "quiz:session:*", 100).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

// touch refreshes the best-effort liveness marker.
func (s *SessionStore) touch(key string) {
	_ = s.client.Set(context.Background(), s.key(key), "1", s.ttl).Err()
}

func (s *SessionStore) key(key string) string {
	return "quiz:session:" + key
}
