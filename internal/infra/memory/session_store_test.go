package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hotspot-quiz-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	created := 0
	create := func() *app.Controller {
		created++
		return app.NewController(sampleCatalog())
	}

	ctrl := store.GetOrCreate("fortress/p1", create)
	if ctrl == nil {
		t.Fatalf("expected controller")
	}
	if again := store.GetOrCreate("fortress/p1", create); again != ctrl || created != 1 {
		t.Fatalf("expected the same controller to be reused, created=%d", created)
	}
	if _, ok := store.Get("fortress/p1"); !ok {
		t.Fatalf("expected session present")
	}

	_, cancel := ctrl.Subscribe()
	store.DeleteIfEmpty("fortress/p1")
	if _, ok := store.Get("fortress/p1"); !ok {
		t.Fatalf("session with a subscriber must be kept")
	}

	cancel()
	store.DeleteIfEmpty("fortress/p1")
	if _, ok := store.Get("fortress/p1"); ok {
		t.Fatalf("expected session removed when empty")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestReapDropsIdleUnwatchedSessions(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	store := NewSessionStore()
	store.now = clock.now
	create := func() *app.Controller { return app.NewController(sampleCatalog()) }

	// cookieless API traffic: one fresh session per request, nobody subscribed
	for i := 0; i < 500; i++ {
		store.GetOrCreate(fmt.Sprintf("fortress/anon-%d", i), create)
	}
	watched := store.GetOrCreate("fortress/ws", create)
	_, cancel := watched.Subscribe()
	defer cancel()
	store.GetOrCreate("fortress/active", create)

	clock.t = clock.t.Add(20 * time.Minute)
	if _, ok := store.Get("fortress/active"); !ok {
		t.Fatalf("expected active session")
	}
	clock.t = clock.t.Add(15 * time.Minute)

	if removed := store.Reap(30 * time.Minute); removed != 500 {
		t.Fatalf("expected 500 idle sessions reaped, got %d", removed)
	}
	if store.Len() != 2 {
		t.Fatalf("expected watched and recently used sessions kept, got %d", store.Len())
	}
	if _, ok := store.Get("fortress/ws"); !ok {
		t.Fatalf("session with a subscriber must survive the reaper")
	}
}

func TestRunReaperStopsWithContext(t *testing.T) {
	store := NewSessionStore()
	store.GetOrCreate("fortress/p1", func() *app.Controller { return app.NewController(sampleCatalog()) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunReaper(ctx, 20*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if store.Len() != 0 {
		t.Fatalf("expected reaper to drop the idle session")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reaper did not stop")
	}
}
