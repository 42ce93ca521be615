package app

import (
	"math/rand"
	"sync"
	"time"
)

// Source draws uniformly distributed integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Shuffle returns a uniformly random permutation of ids (Fisher-Yates).
// The input slice is not modified.
func Shuffle(ids []int, src Source) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func newSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// lockedSource lets several controllers share one injected Source.
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Intn(n)
}
