package game

import (
	"math/rand"
	"sync"
)

// Rand is the random source injected into the engine and action handlers.
// Substituting a seeded or scripted source makes every state transition
// deterministic for tests.
type Rand interface {
	// Float64 returns the next float in [0, 1).
	Float64() float64
	// Intn returns the next int in [0, n).
	Intn(n int) int
}

// NewRand returns a mutex-guarded math/rand source safe for use from the
// scheduler's worker goroutines.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
