package game

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Rand is the single source of randomness used by the engine.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// lockedRand serializes access to a *rand.Rand.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRand returns a seeded source that is safe for concurrent use. A zero
// seed uses the current time.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// Fork returns an engine over the same catalog and rules with its own
// source, seeded from e's. Each concurrently running game gets one.
func (e *Engine) Fork() *Engine {
	return NewEngine(e.Catalog, e.Rules, NewRand(int64(e.Rand.Intn(math.MaxInt32))+1))
}

// pick returns a uniformly chosen element, or the zero value for an empty slice.
func pick[T any](r Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.Intn(len(items))], true
}

// shuffle permutes items in place with Fisher-Yates.
func shuffle[T any](r Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
