package game

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the randomness the engines need. *rand.Rand satisfies it.
type Random interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// NewRandom returns a time-seeded source safe for concurrent use.
func NewRandom() Random {
	return &lockedRandom{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

func (r *lockedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}
