package pool

import (
	"math/rand"
	"sync"
)

// randSource is a small mutex-guarded PRNG used to pick a uniformly random
// endpoint when a pool is disabled (max_size == 0). Each Pool gets its own
// rand.Rand from newRandSource, which avoids the global rand mutex
// contention across every disabled pool in a process while still being safe
// for concurrent Acquire calls.
type randSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newRandSource() *randSource {
	return &randSource{rnd: rand.New(rand.NewSource(rand.Int63()))}
}

func (r *randSource) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}
