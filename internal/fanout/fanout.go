// Package fanout implements the concurrent request-composition pattern used
// throughout BuzzBlog: a handler building an expanded view spawns several
// independent downstream RPCs, then joins them before returning. It
// replaces the source's std::async(std::launch::async)-per-call model with
// a semaphore-bounded Group: each Spawn still starts its own goroutine, but
// only the Group's cap of them run their task at once while the rest wait
// for a slot.
package fanout

// DefaultMaxConcurrency caps how many sub-calls spawned through one Group
// run at once. A nested Group (such as ListAccounts' per-row groups) carries
// its own cap of the same size.
const DefaultMaxConcurrency = 16

// Handle is returned by Spawn; Get blocks until the task completes.
type Handle[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Get blocks until the spawned function has completed and returns its
// result, or the error it produced.
func (h *Handle[T]) Get() (T, error) {
	<-h.done
	return h.result, h.err
}

// Group bounds the concurrency of everything spawned through it to a single
// semaphore, shared across every Spawn call issued while handling one
// request. Construct one Group per top-level request/handler invocation.
type Group struct {
	sem chan struct{}
}

// NewGroup creates a fan-out group with the given concurrency cap. A cap of
// 0 uses DefaultMaxConcurrency.
func NewGroup(maxConcurrency int) *Group {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &Group{sem: make(chan struct{}, maxConcurrency)}
}

// Spawn starts f on a worker goroutine, gated by the group's concurrency
// cap, and returns a handle whose Get() blocks for completion. Every
// spawned f is expected to carry forward the same request-metadata envelope
// as the enclosing handler -- fanout does not enforce this, callers must
// close over the propagated metadata themselves.
func Spawn[T any](g *Group, f func() (T, error)) *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}
	go func() {
		g.sem <- struct{}{}
		defer func() { <-g.sem }()
		h.result, h.err = f()
		close(h.done)
	}()
	return h
}

// JoinAll waits for every handle in order and returns their results in the
// same order as the input slice (the ordering guarantee list expansions
// require), surfacing the first error encountered while
// scanning in that order. The calls themselves may have completed, or
// failed, in any order; only the reported error is order-stable.
func JoinAll[T any](handles []*Handle[T]) ([]T, error) {
	results := make([]T, len(handles))
	var firstErr error
	for i, h := range handles {
		v, err := h.Get()
		results[i] = v
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// Parallel runs n independent tasks (one per row of a driving result set,
// say) through a shared Group and joins them with JoinAll. It is the common
// case of Spawn+JoinAll for a uniform list expansion.
func Parallel[T any](g *Group, n int, f func(i int) (T, error)) ([]T, error) {
	handles := make([]*Handle[T], n)
	for i := 0; i < n; i++ {
		i := i
		handles[i] = Spawn(g, func() (T, error) { return f(i) })
	}
	return JoinAll(handles)
}

// Join2 is a convenience for the very common two-call fan-out (e.g.
// account.retrieve_standard_account + like.count_likes_of_post) that avoids
// allocating a slice of handles for a fixed pair of heterogeneous types.
func Join2[A, B any](g *Group, fa func() (A, error), fb func() (B, error)) (A, B, error) {
	ha := Spawn(g, fa)
	hb := Spawn(g, fb)
	a, errA := ha.Get()
	b, errB := hb.Get()
	if errA != nil {
		return a, b, errA
	}
	if errB != nil {
		return a, b, errB
	}
	return a, b, nil
}
