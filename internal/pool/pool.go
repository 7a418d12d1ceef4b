// Package pool implements the bounded connection pool shared by every
// BuzzBlog service, in its two flavors: a pool of peer RPC client stubs and
// a pool of database sessions. Both share one algorithm (see Pool), which
// is ported field-for-field from BuzzBlog's MicroserviceConnectionPool /
// PostgresConnectionPool: pre-warm to min_size round-robin over a set of
// endpoints, serve from an idle queue, grow ephemerally past max_size when
// allowed, and otherwise queue on a condition variable.
package pool

import (
	"sync"
	"time"
)

// Resource is anything a Pool manages: an RPC client stub, a DB session.
type Resource interface {
	Close() error
}

// Dialer creates a new Resource connected to the given endpoint.
type Dialer[T Resource] func(endpoint string) (T, error)

// Observer receives pool telemetry. Implementations must not block; the
// pool invokes it while holding no lock, once per Acquire.
type Observer interface {
	ObserveAcquire(backlogDepth int, wait time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveAcquire(int, time.Duration) {}

// Options configures a Pool. MinSize connections are pre-warmed,
// round-robin over Endpoints, by Prewarm or lazily by the first Acquire
// calls; New itself dials nothing. MaxSize bounds the
// pool's owned connection count unless AllowEphemeral is set, in which case
// Acquire may create connections above MaxSize that are closed (not
// recycled) on Release. MaxSize == 0 disables pooling entirely: every
// Acquire dials a fresh, uniformly random endpoint and every Release closes
// it.
type Options struct {
	MinSize        int
	MaxSize        int
	AllowEphemeral bool
}

// Pool is a bounded pool of homogeneous resources reachable over a set of
// (host:port) endpoints. Zero value is not usable; construct with New.
type Pool[T Resource] struct {
	endpoints []string
	dial      Dialer[T]
	opts      Options
	observer  Observer

	mu          sync.Mutex
	cond        *sync.Cond
	idle        []T
	currentSize int
	backlog     int
	rng         *randSource
}

// New constructs a Pool over the given endpoint set. Endpoints must be
// non-empty; opts.MaxSize, if nonzero, must be >= opts.MinSize.
func New[T Resource](endpoints []string, dial Dialer[T], opts Options, observer Observer) *Pool[T] {
	if opts.MaxSize != 0 && opts.MaxSize < opts.MinSize {
		panic("pool: max_size must be >= min_size when max_size > 0")
	}
	if observer == nil {
		observer = noopObserver{}
	}
	p := &Pool[T]{
		endpoints: endpoints,
		dial:      dial,
		opts:      opts,
		observer:  observer,
		rng:       newRandSource(),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Prewarm creates the pool's MinSize connections up front, round-robin over
// the endpoint set, so the first MinSize Acquire calls never dial. It is
// optional: Acquire performs the same pre-warm lazily on demand.
func (p *Pool[T]) Prewarm() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.currentSize < p.opts.MinSize {
		conn, err := p.dialNextLocked()
		if err != nil {
			return err
		}
		p.idle = append(p.idle, conn)
	}
	return nil
}

func (p *Pool[T]) dialNextLocked() (T, error) {
	endpoint := p.endpoints[p.currentSize%len(p.endpoints)]
	conn, err := p.dial(endpoint)
	if err != nil {
		var zero T
		return zero, err
	}
	p.currentSize++
	return conn, nil
}

// Acquire implements a four-branch algorithm: pre-warm round-robin,
// idle reuse, ephemeral/bounded growth, or backlog wait.
func (p *Pool[T]) Acquire() (T, error) {
	start := time.Now()

	if p.opts.MaxSize == 0 {
		endpoint := p.endpoints[p.rng.Intn(len(p.endpoints))]
		conn, err := p.dial(endpoint)
		p.observer.ObserveAcquire(0, time.Since(start))
		return conn, err
	}

	p.mu.Lock()
	var (
		conn         T
		err          error
		backlogDepth int
	)
	switch {
	case p.currentSize < p.opts.MinSize:
		conn, err = p.dialNextLocked()
	case len(p.idle) > 0:
		conn, p.idle = p.idle[0], p.idle[1:]
	case p.currentSize < p.opts.MaxSize || p.opts.AllowEphemeral:
		conn, err = p.dialNextLocked()
	default:
		p.backlog++
		backlogDepth = p.backlog
		for len(p.idle) == 0 {
			p.cond.Wait()
		}
		p.backlog--
		conn, p.idle = p.idle[0], p.idle[1:]
	}
	p.mu.Unlock()

	p.observer.ObserveAcquire(backlogDepth, time.Since(start))
	return conn, err
}

// Release returns conn to the pool, or closes it if the pool is disabled,
// over max_size (ephemeral overflow), or holds more than min_size
// connections while more than one already sits idle.
func (p *Pool[T]) Release(conn T) error {
	if p.opts.MaxSize == 0 {
		return conn.Close()
	}

	p.mu.Lock()
	overflow := p.currentSize > p.opts.MaxSize ||
		(p.currentSize > p.opts.MinSize && len(p.idle) > 1)
	if overflow {
		p.currentSize--
		p.mu.Unlock()
		return conn.Close()
	}
	p.idle = append(p.idle, conn)
	p.mu.Unlock()
	p.cond.Signal()
	return nil
}

// CurrentSize reports the number of connections the pool currently
// considers owned (idle + in-use). Exposed for tests asserting pool
// conservation invariants.
func (p *Pool[T]) CurrentSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentSize
}

// IdleLen reports how many connections currently sit in the idle queue.
func (p *Pool[T]) IdleLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Backlog reports how many Acquire calls are currently blocked waiting for
// a connection to be released.
func (p *Pool[T]) Backlog() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlog
}

// Close closes every idle connection. In-flight (acquired but not yet
// released) connections are closed by their holder on Release.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	var errs error
	for _, conn := range idle {
		if err := conn.Close(); err != nil {
			errs = appendErr(errs, err)
		}
	}
	return errs
}
