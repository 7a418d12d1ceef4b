package fanout

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestJoinAllPreservesInputOrder(t *testing.T) {
	g := NewGroup(4)
	handles := make([]*Handle[int], 10)
	for i := 0; i < 10; i++ {
		i := i
		handles[i] = Spawn(g, func() (int, error) { return i * i, nil })
	}
	results, err := JoinAll(handles)
	if err != nil {
		t.Fatalf("JoinAll: %v", err)
	}
	for i, v := range results {
		if v != i*i {
			t.Fatalf("index %d: expected %d, got %d", i, i*i, v)
		}
	}
}

func TestJoinAllSurfacesFirstError(t *testing.T) {
	g := NewGroup(4)
	errBoom := errors.New("boom")
	handles := []*Handle[int]{
		Spawn(g, func() (int, error) { return 1, nil }),
		Spawn(g, func() (int, error) { return 0, errBoom }),
		Spawn(g, func() (int, error) { return 3, nil }),
	}
	if _, err := JoinAll(handles); err != errBoom {
		t.Fatalf("expected errBoom, got %v", err)
	}
}

func TestGroupBoundsConcurrency(t *testing.T) {
	g := NewGroup(2)
	var current, max int32
	n := 20
	_, err := Parallel(g, n, func(i int) (struct{}, error) {
		c := atomic.AddInt32(&current, 1)
		for {
			m := atomic.LoadInt32(&max)
			if c <= m || atomic.CompareAndSwapInt32(&max, m, c) {
				break
			}
		}
		atomic.AddInt32(&current, -1)
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("Parallel: %v", err)
	}
	if max > 2 {
		t.Fatalf("concurrency exceeded cap of 2: observed %d", max)
	}
}

func TestJoin2ReturnsBothResults(t *testing.T) {
	a, b, err := Join2(NewGroup(0),
		func() (string, error) { return "left", nil },
		func() (int, error) { return 42, nil },
	)
	if err != nil {
		t.Fatalf("Join2: %v", err)
	}
	if a != "left" || b != 42 {
		t.Fatalf("unexpected results: %q, %d", a, b)
	}
}

func TestZeroConcurrencyUsesDefault(t *testing.T) {
	g := NewGroup(0)
	if cap(g.sem) != DefaultMaxConcurrency {
		t.Fatalf("expected default concurrency %d, got %d", DefaultMaxConcurrency, cap(g.sem))
	}
}
