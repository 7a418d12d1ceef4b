package trending

import (
	"testing"
	"time"
)

func TestHashtagWindowServesNarrowerLimitFromWiderFetch(t *testing.T) {
	var w hashtagWindow
	w.put(5, []string{"a", "b", "c", "d", "e", "f"}, time.Minute)

	got, ok := w.get(2)
	if !ok {
		t.Fatal("expected window to answer a narrower limit")
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("expected [a b c], got %v", got)
	}
}

func TestHashtagWindowMissesOnWiderLimit(t *testing.T) {
	var w hashtagWindow
	w.put(2, []string{"a", "b", "c"}, time.Minute)

	if _, ok := w.get(5); ok {
		t.Fatal("expected a miss for a limit wider than the cached window")
	}
}

func TestHashtagWindowExpiresAfterTTL(t *testing.T) {
	var w hashtagWindow
	w.put(5, []string{"a", "b"}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := w.get(1); ok {
		t.Fatal("expected window to be expired")
	}
}

func TestHashtagWindowInvalidateForcesMiss(t *testing.T) {
	var w hashtagWindow
	w.put(5, []string{"a", "b"}, time.Minute)
	w.invalidate()

	if _, ok := w.get(1); ok {
		t.Fatal("expected window to miss after invalidate")
	}
}
