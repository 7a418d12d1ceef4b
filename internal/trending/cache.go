package trending

import (
	"sync"
	"time"
)

// hashtagWindow memoizes the single most recent ZRANGE read. It is not a
// general key-value cache: ZRANGE trending:hashtags 0 limit is monotonic in
// limit, so a window fetched for some limit L also answers any request for
// limit <= L by slicing, without a second Redis round trip. One slot is
// enough because callers overwhelmingly ask for the same page size in a
// tight loop (home-timeline refreshes), and widening the window on a larger
// request naturally subsumes the narrower one it replaces.
type hashtagWindow struct {
	mu       sync.Mutex
	hashtags []string
	limit    int32
	expiry   time.Time
}

// get returns a slice answering ZRANGE 0 limit if the current window covers
// it and has not expired.
func (w *hashtagWindow) get(limit int32) ([]string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.hashtags == nil || limit > w.limit || time.Now().After(w.expiry) {
		return nil, false
	}
	n := limit + 1
	if int32(len(w.hashtags)) < n {
		n = int32(len(w.hashtags))
	}
	return w.hashtags[:n], true
}

// put stores a freshly fetched window covering limit, valid for ttl.
func (w *hashtagWindow) put(limit int32, hashtags []string, ttl time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.hashtags = hashtags
	w.limit = limit
	w.expiry = time.Now().Add(ttl)
}

// invalidate drops the window, forcing the next fetch to hit Redis. Called
// after every successful ZINCRBY since a write can change which hashtags
// fall within a previously cached window.
func (w *hashtagWindow) invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hashtags = nil
}
