package trending

import (
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gomodule/redigo/redis"
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"go.uber.org/zap"
)

// fakeWordfilter stands in for a real Wordfilter peer RPC in tests; it
// treats exactly the words in invalid as invalid, mirroring
// wordfilter.Service's own contract without a network round trip.
type fakeWordfilter struct {
	invalid map[string]bool
}

func (f *fakeWordfilter) isValidWord(word string) bool { return !f.invalid[word] }

// serviceUnderTest wires Service against a real miniredis instance and a fake
// wordfilter check, bypassing the RPC peer indirection so the test exercises
// the tokenization and Redis command logic directly.
type serviceUnderTest struct {
	*Service
	wf *fakeWordfilter
}

func newServiceUnderTest(t *testing.T, invalidWords ...string) (*serviceUnderTest, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	pool := NewRedisPool(mr.Addr(), 0)
	wf := &fakeWordfilter{invalid: map[string]bool{}}
	for _, w := range invalidWords {
		wf.invalid[w] = true
	}
	svc := &Service{redisPool: pool, redisLog: zap.NewNop()}
	return &serviceUnderTest{Service: svc, wf: wf}, func() {
		pool.Close()
		mr.Close()
	}
}

// processPostDirect mirrors Service.ProcessPost's tokenization but calls the
// fake wordfilter in-process, since Service.ProcessPost itself expects a
// *wordfilter.Client bound to a live peer connection.
func (s *serviceUnderTest) processPostDirect(meta reqmeta.Metadata, text string) error {
	for _, token := range strings.Fields(text) {
		if len(token) <= 1 || token[0] != '#' {
			continue
		}
		tag := token[1:]
		if !s.wf.isValidWord(tag) {
			continue
		}
		if err := s.zincrby(meta, tag); err != nil {
			return err
		}
	}
	return nil
}

func TestProcessPostIncrementsOnlyValidHashtags(t *testing.T) {
	svc, cleanup := newServiceUnderTest(t, "corinthians")
	defer cleanup()

	meta := reqmeta.New(reqmeta.UnauthenticatedRequester)
	if err := svc.processPostDirect(meta, "hello #rust and #corinthians"); err != nil {
		t.Fatalf("processPostDirect: %v", err)
	}

	conn := svc.redisPool.Get()
	defer conn.Close()

	hashtags, err := redis.Strings(conn.Do("ZRANGE", RedisHashtagsKey, 0, -1))
	if err != nil {
		t.Fatalf("ZRANGE: %v", err)
	}
	if len(hashtags) != 1 || hashtags[0] != "rust" {
		t.Fatalf("expected only [rust], got %v", hashtags)
	}
}

func TestFetchTrendingHashtagsReturnsAscendingByScore(t *testing.T) {
	svc, cleanup := newServiceUnderTest(t)
	defer cleanup()

	meta := reqmeta.New(reqmeta.UnauthenticatedRequester)
	for i := 0; i < 3; i++ {
		if err := svc.processPostDirect(meta, "#go"); err != nil {
			t.Fatalf("processPostDirect: %v", err)
		}
	}
	if err := svc.processPostDirect(meta, "#rust"); err != nil {
		t.Fatalf("processPostDirect: %v", err)
	}

	hashtags, err := svc.FetchTrendingHashtags(meta, 10)
	if err != nil {
		t.Fatalf("FetchTrendingHashtags: %v", err)
	}
	// ZRANGE is ascending by score: "rust" (score 1) sorts before "go" (score 3).
	if len(hashtags) != 2 || hashtags[0] != "rust" || hashtags[1] != "go" {
		t.Fatalf("expected ascending-score order [rust go], got %v", hashtags)
	}
}
