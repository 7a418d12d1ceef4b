package trending

import (
	"context"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/wordfilter"
	"go.uber.org/zap"
)

// hashtagWindowTTL bounds how stale a served trending list can be absent a
// write. Every successful ZINCRBY invalidates the window outright, so this
// only matters when no posts are flowing.
const hashtagWindowTTL = 2 * time.Second

// Service processes post text for hashtags and serves the trending list.
// It depends on Wordfilter (to validate candidate tags) and on a Redis pool
// (to persist accumulated occurrence counts). A one-slot window cache sits
// in front of the ZRANGE read since the hashtag list is read far more often
// than it changes.
type Service struct {
	redisPool  *redis.Pool
	wordfilter *wordfilter.Client
	redisLog   *zap.Logger
	window     hashtagWindow
}

func NewService(redisPool *redis.Pool, wordfilterClient *wordfilter.Client, redisLog *zap.Logger) *Service {
	return &Service{redisPool: redisPool, wordfilter: wordfilterClient, redisLog: redisLog}
}

func (s *Service) Register(srv *rpcserver.Server) {
	srv.Register("process_post", s.handleProcessPost)
	srv.Register("fetch_trending_hashtags", s.handleFetchTrendingHashtags)
}

// ProcessPost tokenizes text on whitespace; for each token longer than one
// character starting with '#', it asks Wordfilter whether the tag (without
// the '#') is valid, and if so increments its score in the trending sorted
// set. Tokens are processed sequentially, matching the source's
// un-parallelized loop -- each Redis write must observe the prior one's
// effect on the same key, so there is nothing to gain by fanning out here.
func (s *Service) ProcessPost(ctx context.Context, meta reqmeta.Metadata, text string) error {
	for _, token := range strings.Fields(text) {
		if len(token) <= 1 || token[0] != '#' {
			continue
		}
		tag := token[1:]
		valid, err := s.wordfilter.IsValidWord(meta.Derive(meta.RequesterID), "process_post", tag)
		if err != nil {
			return err
		}
		if !valid {
			continue
		}
		if err := s.zincrby(meta, tag); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) zincrby(meta reqmeta.Metadata, tag string) error {
	err := logging.WrapVoidCall(s.redisLog, logging.CallTags{
		LocalService:   ServiceName,
		LocalFunction:  "process_post",
		RemoteService:  "trending",
		RemoteFunction: "zincrby",
		RequestID:      meta.ID,
	}, func() error {
		conn := s.redisPool.Get()
		defer conn.Close()
		_, err := conn.Do("ZINCRBY", RedisHashtagsKey, 1, tag)
		return err
	})
	if err == nil {
		s.window.invalidate()
	}
	return err
}

// FetchTrendingHashtags returns ZRANGE trending:hashtags 0 limit, ascending
// by score. This preserves the source's behavior even though a user asking
// for "trending" hashtags would normally expect the highest scores
// (ZREVRANGE); see the design notes for why this is intentionally kept.
func (s *Service) FetchTrendingHashtags(meta reqmeta.Metadata, limit int32) ([]string, error) {
	if hashtags, ok := s.window.get(limit); ok {
		return hashtags, nil
	}

	var hashtags []string
	err := logging.WrapVoidCall(s.redisLog, logging.CallTags{
		LocalService:   ServiceName,
		LocalFunction:  "fetch_trending_hashtags",
		RemoteService:  "trending",
		RemoteFunction: "zrange",
		RequestID:      meta.ID,
	}, func() error {
		conn := s.redisPool.Get()
		defer conn.Close()
		var err error
		hashtags, err = redis.Strings(conn.Do("ZRANGE", RedisHashtagsKey, 0, limit))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.window.put(limit, hashtags, hashtagWindowTTL)
	return hashtags, nil
}

func (s *Service) handleProcessPost(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req ProcessPostRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	if err := s.ProcessPost(ctx, req.Meta, req.Text); err != nil {
		return nil, nil, err
	}
	return &ProcessPostReply{}, nil, nil
}

func (s *Service) handleFetchTrendingHashtags(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req FetchTrendingHashtagsRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	hashtags, err := s.FetchTrendingHashtags(req.Meta, req.Limit)
	if err != nil {
		return nil, nil, err
	}
	return &FetchTrendingHashtagsReply{Hashtags: hashtags}, nil, nil
}
