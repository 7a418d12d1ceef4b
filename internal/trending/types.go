// Package trending implements the hashtag-trending service: it tokenizes
// post text for words prefixed with '#', checks each against Wordfilter,
// and accumulates valid hashtag occurrences in a Redis sorted set.
package trending

import "github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"

const ServiceName = "trending"

// RedisHashtagsKey is the one sorted-set key this service maintains.
const RedisHashtagsKey = "trending:hashtags"

type ProcessPostRequest struct {
	Meta reqmeta.Metadata `rpc:"1,struct"`
	Text string           `rpc:"2,string"`
}

type ProcessPostReply struct{}

type FetchTrendingHashtagsRequest struct {
	Meta  reqmeta.Metadata `rpc:"1,struct"`
	Limit int32            `rpc:"2,i32"`
}

type FetchTrendingHashtagsReply struct {
	Hashtags []string `rpc:"1,list:string"`
}
