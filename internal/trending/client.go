package trending

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

type Client struct {
	peer *rpcclient.Peer
}

func NewClient(peer *rpcclient.Peer) *Client { return &Client{peer: peer} }

func (c *Client) ProcessPost(meta reqmeta.Metadata, localFunction, text string) error {
	return rpcclient.Call(c.peer, meta.ID, localFunction, "process_post", &ProcessPostRequest{Meta: meta, Text: text}, &ProcessPostReply{})
}

func (c *Client) FetchTrendingHashtags(meta reqmeta.Metadata, localFunction string, limit int32) ([]string, error) {
	var reply FetchTrendingHashtagsReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "fetch_trending_hashtags", &FetchTrendingHashtagsRequest{Meta: meta, Limit: limit}, &reply)
	return reply.Hashtags, err
}
