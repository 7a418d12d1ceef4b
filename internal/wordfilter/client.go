package wordfilter

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

type Client struct {
	peer *rpcclient.Peer
}

func NewClient(peer *rpcclient.Peer) *Client { return &Client{peer: peer} }

func (c *Client) IsValidWord(meta reqmeta.Metadata, localFunction, word string) (bool, error) {
	var reply IsValidWordReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "is_valid_word", &IsValidWordRequest{Meta: meta, Word: word}, &reply)
	return reply.Valid, err
}
