package uniquepair

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

// Client is the typed stub Follow and Like hold to call the Uniquepair
// service through a pooled peer connection.
type Client struct {
	peer *rpcclient.Peer
}

func NewClient(peer *rpcclient.Peer) *Client { return &Client{peer: peer} }

func (c *Client) Get(meta reqmeta.Metadata, localFunction string, id int32) (Pair, error) {
	var reply GetReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "get", &GetRequest{Meta: meta, ID: id}, &reply)
	return reply.Pair, err
}

func (c *Client) Add(meta reqmeta.Metadata, localFunction, domain string, firstElem, secondElem int32) (Pair, error) {
	var reply AddReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "add", &AddRequest{
		Meta: meta, Domain: domain, FirstElem: firstElem, SecondElem: secondElem,
	}, &reply)
	return reply.Pair, err
}

func (c *Client) Remove(meta reqmeta.Metadata, localFunction string, id int32) error {
	return rpcclient.Call(c.peer, meta.ID, localFunction, "remove", &RemoveRequest{Meta: meta, ID: id}, &RemoveReply{})
}

func (c *Client) Find(meta reqmeta.Metadata, localFunction, domain string, firstElem, secondElem int32) (bool, error) {
	var reply FindReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "find", &FindRequest{
		Meta: meta, Domain: domain, FirstElem: firstElem, SecondElem: secondElem,
	}, &reply)
	return reply.Found, err
}

func (c *Client) Fetch(meta reqmeta.Metadata, localFunction string, q Query, limit, offset int32) ([]Pair, error) {
	var reply FetchReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "fetch", &FetchRequest{
		Meta: meta, Query: q, Limit: limit, Offset: offset,
	}, &reply)
	return reply.Pairs, err
}

func (c *Client) Count(meta reqmeta.Metadata, localFunction string, q Query) (int32, error) {
	var reply CountReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "count", &CountRequest{Meta: meta, Query: q}, &reply)
	return reply.Count, err
}
