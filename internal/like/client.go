package like

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

type Client struct {
	peer *rpcclient.Peer
}

func NewClient(peer *rpcclient.Peer) *Client { return &Client{peer: peer} }

func (c *Client) LikePost(meta reqmeta.Metadata, localFunction string, postID int32) (Like, error) {
	var reply LikePostReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "like_post", &LikePostRequest{Meta: meta, PostID: postID}, &reply)
	return reply.Like, err
}

func (c *Client) RetrieveStandardLike(meta reqmeta.Metadata, localFunction string, likeID int32) (Like, error) {
	var reply RetrieveStandardLikeReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_standard_like", &RetrieveStandardLikeRequest{Meta: meta, LikeID: likeID}, &reply)
	return reply.Like, err
}

func (c *Client) RetrieveExpandedLike(meta reqmeta.Metadata, localFunction string, likeID int32) (Like, error) {
	var reply RetrieveExpandedLikeReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_expanded_like", &RetrieveExpandedLikeRequest{Meta: meta, LikeID: likeID}, &reply)
	return reply.Like, err
}

func (c *Client) DeleteLike(meta reqmeta.Metadata, localFunction string, likeID int32) error {
	return rpcclient.Call(c.peer, meta.ID, localFunction, "delete_like", &DeleteLikeRequest{Meta: meta, LikeID: likeID}, &DeleteLikeReply{})
}

func (c *Client) ListLikes(meta reqmeta.Metadata, localFunction string, q Query, limit, offset int32) ([]Like, error) {
	var reply ListLikesReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "list_likes", &ListLikesRequest{Meta: meta, Query: q, Limit: limit, Offset: offset}, &reply)
	return reply.Likes, err
}

func (c *Client) CountLikesByAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	var reply CountLikesByAccountReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "count_likes_by_account", &CountLikesByAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Count, err
}

func (c *Client) CountLikesOfPost(meta reqmeta.Metadata, localFunction string, postID int32) (int32, error) {
	var reply CountLikesOfPostReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "count_likes_of_post", &CountLikesOfPostRequest{Meta: meta, PostID: postID}, &reply)
	return reply.Count, err
}
