package post

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

type Client struct {
	peer *rpcclient.Peer
}

func NewClient(peer *rpcclient.Peer) *Client { return &Client{peer: peer} }

func (c *Client) CreatePost(meta reqmeta.Metadata, localFunction, text string) (Post, error) {
	var reply CreatePostReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "create_post", &CreatePostRequest{Meta: meta, Text: text}, &reply)
	return reply.Post, err
}

func (c *Client) RetrieveStandardPost(meta reqmeta.Metadata, localFunction string, postID int32) (Post, error) {
	var reply RetrieveStandardPostReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_standard_post", &RetrieveStandardPostRequest{Meta: meta, PostID: postID}, &reply)
	return reply.Post, err
}

func (c *Client) RetrieveExpandedPost(meta reqmeta.Metadata, localFunction string, postID int32) (Post, error) {
	var reply RetrieveExpandedPostReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_expanded_post", &RetrieveExpandedPostRequest{Meta: meta, PostID: postID}, &reply)
	return reply.Post, err
}

func (c *Client) DeletePost(meta reqmeta.Metadata, localFunction string, postID int32) error {
	return rpcclient.Call(c.peer, meta.ID, localFunction, "delete_post", &DeletePostRequest{Meta: meta, PostID: postID}, &DeletePostReply{})
}

func (c *Client) ListPosts(meta reqmeta.Metadata, localFunction string, q Query, limit, offset int32) ([]Post, error) {
	var reply ListPostsReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "list_posts", &ListPostsRequest{Meta: meta, Query: q, Limit: limit, Offset: offset}, &reply)
	return reply.Posts, err
}

func (c *Client) CountPostsByAuthor(meta reqmeta.Metadata, localFunction string, authorID int32) (int32, error) {
	var reply CountPostsByAuthorReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "count_posts_by_author", &CountPostsByAuthorRequest{Meta: meta, AuthorID: authorID}, &reply)
	return reply.Count, err
}
