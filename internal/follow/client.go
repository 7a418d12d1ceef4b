package follow

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

type Client struct {
	peer *rpcclient.Peer
}

func NewClient(peer *rpcclient.Peer) *Client { return &Client{peer: peer} }

func (c *Client) FollowAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (Follow, error) {
	var reply FollowAccountReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "follow_account", &FollowAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Follow, err
}

func (c *Client) RetrieveStandardFollow(meta reqmeta.Metadata, localFunction string, followID int32) (Follow, error) {
	var reply RetrieveStandardFollowReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_standard_follow", &RetrieveStandardFollowRequest{Meta: meta, FollowID: followID}, &reply)
	return reply.Follow, err
}

func (c *Client) RetrieveExpandedFollow(meta reqmeta.Metadata, localFunction string, followID int32) (Follow, error) {
	var reply RetrieveExpandedFollowReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_expanded_follow", &RetrieveExpandedFollowRequest{Meta: meta, FollowID: followID}, &reply)
	return reply.Follow, err
}

func (c *Client) DeleteFollow(meta reqmeta.Metadata, localFunction string, followID int32) error {
	return rpcclient.Call(c.peer, meta.ID, localFunction, "delete_follow", &DeleteFollowRequest{Meta: meta, FollowID: followID}, &DeleteFollowReply{})
}

func (c *Client) ListFollows(meta reqmeta.Metadata, localFunction string, q Query, limit, offset int32) ([]Follow, error) {
	var reply ListFollowsReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "list_follows", &ListFollowsRequest{Meta: meta, Query: q, Limit: limit, Offset: offset}, &reply)
	return reply.Follows, err
}

func (c *Client) CheckFollow(meta reqmeta.Metadata, localFunction string, followerID, followeeID int32) (bool, error) {
	var reply CheckFollowReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "check_follow", &CheckFollowRequest{Meta: meta, FollowerID: followerID, FolloweeID: followeeID}, &reply)
	return reply.Found, err
}

func (c *Client) CountFollowers(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	var reply CountFollowersReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "count_followers", &CountFollowersRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Count, err
}

func (c *Client) CountFollowees(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	var reply CountFolloweesReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "count_followees", &CountFolloweesRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Count, err
}
