package account

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

// followPeer is the minimal local stub Account uses to reach Follow for
// check_follow/count_followers/count_followees; see follow.accountSummary
// for why this cannot be a shared type.
type followPeer struct {
	peer *rpcclient.Peer
}

type checkFollowRequest struct {
	Meta       reqmeta.Metadata `rpc:"1,struct"`
	FollowerID int32            `rpc:"2,i32"`
	FolloweeID int32            `rpc:"3,i32"`
}

type checkFollowReply struct {
	Found bool `rpc:"1,bool"`
}

func (f followPeer) checkFollow(meta reqmeta.Metadata, localFunction string, followerID, followeeID int32) (bool, error) {
	var reply checkFollowReply
	err := rpcclient.Call(f.peer, meta.ID, localFunction, "check_follow",
		&checkFollowRequest{Meta: meta, FollowerID: followerID, FolloweeID: followeeID}, &reply)
	return reply.Found, err
}

type countByAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type countByAccountReply struct {
	Count int32 `rpc:"1,i32"`
}

func (f followPeer) countFollowers(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	var reply countByAccountReply
	err := rpcclient.Call(f.peer, meta.ID, localFunction, "count_followers",
		&countByAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Count, err
}

func (f followPeer) countFollowees(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	var reply countByAccountReply
	err := rpcclient.Call(f.peer, meta.ID, localFunction, "count_followees",
		&countByAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Count, err
}

// postPeer is the minimal local stub Account uses to reach Post for
// count_posts_by_author.
type postPeer struct {
	peer *rpcclient.Peer
}

type countPostsByAuthorRequest struct {
	Meta     reqmeta.Metadata `rpc:"1,struct"`
	AuthorID int32            `rpc:"2,i32"`
}

type countPostsByAuthorReply struct {
	Count int32 `rpc:"1,i32"`
}

func (p postPeer) countPostsByAuthor(meta reqmeta.Metadata, localFunction string, authorID int32) (int32, error) {
	var reply countPostsByAuthorReply
	err := rpcclient.Call(p.peer, meta.ID, localFunction, "count_posts_by_author",
		&countPostsByAuthorRequest{Meta: meta, AuthorID: authorID}, &reply)
	return reply.Count, err
}

// likePeer is the minimal local stub Account uses to reach Like for
// count_likes_by_account.
type likePeer struct {
	peer *rpcclient.Peer
}

type countLikesByAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type countLikesByAccountReply struct {
	Count int32 `rpc:"1,i32"`
}

func (l likePeer) countLikesByAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	var reply countLikesByAccountReply
	err := rpcclient.Call(l.peer, meta.ID, localFunction, "count_likes_by_account",
		&countLikesByAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Count, err
}
