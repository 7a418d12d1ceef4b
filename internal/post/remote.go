package post

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

// accountPeer is the minimal local stub Post uses to reach the Account
// service for expanded views; see follow.accountSummary for why this
// cannot be a shared type.
type accountPeer struct {
	peer *rpcclient.Peer
}

type retrieveStandardAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type retrieveStandardAccountReply struct {
	Account accountSummary `rpc:"1,struct"`
}

func (a accountPeer) retrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (accountSummary, error) {
	var reply retrieveStandardAccountReply
	err := rpcclient.Call(a.peer, meta.ID, localFunction, "retrieve_standard_account",
		&retrieveStandardAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Account, err
}

// likePeer is the minimal local stub Post uses to reach the Like service
// for expanded views.
type likePeer struct {
	peer *rpcclient.Peer
}

type countLikesOfPostRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	PostID int32            `rpc:"2,i32"`
}

type countLikesOfPostReply struct {
	Count int32 `rpc:"1,i32"`
}

func (l likePeer) countLikesOfPost(meta reqmeta.Metadata, localFunction string, postID int32) (int32, error) {
	var reply countLikesOfPostReply
	err := rpcclient.Call(l.peer, meta.ID, localFunction, "count_likes_of_post",
		&countLikesOfPostRequest{Meta: meta, PostID: postID}, &reply)
	return reply.Count, err
}
