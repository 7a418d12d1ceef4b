package like

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

// accountPeer is the minimal local stub Like uses to reach the Account
// service; see follow.accountSummary for why this cannot be a shared type.
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

// postPeer is the minimal local stub Like uses to reach the Post service
// for expanded views.
type postPeer struct {
	peer *rpcclient.Peer
}

type retrieveExpandedPostRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	PostID int32            `rpc:"2,i32"`
}

type retrieveExpandedPostReply struct {
	Post postSummary `rpc:"1,struct"`
}

func (p postPeer) retrieveExpandedPost(meta reqmeta.Metadata, localFunction string, postID int32) (postSummary, error) {
	var reply retrieveExpandedPostReply
	err := rpcclient.Call(p.peer, meta.ID, localFunction, "retrieve_expanded_post",
		&retrieveExpandedPostRequest{Meta: meta, PostID: postID}, &reply)
	return reply.Post, err
}
