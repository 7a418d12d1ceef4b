package follow

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

// accountPeer is the minimal local stub Follow uses to reach the Account
// service for expanded views. See the note on accountSummary for why this
// duplicates a slice of account's own wire contract instead of importing
// the account package.
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
