package account

import (
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
)

type Client struct {
	peer *rpcclient.Peer
}

func NewClient(peer *rpcclient.Peer) *Client { return &Client{peer: peer} }

func (c *Client) AuthenticateUser(meta reqmeta.Metadata, localFunction, username, password string) (Account, error) {
	var reply AuthenticateUserReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "authenticate_user",
		&AuthenticateUserRequest{Meta: meta, Username: username, Password: password}, &reply)
	return reply.Account, err
}

func (c *Client) CreateAccount(meta reqmeta.Metadata, localFunction, username, password, firstName, lastName string) (Account, error) {
	var reply CreateAccountReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "create_account",
		&CreateAccountRequest{Meta: meta, Username: username, Password: password, FirstName: firstName, LastName: lastName}, &reply)
	return reply.Account, err
}

func (c *Client) RetrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (Account, error) {
	var reply RetrieveStandardAccountReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_standard_account",
		&RetrieveStandardAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Account, err
}

func (c *Client) RetrieveExpandedAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (Account, error) {
	var reply RetrieveExpandedAccountReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "retrieve_expanded_account",
		&RetrieveExpandedAccountRequest{Meta: meta, AccountID: accountID}, &reply)
	return reply.Account, err
}

func (c *Client) UpdateAccount(meta reqmeta.Metadata, localFunction string, accountID int32, password, firstName, lastName string) (Account, error) {
	var reply UpdateAccountReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "update_account",
		&UpdateAccountRequest{Meta: meta, AccountID: accountID, Password: password, FirstName: firstName, LastName: lastName}, &reply)
	return reply.Account, err
}

func (c *Client) DeleteAccount(meta reqmeta.Metadata, localFunction string, accountID int32) error {
	return rpcclient.Call(c.peer, meta.ID, localFunction, "delete_account",
		&DeleteAccountRequest{Meta: meta, AccountID: accountID}, &DeleteAccountReply{})
}

func (c *Client) ListAccounts(meta reqmeta.Metadata, localFunction string, q Query, limit, offset int32) ([]Account, error) {
	var reply ListAccountsReply
	err := rpcclient.Call(c.peer, meta.ID, localFunction, "list_accounts",
		&ListAccountsRequest{Meta: meta, Query: q, Limit: limit, Offset: offset}, &reply)
	return reply.Accounts, err
}
