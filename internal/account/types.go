// Package account implements account registration, authentication, and
// profile retrieval. It is the busiest node in the service dependency
// graph: its expanded view fans out to Follow, Post, and Like, and it is
// itself called by Follow, Like, and Post for their own expanded views.
package account

import "github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"

// Account is a row of the Accounts table, widened with the fields only
// meaningful in standard/expanded view. FollowedByYou is always present
// (standard and expanded). The remaining fields are populated only by
// RetrieveExpandedAccount and ListAccounts.
type Account struct {
	ID            int32  `rpc:"1,i32"`
	CreatedAt     int64  `rpc:"2,i64"`
	Active        bool   `rpc:"3,bool"`
	Username      string `rpc:"4,string"`
	FirstName     string `rpc:"5,string"`
	LastName      string `rpc:"6,string"`
	FollowedByYou bool   `rpc:"7,bool"`
	FollowsYou    bool   `rpc:"8,bool"`
	NFollowers    int32  `rpc:"9,i32"`
	NFollowing    int32  `rpc:"10,i32"`
	NPosts        int32  `rpc:"11,i32"`
	NLikes        int32  `rpc:"12,i32"`
}

// Query filters ListAccounts. Username is optional; nil means "don't
// filter on this column".
type Query struct {
	Username *string `rpc:"1,string"`
}

type AuthenticateUserRequest struct {
	Meta     reqmeta.Metadata `rpc:"1,struct"`
	Username string           `rpc:"2,string"`
	Password string           `rpc:"3,string"`
}

type AuthenticateUserReply struct {
	Account Account `rpc:"1,struct"`
}

type CreateAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	Username  string           `rpc:"2,string"`
	Password  string           `rpc:"3,string"`
	FirstName string           `rpc:"4,string"`
	LastName  string           `rpc:"5,string"`
}

type CreateAccountReply struct {
	Account Account `rpc:"1,struct"`
}

type RetrieveStandardAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type RetrieveStandardAccountReply struct {
	Account Account `rpc:"1,struct"`
}

type RetrieveExpandedAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type RetrieveExpandedAccountReply struct {
	Account Account `rpc:"1,struct"`
}

type UpdateAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
	Password  string           `rpc:"3,string"`
	FirstName string           `rpc:"4,string"`
	LastName  string           `rpc:"5,string"`
}

type UpdateAccountReply struct {
	Account Account `rpc:"1,struct"`
}

type DeleteAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type DeleteAccountReply struct{}

type ListAccountsRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	Query  Query            `rpc:"2,struct"`
	Limit  int32            `rpc:"3,i32"`
	Offset int32            `rpc:"4,i32"`
}

type ListAccountsReply struct {
	Accounts []Account `rpc:"1,list:struct"`
}

// InvalidCredentialsException is raised by AuthenticateUser when the
// username does not exist or the password does not match.
type InvalidCredentialsException struct{ Message string }

func (e *InvalidCredentialsException) Error() string         { return e.Message }
func (e *InvalidCredentialsException) ExceptionName() string { return "AccountInvalidCredentialsException" }
func (e *InvalidCredentialsException) SetMessage(msg string)  { e.Message = msg }

// DeactivatedException is raised by AuthenticateUser when the account
// exists but has been deactivated; the active flag is checked before the
// password, so it is raised whatever password was given.
type DeactivatedException struct{ Message string }

func (e *DeactivatedException) Error() string         { return e.Message }
func (e *DeactivatedException) ExceptionName() string { return "AccountDeactivatedException" }
func (e *DeactivatedException) SetMessage(msg string)  { e.Message = msg }

// InvalidAttributesException is raised by CreateAccount/UpdateAccount when
// username, password, first name, or last name fail the length check.
type InvalidAttributesException struct{ Message string }

func (e *InvalidAttributesException) Error() string         { return e.Message }
func (e *InvalidAttributesException) ExceptionName() string { return "AccountInvalidAttributesException" }
func (e *InvalidAttributesException) SetMessage(msg string)  { e.Message = msg }

// UsernameAlreadyExistsException is raised by CreateAccount on a username
// unique-key violation.
type UsernameAlreadyExistsException struct{ Message string }

func (e *UsernameAlreadyExistsException) Error() string { return e.Message }
func (e *UsernameAlreadyExistsException) ExceptionName() string {
	return "AccountUsernameAlreadyExistsException"
}
func (e *UsernameAlreadyExistsException) SetMessage(msg string) { e.Message = msg }

// NotFoundException is raised by RetrieveStandardAccount, UpdateAccount,
// and DeleteAccount when the account id does not exist.
type NotFoundException struct{ Message string }

func (e *NotFoundException) Error() string         { return e.Message }
func (e *NotFoundException) ExceptionName() string { return "AccountNotFoundException" }
func (e *NotFoundException) SetMessage(msg string)  { e.Message = msg }

// NotAuthorizedException is raised by UpdateAccount/DeleteAccount when the
// requester is not the account owner.
type NotAuthorizedException struct{ Message string }

func (e *NotAuthorizedException) Error() string         { return e.Message }
func (e *NotAuthorizedException) ExceptionName() string { return "AccountNotAuthorizedException" }
func (e *NotAuthorizedException) SetMessage(msg string)  { e.Message = msg }
