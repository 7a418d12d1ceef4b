// Package follow implements the follower relationship between accounts. It
// is a thin RPC-delegating service with no database of its own: every
// follow relationship is stored as a uniquepair row tagged with the
// "follow" domain, first_elem the follower's account id and second_elem
// the followee's.
package follow

import "github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"

// accountSummary mirrors the wire-relevant subset of account.Account's
// standard-view fields. Go forbids the import cycle that would result from
// follow importing the account package (account itself calls back into
// follow for check_follow/count_followers/count_followees), so each side
// of a potentially cyclic pair keeps its own minimal local mirror of the
// other's reply shape instead of sharing a type -- unlike the source's
// single shared Thrift-generated TAccount, which Thrift's IDL lets every
// service import freely.
type accountSummary struct {
	ID        int32  `rpc:"1,i32"`
	CreatedAt int64  `rpc:"2,i64"`
	Active    bool   `rpc:"3,bool"`
	Username  string `rpc:"4,string"`
	FirstName string `rpc:"5,string"`
	LastName  string `rpc:"6,string"`
}

// Follow is a row of the follower relationship, widened with Follower and
// Followee in expanded view.
type Follow struct {
	ID         int32           `rpc:"1,i32"`
	CreatedAt  int64           `rpc:"2,i64"`
	FollowerID int32           `rpc:"3,i32"`
	FolloweeID int32           `rpc:"4,i32"`
	Follower   *accountSummary `rpc:"5,struct"`
	Followee   *accountSummary `rpc:"6,struct"`
}

// Query filters ListFollows. Either field may be nil to skip that filter.
type Query struct {
	FollowerID *int32 `rpc:"1,i32"`
	FolloweeID *int32 `rpc:"2,i32"`
}

type FollowAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type FollowAccountReply struct {
	Follow Follow `rpc:"1,struct"`
}

type RetrieveStandardFollowRequest struct {
	Meta     reqmeta.Metadata `rpc:"1,struct"`
	FollowID int32            `rpc:"2,i32"`
}

type RetrieveStandardFollowReply struct {
	Follow Follow `rpc:"1,struct"`
}

type RetrieveExpandedFollowRequest struct {
	Meta     reqmeta.Metadata `rpc:"1,struct"`
	FollowID int32            `rpc:"2,i32"`
}

type RetrieveExpandedFollowReply struct {
	Follow Follow `rpc:"1,struct"`
}

type DeleteFollowRequest struct {
	Meta     reqmeta.Metadata `rpc:"1,struct"`
	FollowID int32            `rpc:"2,i32"`
}

type DeleteFollowReply struct{}

type ListFollowsRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	Query  Query            `rpc:"2,struct"`
	Limit  int32            `rpc:"3,i32"`
	Offset int32            `rpc:"4,i32"`
}

type ListFollowsReply struct {
	Follows []Follow `rpc:"1,list:struct"`
}

type CheckFollowRequest struct {
	Meta       reqmeta.Metadata `rpc:"1,struct"`
	FollowerID int32            `rpc:"2,i32"`
	FolloweeID int32            `rpc:"3,i32"`
}

type CheckFollowReply struct {
	Found bool `rpc:"1,bool"`
}

type CountFollowersRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type CountFollowersReply struct {
	Count int32 `rpc:"1,i32"`
}

type CountFolloweesRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type CountFolloweesReply struct {
	Count int32 `rpc:"1,i32"`
}

// InvalidAttributesException is raised by FollowAccount when the requester
// attempts to follow themself.
type InvalidAttributesException struct{ Message string }

func (e *InvalidAttributesException) Error() string         { return e.Message }
func (e *InvalidAttributesException) ExceptionName() string { return "FollowInvalidAttributesException" }
func (e *InvalidAttributesException) SetMessage(msg string)  { e.Message = msg }

// AlreadyExistsException is raised by FollowAccount when the pair already
// exists.
type AlreadyExistsException struct{ Message string }

func (e *AlreadyExistsException) Error() string         { return e.Message }
func (e *AlreadyExistsException) ExceptionName() string { return "FollowAlreadyExistsException" }
func (e *AlreadyExistsException) SetMessage(msg string)  { e.Message = msg }

// NotFoundException is raised by RetrieveStandardFollow/DeleteFollow when
// the follow id does not exist.
type NotFoundException struct{ Message string }

func (e *NotFoundException) Error() string         { return e.Message }
func (e *NotFoundException) ExceptionName() string { return "FollowNotFoundException" }
func (e *NotFoundException) SetMessage(msg string)  { e.Message = msg }

// NotAuthorizedException is raised by DeleteFollow when the requester is
// not the follower.
type NotAuthorizedException struct{ Message string }

func (e *NotAuthorizedException) Error() string         { return e.Message }
func (e *NotAuthorizedException) ExceptionName() string { return "FollowNotAuthorizedException" }
func (e *NotAuthorizedException) SetMessage(msg string)  { e.Message = msg }
