// Package like implements the like relationship between an account and a
// post. Like Follow, it has no database of its own: every like is a
// uniquepair row tagged with the "like" domain, first_elem the liking
// account's id and second_elem the liked post's id.
package like

import "github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"

// accountSummary mirrors the wire-relevant subset of account.Account's
// standard-view fields; see follow.accountSummary for why this is a local
// copy rather than an import of the account package.
type accountSummary struct {
	ID        int32  `rpc:"1,i32"`
	CreatedAt int64  `rpc:"2,i64"`
	Active    bool   `rpc:"3,bool"`
	Username  string `rpc:"4,string"`
	FirstName string `rpc:"5,string"`
	LastName  string `rpc:"6,string"`
}

// postSummary mirrors the wire-relevant subset of post.Post's expanded-view
// fields, for the same reason.
type postSummary struct {
	ID        int32  `rpc:"1,i32"`
	CreatedAt int64  `rpc:"2,i64"`
	Active    bool   `rpc:"3,bool"`
	AuthorID  int32  `rpc:"4,i32"`
	Text      string `rpc:"5,string"`
	NLikes    int32  `rpc:"6,i32"`
}

// Like is a row of the like relationship, widened with Account and Post in
// expanded view.
type Like struct {
	ID        int32           `rpc:"1,i32"`
	CreatedAt int64           `rpc:"2,i64"`
	AccountID int32           `rpc:"3,i32"`
	PostID    int32           `rpc:"4,i32"`
	Account   *accountSummary `rpc:"5,struct"`
	Post      *postSummary    `rpc:"6,struct"`
}

// Query filters ListLikes. Either field may be nil to skip that filter.
type Query struct {
	AccountID *int32 `rpc:"1,i32"`
	PostID    *int32 `rpc:"2,i32"`
}

type LikePostRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	PostID int32            `rpc:"2,i32"`
}

type LikePostReply struct {
	Like Like `rpc:"1,struct"`
}

type RetrieveStandardLikeRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	LikeID int32            `rpc:"2,i32"`
}

type RetrieveStandardLikeReply struct {
	Like Like `rpc:"1,struct"`
}

type RetrieveExpandedLikeRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	LikeID int32            `rpc:"2,i32"`
}

type RetrieveExpandedLikeReply struct {
	Like Like `rpc:"1,struct"`
}

type DeleteLikeRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	LikeID int32            `rpc:"2,i32"`
}

type DeleteLikeReply struct{}

type ListLikesRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	Query  Query            `rpc:"2,struct"`
	Limit  int32            `rpc:"3,i32"`
	Offset int32            `rpc:"4,i32"`
}

type ListLikesReply struct {
	Likes []Like `rpc:"1,list:struct"`
}

type CountLikesByAccountRequest struct {
	Meta      reqmeta.Metadata `rpc:"1,struct"`
	AccountID int32            `rpc:"2,i32"`
}

type CountLikesByAccountReply struct {
	Count int32 `rpc:"1,i32"`
}

type CountLikesOfPostRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	PostID int32            `rpc:"2,i32"`
}

type CountLikesOfPostReply struct {
	Count int32 `rpc:"1,i32"`
}

// AlreadyExistsException is raised by LikePost when the pair already
// exists.
type AlreadyExistsException struct{ Message string }

func (e *AlreadyExistsException) Error() string         { return e.Message }
func (e *AlreadyExistsException) ExceptionName() string { return "LikeAlreadyExistsException" }
func (e *AlreadyExistsException) SetMessage(msg string)  { e.Message = msg }

// NotFoundException is raised by RetrieveStandardLike/DeleteLike when the
// like id does not exist.
type NotFoundException struct{ Message string }

func (e *NotFoundException) Error() string         { return e.Message }
func (e *NotFoundException) ExceptionName() string { return "LikeNotFoundException" }
func (e *NotFoundException) SetMessage(msg string)  { e.Message = msg }

// NotAuthorizedException is raised by DeleteLike when the requester is not
// the liking account.
type NotAuthorizedException struct{ Message string }

func (e *NotAuthorizedException) Error() string         { return e.Message }
func (e *NotAuthorizedException) ExceptionName() string { return "LikeNotAuthorizedException" }
func (e *NotAuthorizedException) SetMessage(msg string)  { e.Message = msg }
