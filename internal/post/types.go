// Package post implements post creation, retrieval, and deletion. Unlike
// Follow and Like, Post owns its own table; creating a post also triggers
// Trending's hashtag bookkeeping.
package post

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

// Post is a row of the Posts table, widened with NLikes and Author in
// expanded view.
type Post struct {
	ID        int32           `rpc:"1,i32"`
	CreatedAt int64           `rpc:"2,i64"`
	Active    bool            `rpc:"3,bool"`
	AuthorID  int32           `rpc:"4,i32"`
	Text      string          `rpc:"5,string"`
	NLikes    int32           `rpc:"6,i32"`
	Author    *accountSummary `rpc:"7,struct"`
}

// Query filters ListPosts. AuthorID may be nil to skip that filter.
type Query struct {
	AuthorID *int32 `rpc:"1,i32"`
}

type CreatePostRequest struct {
	Meta reqmeta.Metadata `rpc:"1,struct"`
	Text string           `rpc:"2,string"`
}

type CreatePostReply struct {
	Post Post `rpc:"1,struct"`
}

type RetrieveStandardPostRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	PostID int32            `rpc:"2,i32"`
}

type RetrieveStandardPostReply struct {
	Post Post `rpc:"1,struct"`
}

type RetrieveExpandedPostRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	PostID int32            `rpc:"2,i32"`
}

type RetrieveExpandedPostReply struct {
	Post Post `rpc:"1,struct"`
}

type DeletePostRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	PostID int32            `rpc:"2,i32"`
}

type DeletePostReply struct{}

type ListPostsRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	Query  Query            `rpc:"2,struct"`
	Limit  int32            `rpc:"3,i32"`
	Offset int32            `rpc:"4,i32"`
}

type ListPostsReply struct {
	Posts []Post `rpc:"1,list:struct"`
}

type CountPostsByAuthorRequest struct {
	Meta     reqmeta.Metadata `rpc:"1,struct"`
	AuthorID int32            `rpc:"2,i32"`
}

type CountPostsByAuthorReply struct {
	Count int32 `rpc:"1,i32"`
}

// InvalidAttributesException is raised by CreatePost when the text length
// is outside 1..200 characters.
type InvalidAttributesException struct{ Message string }

func (e *InvalidAttributesException) Error() string         { return e.Message }
func (e *InvalidAttributesException) ExceptionName() string { return "PostInvalidAttributesException" }
func (e *InvalidAttributesException) SetMessage(msg string)  { e.Message = msg }

// NotFoundException is raised by RetrieveStandardPost/DeletePost when the
// post id does not exist. Inactive posts are still found.
type NotFoundException struct{ Message string }

func (e *NotFoundException) Error() string         { return e.Message }
func (e *NotFoundException) ExceptionName() string { return "PostNotFoundException" }
func (e *NotFoundException) SetMessage(msg string)  { e.Message = msg }

// NotAuthorizedException is raised by DeletePost when the requester is not
// the post's author.
type NotAuthorizedException struct{ Message string }

func (e *NotAuthorizedException) Error() string         { return e.Message }
func (e *NotAuthorizedException) ExceptionName() string { return "PostNotAuthorizedException" }
func (e *NotAuthorizedException) SetMessage(msg string)  { e.Message = msg }
