// Package uniquepair implements the generic unique-pair relation that backs
// both Follow and Like: a domain-tagged table of (first_elem, second_elem)
// pairs, unique per domain. It has no peer dependencies of its own, which
// makes it the leaf of the service dependency graph.
package uniquepair

import "github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"

// Pair is a row of the Uniquepairs table.
type Pair struct {
	ID         int32  `rpc:"1,i32"`
	CreatedAt  int64  `rpc:"2,i64"`
	Domain     string `rpc:"3,string"`
	FirstElem  int32  `rpc:"4,i32"`
	SecondElem int32  `rpc:"5,i32"`
}

// Query filters Fetch/Count. Domain is always required; FirstElem and
// SecondElem are optional (nil means "don't filter on this column").
type Query struct {
	Domain     string `rpc:"1,string"`
	FirstElem  *int32 `rpc:"2,i32"`
	SecondElem *int32 `rpc:"3,i32"`
}

type GetRequest struct {
	Meta reqmeta.Metadata `rpc:"1,struct"`
	ID   int32            `rpc:"2,i32"`
}

type GetReply struct {
	Pair Pair `rpc:"1,struct"`
}

type AddRequest struct {
	Meta       reqmeta.Metadata `rpc:"1,struct"`
	Domain     string           `rpc:"2,string"`
	FirstElem  int32            `rpc:"3,i32"`
	SecondElem int32            `rpc:"4,i32"`
}

type AddReply struct {
	Pair Pair `rpc:"1,struct"`
}

type RemoveRequest struct {
	Meta reqmeta.Metadata `rpc:"1,struct"`
	ID   int32            `rpc:"2,i32"`
}

type RemoveReply struct{}

type FindRequest struct {
	Meta       reqmeta.Metadata `rpc:"1,struct"`
	Domain     string           `rpc:"2,string"`
	FirstElem  int32            `rpc:"3,i32"`
	SecondElem int32            `rpc:"4,i32"`
}

type FindReply struct {
	Found bool `rpc:"1,bool"`
}

type FetchRequest struct {
	Meta   reqmeta.Metadata `rpc:"1,struct"`
	Query  Query            `rpc:"2,struct"`
	Limit  int32            `rpc:"3,i32"`
	Offset int32            `rpc:"4,i32"`
}

type FetchReply struct {
	Pairs []Pair `rpc:"1,list:struct"`
}

type CountRequest struct {
	Meta  reqmeta.Metadata `rpc:"1,struct"`
	Query Query            `rpc:"2,struct"`
}

type CountReply struct {
	Count int32 `rpc:"1,i32"`
}

// AlreadyExistsException is raised by Add on a (domain, first, second)
// unique-key violation.
type AlreadyExistsException struct{ Message string }

func (e *AlreadyExistsException) Error() string         { return e.Message }
func (e *AlreadyExistsException) ExceptionName() string { return "UniquepairAlreadyExistsException" }
func (e *AlreadyExistsException) SetMessage(msg string) { e.Message = msg }

// NotFoundException is raised by Get and Remove when the row does not
// exist.
type NotFoundException struct{ Message string }

func (e *NotFoundException) Error() string         { return e.Message }
func (e *NotFoundException) ExceptionName() string { return "UniquepairNotFoundException" }
func (e *NotFoundException) SetMessage(msg string) { e.Message = msg }
