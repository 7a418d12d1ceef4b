// Package wordfilter implements the smallest service in the backend: an
// in-memory list of invalid words seeded at startup, with no peer or
// storage dependencies, making it a leaf (alongside Uniquepair) in the
// service dependency graph.
package wordfilter

import "github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"

type IsValidWordRequest struct {
	Meta reqmeta.Metadata `rpc:"1,struct"`
	Word string           `rpc:"2,string"`
}

type IsValidWordReply struct {
	Valid bool `rpc:"1,bool"`
}
