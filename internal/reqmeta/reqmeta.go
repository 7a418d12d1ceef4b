// Package reqmeta defines the request-metadata envelope that accompanies
// every RPC in the BuzzBlog backend, and the correlation id that is
// propagated verbatim across nested service calls.
package reqmeta

import "github.com/rs/xid"

// UnauthenticatedRequester is the sentinel requester id used when a call
// arrives without an authenticated caller.
const UnauthenticatedRequester int32 = -1

// Metadata is attached to every RPC. ID is an opaque string, unique per
// top-level user request, and must be copied verbatim onto every RPC
// spawned while handling that request. RequesterID is the account id of
// the authenticated caller, or UnauthenticatedRequester.
type Metadata struct {
	ID          string `rpc:"1,string"`
	RequesterID int32  `rpc:"2,i32"`
}

// New creates request metadata for a fresh top-level request.
func New(requesterID int32) Metadata {
	return Metadata{ID: xid.New().String(), RequesterID: requesterID}
}

// Derive returns metadata for a nested RPC spawned while handling m. The id
// is propagated unchanged; callers pass the requester id presented to the
// downstream service. Every fan-out call site passes m.RequesterID, so
// nested calls carry the enclosing request's requester unchanged.
func (m Metadata) Derive(requesterID int32) Metadata {
	return Metadata{ID: m.ID, RequesterID: requesterID}
}
