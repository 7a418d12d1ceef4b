// Package rpcproto implements the binary framed wire protocol shared by
// every BuzzBlog service. It plays the role that an Apache Thrift binary
// protocol + framed transport would play: fixed-width primitives,
// field-id tagged structs, and a
// (method name, message type, sequence id) header on every call.
//
// The protocol intentionally favors field-id based compatibility over
// field-name matching (see the `rpc:"<id>,<kind>"` struct tags and
// Decode's skipping of unknown field ids), because clients and servers are
// versioned independently.
package rpcproto

import "errors"

// FieldType identifies the wire representation of a struct field.
type FieldType byte

const (
	TypeStop   FieldType = 0
	TypeBool   FieldType = 1
	TypeI32    FieldType = 2
	TypeI64    FieldType = 3
	TypeString FieldType = 4
	TypeStruct FieldType = 5
	TypeList   FieldType = 6
)

// MessageType identifies the kind of RPC message framed on the wire.
type MessageType byte

const (
	MessageCall      MessageType = 1
	MessageReply     MessageType = 2
	MessageException MessageType = 3
)

// MaxFrameSize bounds the size of a single framed message. A handcrafted
// length prefix larger than this is rejected rather than trusted, since it
// would otherwise let a misbehaving peer force an unbounded allocation.
const MaxFrameSize = 64 << 20 // 64MiB

var (
	ErrFrameTooLarge  = errors.New("rpcproto: frame exceeds maximum size")
	ErrUnknownField   = errors.New("rpcproto: unexpected field type on wire")
	ErrTruncated      = errors.New("rpcproto: truncated message")
	ErrUnsupportedTag = errors.New("rpcproto: unsupported struct field tag")
)

// MessageHeader is written before every struct payload on the wire.
type MessageHeader struct {
	Method string
	Type   MessageType
	SeqID  int32
}
