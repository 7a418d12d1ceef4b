// Package rpcclient implements the blocking synchronous RPC client stub
// used by every service to call its peers: one TCP connection, one
// in-flight request at a time, framed the same way rpcserver expects.
//
// A Client satisfies pool.Resource so it plugs directly into
// internal/pool.Pool as the RPC connection pool variant described for
// inter-service calls.
package rpcclient

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
)

// Client is a single connection to one RPC server, good for one in-flight
// call at a time. It is not safe for concurrent use by multiple goroutines;
// callers share it only through a pool.Pool, which hands out one Client per
// concurrent caller.
type Client struct {
	conn   net.Conn
	seqID  int32
	excReg *rpcproto.ExceptionRegistry
}

// Dial connects to endpoint with the given connect timeout. A zero timeout
// uses net.Dial's default (no deadline).
func Dial(endpoint string, connectTimeout time.Duration, excReg *rpcproto.ExceptionRegistry) (*Client, error) {
	conn, err := net.DialTimeout("tcp", endpoint, connectTimeout)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: dial %s: %w", endpoint, err)
	}
	return &Client{conn: conn, excReg: excReg}, nil
}

// Close implements pool.Resource.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call sends method with the given request struct, decodes the reply into
// replyPtr on success, and returns a DomainException (reconstructed via the
// client's exception registry) or a generic error otherwise.
//
// req may be nil for methods that take no arguments beyond the envelope
// the caller already embedded in its request struct -- BuzzBlog RPCs always
// encode request_metadata as a field of the request struct itself, not as a
// separate envelope, so Call has no special-cased metadata parameter.
func (c *Client) Call(method string, req any, replyPtr any) error {
	seq := atomic.AddInt32(&c.seqID, 1)

	w := rpcproto.NewWriter()
	w.WriteMessageHeader(rpcproto.MessageHeader{Method: method, Type: rpcproto.MessageCall, SeqID: seq})
	if err := rpcproto.Encode(w, req); err != nil {
		return fmt.Errorf("rpcclient: encoding request for %s: %w", method, err)
	}
	if err := rpcproto.WriteFrame(c.conn, w.Bytes()); err != nil {
		return fmt.Errorf("rpcclient: writing %s: %w", method, err)
	}

	payload, err := rpcproto.ReadFrame(c.conn)
	if err != nil {
		return fmt.Errorf("rpcclient: reading reply to %s: %w", method, err)
	}
	r := rpcproto.NewReader(payload)
	header, err := r.ReadMessageHeader()
	if err != nil {
		return fmt.Errorf("rpcclient: decoding reply header for %s: %w", method, err)
	}
	if header.SeqID != seq {
		return &rpcproto.ApplicationException{
			ErrorCode: rpcproto.ErrCodeBadSequenceID,
			Message:   fmt.Sprintf("rpcclient: expected seq %d, got %d", seq, header.SeqID),
		}
	}

	switch header.Type {
	case rpcproto.MessageReply:
		if replyPtr == nil {
			return nil
		}
		return rpcproto.Decode(r, replyPtr)
	case rpcproto.MessageException:
		var wire rpcproto.WireException
		if err := rpcproto.Decode(r, &wire); err != nil {
			return fmt.Errorf("rpcclient: decoding exception for %s: %w", method, err)
		}
		if wire.Name == rpcproto.ApplicationExceptionName {
			return &rpcproto.ApplicationException{ErrorCode: wire.ErrorCode, Message: wire.Message}
		}
		if exc := c.excReg.Build(wire); exc != nil {
			return exc
		}
		return &rpcproto.ApplicationException{ErrorCode: wire.ErrorCode, Message: wire.Message}
	default:
		return &rpcproto.ApplicationException{
			ErrorCode: rpcproto.ErrCodeProtocolError,
			Message:   fmt.Sprintf("rpcclient: unexpected message type %d for %s", header.Type, method),
		}
	}
}
