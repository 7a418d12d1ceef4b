// Package rpcserver implements the threaded RPC server every BuzzBlog
// service runs: one accept loop, one goroutine per accepted connection,
// sequential request/response framing on each connection (no multiplexing
// within a connection), and a declared-exception-aware dispatch table.
//
// This plays the role TThreadedServer plays in a Thrift-based server,
// built directly on net.Listener, accepting and serving connections in
// the background.
package rpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"go.uber.org/zap"
)

// MethodHandler decodes its own request struct from r, executes the
// handler, and returns either a reply struct to encode as a T_REPLY, or a
// declared domain exception to encode as a T_EXCEPTION, or a generic error
// that the server surfaces as an ApplicationException.
type MethodHandler func(ctx context.Context, r *rpcproto.Reader) (reply any, exc rpcproto.DomainException, err error)

// Options configures a Server.
type Options struct {
	Host string
	Port int

	// ConcurrentClientLimit caps the number of simultaneously served
	// connections. 0 means unlimited, matching --threads=0.
	ConcurrentClientLimit int

	// AcceptBacklog is carried for configuration parity but is not applied:
	// Serve always listens with the OS default backlog, whatever its value.
	AcceptBacklog int

	Logger *zap.Logger
}

// Server dispatches framed RPCs to registered MethodHandlers.
type Server struct {
	opts     Options
	logger   *zap.Logger
	handlers map[string]MethodHandler

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
	sem      chan struct{}
}

// New constructs a Server. Call Register for each RPC method before Serve.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		opts:     opts,
		logger:   logger,
		handlers: map[string]MethodHandler{},
	}
	if opts.ConcurrentClientLimit > 0 {
		s.sem = make(chan struct{}, opts.ConcurrentClientLimit)
	}
	return s
}

// Register binds method to h. Registering the same method twice panics,
// since that is always a programming error in a service's wiring.
func (s *Server) Register(method string, h MethodHandler) {
	if _, exists := s.handlers[method]; exists {
		panic(fmt.Sprintf("rpcserver: method %q already registered", method))
	}
	s.handlers[method] = h
}

// Serve accepts connections until ctx is cancelled, blocking until every
// in-flight connection has finished.
//
// accept_backlog is accepted as a configuration knob for parity with the
// original server's TServerSocket::setAcceptBacklog, but net.Listen does
// not expose a portable way to set the kernel backlog, so Options.AcceptBacklog
// is never read: every listener gets the OS default backlog, and no error is
// returned for any requested value.
func (s *Server) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port))
	if err != nil {
		return fmt.Errorf("rpcserver: listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Warn("accept error", zap.Error(err))
			continue
		}
		s.wg.Add(1)
		go s.serveConn(ctx, conn)
	}

	s.wg.Wait()
	return nil
}

// Addr returns the listener's bound address. Only valid after Serve has
// started listening; used by tests that bind an ephemeral port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	if s.sem != nil {
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
	}

	for {
		payload, err := rpcproto.ReadFrame(conn)
		if err != nil {
			return // client closed the connection, or sent a malformed frame
		}
		respPayload, err := s.dispatch(ctx, payload)
		if err != nil {
			s.logger.Warn("dispatch error", zap.Error(err))
			return
		}
		if err := rpcproto.WriteFrame(conn, respPayload); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, payload []byte) ([]byte, error) {
	r := rpcproto.NewReader(payload)
	header, err := r.ReadMessageHeader()
	if err != nil {
		return nil, err
	}

	handler, ok := s.handlers[header.Method]
	if !ok {
		return encodeException(header.SeqID, header.Method, rpcproto.WireException{
			Name:      rpcproto.ApplicationExceptionName,
			ErrorCode: rpcproto.ErrCodeUnknownMethod,
			Message:   fmt.Sprintf("unknown method %q", header.Method),
		}), nil
	}

	reply, exc, err := s.safeInvoke(handler, ctx, r)
	switch {
	case exc != nil:
		return encodeException(header.SeqID, header.Method, rpcproto.WireException{
			Name:    exc.ExceptionName(),
			Message: exc.Error(),
		}), nil
	case err != nil:
		return encodeException(header.SeqID, header.Method, rpcproto.WireException{
			Name:      rpcproto.ApplicationExceptionName,
			ErrorCode: rpcproto.ErrCodeInternalError,
			Message:   err.Error(),
		}), nil
	default:
		w := rpcproto.NewWriter()
		w.WriteMessageHeader(rpcproto.MessageHeader{Method: header.Method, Type: rpcproto.MessageReply, SeqID: header.SeqID})
		if err := rpcproto.Encode(w, reply); err != nil {
			return nil, err
		}
		return w.Bytes(), nil
	}
}

// safeInvoke recovers from a handler panic and surfaces it as a generic
// ApplicationException rather than crashing the connection's goroutine --
// any unhandled runtime failure from a handler must reach the caller as an
// ApplicationException, panics included.
func (s *Server) safeInvoke(h MethodHandler, ctx context.Context, r *rpcproto.Reader) (reply any, exc rpcproto.DomainException, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(ctx, r)
}

func encodeException(seqID int32, method string, wire rpcproto.WireException) []byte {
	w := rpcproto.NewWriter()
	w.WriteMessageHeader(rpcproto.MessageHeader{Method: method, Type: rpcproto.MessageException, SeqID: seqID})
	_ = rpcproto.Encode(w, &wire)
	return w.Bytes()
}
