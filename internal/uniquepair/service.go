package uniquepair

import (
	"context"

	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/pool"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"go.uber.org/zap"
)

// ServiceName is the logical peer name used in backend.yml and in call
// logs.
const ServiceName = "uniquepair"

// Service implements every Uniquepair RPC against a database pool. It has
// no peer dependencies, matching its position as the leaf of the service
// dependency graph.
type Service struct {
	db         *pool.DBPool
	store      *Store
	queryLog   *zap.Logger
}

func NewService(db *pool.DBPool, queryLog *zap.Logger) *Service {
	return &Service{db: db, store: NewStore(), queryLog: queryLog}
}

// NewExceptionRegistry builds the registry a client-side stub uses to
// reconstruct Uniquepair's declared exceptions from the wire.
func NewExceptionRegistry() *rpcproto.ExceptionRegistry {
	reg := rpcproto.NewExceptionRegistry()
	reg.Register("UniquepairAlreadyExistsException", func() rpcproto.DomainException { return &AlreadyExistsException{} })
	reg.Register("UniquepairNotFoundException", func() rpcproto.DomainException { return &NotFoundException{} })
	return reg
}

// Register binds every Uniquepair method to srv.
func (s *Service) Register(srv *rpcserver.Server) {
	srv.Register("get", s.handleGet)
	srv.Register("add", s.handleAdd)
	srv.Register("remove", s.handleRemove)
	srv.Register("find", s.handleFind)
	srv.Register("fetch", s.handleFetch)
	srv.Register("count", s.handleCount)
}

func (s *Service) withConn(ctx context.Context, localFunction, requestID, queryType string, fn func(conn *pool.DBPool) error) error {
	return logging.WrapVoidCall(s.queryLog, logging.CallTags{
		LocalService:   ServiceName,
		LocalFunction:  localFunction,
		RemoteService:  "uniquepair",
		RemoteFunction: queryType,
		RequestID:      requestID,
	}, func() error { return fn(s.db) })
}

func (s *Service) handleGet(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req GetRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	conn, err := s.db.Acquire()
	if err != nil {
		return nil, nil, err
	}
	defer s.db.Release(conn)

	var reply GetReply
	err = s.withConn(ctx, "get", req.Meta.ID, "select", func(*pool.DBPool) error {
		p, err := s.store.Get(ctx, conn.Conn, req.ID)
		reply.Pair = p
		return err
	})
	return classify(reply, err)
}

func (s *Service) handleAdd(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req AddRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	conn, err := s.db.Acquire()
	if err != nil {
		return nil, nil, err
	}
	defer s.db.Release(conn)

	var reply AddReply
	err = s.withConn(ctx, "add", req.Meta.ID, "insert", func(*pool.DBPool) error {
		p, err := s.store.Add(ctx, conn.Conn, req.Domain, req.FirstElem, req.SecondElem)
		reply.Pair = p
		return err
	})
	return classify(reply, err)
}

func (s *Service) handleRemove(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RemoveRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	conn, err := s.db.Acquire()
	if err != nil {
		return nil, nil, err
	}
	defer s.db.Release(conn)

	err = s.withConn(ctx, "remove", req.Meta.ID, "delete", func(*pool.DBPool) error {
		return s.store.Remove(ctx, conn.Conn, req.ID)
	})
	return classify(RemoveReply{}, err)
}

func (s *Service) handleFind(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req FindRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	conn, err := s.db.Acquire()
	if err != nil {
		return nil, nil, err
	}
	defer s.db.Release(conn)

	var reply FindReply
	err = s.withConn(ctx, "find", req.Meta.ID, "select", func(*pool.DBPool) error {
		found, err := s.store.Find(ctx, conn.Conn, req.Domain, req.FirstElem, req.SecondElem)
		reply.Found = found
		return err
	})
	return classify(reply, err)
}

func (s *Service) handleFetch(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req FetchRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	conn, err := s.db.Acquire()
	if err != nil {
		return nil, nil, err
	}
	defer s.db.Release(conn)

	var reply FetchReply
	err = s.withConn(ctx, "fetch", req.Meta.ID, "select", func(*pool.DBPool) error {
		pairs, err := s.store.Fetch(ctx, conn.Conn, req.Query, req.Limit, req.Offset)
		reply.Pairs = pairs
		return err
	})
	return classify(reply, err)
}

func (s *Service) handleCount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	conn, err := s.db.Acquire()
	if err != nil {
		return nil, nil, err
	}
	defer s.db.Release(conn)

	var reply CountReply
	err = s.withConn(ctx, "count", req.Meta.ID, "select", func(*pool.DBPool) error {
		count, err := s.store.Count(ctx, conn.Conn, req.Query)
		reply.Count = count
		return err
	})
	return classify(reply, err)
}

// classify splits err into the (reply, exc, err) triple rpcserver.Server
// expects: a DomainException returned by the store travels as a typed
// T_EXCEPTION, anything else as a generic ApplicationException.
func classify[T any](reply T, err error) (any, rpcproto.DomainException, error) {
	if err == nil {
		return reply, nil, nil
	}
	if exc, ok := err.(rpcproto.DomainException); ok {
		return nil, exc, nil
	}
	return nil, nil, err
}
