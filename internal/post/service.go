package post

import (
	"context"
	"database/sql"

	"github.com/rodrigoalveslima/BuzzBlog/internal/fanout"
	"github.com/rodrigoalveslima/BuzzBlog/internal/logging"
	"github.com/rodrigoalveslima/BuzzBlog/internal/pool"
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/trending"
	"go.uber.org/zap"
)

const ServiceName = "post"

type accountRetriever interface {
	retrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (accountSummary, error)
}

type likeCounter interface {
	countLikesOfPost(meta reqmeta.Metadata, localFunction string, postID int32) (int32, error)
}

type trendingProcessor interface {
	ProcessPost(meta reqmeta.Metadata, localFunction, text string) error
}

type store interface {
	Create(ctx context.Context, conn *sql.Conn, authorID int32, text string) (Post, error)
	RetrieveStandard(ctx context.Context, conn *sql.Conn, postID int32) (Post, error)
	Deactivate(ctx context.Context, conn *sql.Conn, postID int32) error
	List(ctx context.Context, conn *sql.Conn, q Query, limit, offset int32) ([]Post, error)
	CountByAuthor(ctx context.Context, conn *sql.Conn, authorID int32) (int32, error)
}

// dbSession checks a *sql.Conn out of the pool for the lifetime of fn and
// releases it afterwards, regardless of outcome. Tests substitute a fake
// that hands fn a nil conn, since pool.sqlConn is unexported and cannot be
// constructed outside the pool package.
type dbSession interface {
	withConn(ctx context.Context, fn func(conn *sql.Conn) error) error
}

type poolSession struct {
	db *pool.DBPool
}

func (p poolSession) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := p.db.Acquire()
	if err != nil {
		return err
	}
	defer p.db.Release(conn)
	return fn(conn.Conn)
}

// Service implements every Post RPC against a database pool, fanning out
// to Account (authorship), Like (like counts), and Trending (hashtag
// bookkeeping on creation).
type Service struct {
	db       dbSession
	store    store
	account  accountRetriever
	like     likeCounter
	trending trendingProcessor
	queryLog *zap.Logger
}

func NewService(db *pool.DBPool, accountPeer_, likePeer_ *rpcclient.Peer, trendingClient *trending.Client, queryLog *zap.Logger) *Service {
	return &Service{
		db:       poolSession{db: db},
		store:    NewStore(),
		account:  accountPeer{peer: accountPeer_},
		like:     likePeer{peer: likePeer_},
		trending: trendingClient,
		queryLog: queryLog,
	}
}

func NewExceptionRegistry() *rpcproto.ExceptionRegistry {
	reg := rpcproto.NewExceptionRegistry()
	reg.Register("PostInvalidAttributesException", func() rpcproto.DomainException { return &InvalidAttributesException{} })
	reg.Register("PostNotFoundException", func() rpcproto.DomainException { return &NotFoundException{} })
	reg.Register("PostNotAuthorizedException", func() rpcproto.DomainException { return &NotAuthorizedException{} })
	return reg
}

func (s *Service) Register(srv *rpcserver.Server) {
	srv.Register("create_post", s.handleCreatePost)
	srv.Register("retrieve_standard_post", s.handleRetrieveStandardPost)
	srv.Register("retrieve_expanded_post", s.handleRetrieveExpandedPost)
	srv.Register("delete_post", s.handleDeletePost)
	srv.Register("list_posts", s.handleListPosts)
	srv.Register("count_posts_by_author", s.handleCountPostsByAuthor)
}

func (s *Service) withConn(ctx context.Context, localFunction, requestID, queryType string, fn func() error) error {
	return logging.WrapVoidCall(s.queryLog, logging.CallTags{
		LocalService:   ServiceName,
		LocalFunction:  localFunction,
		RemoteService:  "post",
		RemoteFunction: queryType,
		RequestID:      requestID,
	}, fn)
}

func validateText(text string) error {
	if len(text) < 1 || len(text) > 200 {
		return &InvalidAttributesException{Message: "text must be between 1 and 200 characters"}
	}
	return nil
}

// CreatePost validates the post text, then issues the SQL insert and the
// Trending hashtag update concurrently and joins both -- the one place
// where the source explicitly overlaps an RPC with a database write.
func (s *Service) CreatePost(ctx context.Context, meta reqmeta.Metadata, text string) (Post, error) {
	if err := validateText(text); err != nil {
		return Post{}, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	insertHandle := fanout.Spawn(g, func() (Post, error) {
		var p Post
		err := s.db.withConn(ctx, func(conn *sql.Conn) error {
			return s.withConn(ctx, "create_post", meta.ID, "insert", func() error {
				var err error
				p, err = s.store.Create(ctx, conn, meta.RequesterID, text)
				return err
			})
		})
		return p, err
	})
	trendingHandle := fanout.Spawn(g, func() (struct{}, error) {
		return struct{}{}, s.trending.ProcessPost(meta.Derive(meta.RequesterID), "create_post", text)
	})

	p, insertErr := insertHandle.Get()
	_, trendingErr := trendingHandle.Get()
	if insertErr != nil {
		return Post{}, insertErr
	}
	if trendingErr != nil {
		return Post{}, trendingErr
	}
	return p, nil
}

func (s *Service) RetrieveStandardPost(ctx context.Context, meta reqmeta.Metadata, postID int32) (Post, error) {
	var p Post
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withConn(ctx, "retrieve_standard_post", meta.ID, "select", func() error {
			var err error
			p, err = s.store.RetrieveStandard(ctx, conn, postID)
			return err
		})
	})
	return p, err
}

func (s *Service) RetrieveExpandedPost(ctx context.Context, meta reqmeta.Metadata, postID int32) (Post, error) {
	p, err := s.RetrieveStandardPost(ctx, meta, postID)
	if err != nil {
		return Post{}, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	author, nLikes, err := fanout.Join2(g,
		func() (accountSummary, error) {
			return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "retrieve_expanded_post", p.AuthorID)
		},
		func() (int32, error) {
			return s.like.countLikesOfPost(meta.Derive(meta.RequesterID), "retrieve_expanded_post", p.ID)
		},
	)
	if err != nil {
		return Post{}, err
	}
	p.Author = &author
	p.NLikes = nLikes
	return p, nil
}

func (s *Service) DeletePost(ctx context.Context, meta reqmeta.Metadata, postID int32) error {
	p, err := s.RetrieveStandardPost(ctx, meta, postID)
	if err != nil {
		return err
	}
	if meta.RequesterID != p.AuthorID {
		return &NotAuthorizedException{Message: "requester is not the post's author"}
	}

	return s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withConn(ctx, "delete_post", meta.ID, "update", func() error {
			return s.store.Deactivate(ctx, conn, postID)
		})
	})
}

func (s *Service) ListPosts(ctx context.Context, meta reqmeta.Metadata, q Query, limit, offset int32) ([]Post, error) {
	var posts []Post
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withConn(ctx, "list_posts", meta.ID, "select", func() error {
			var err error
			posts, err = s.store.List(ctx, conn, q, limit, offset)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	authors, err := fanout.Parallel(g, len(posts), func(i int) (accountSummary, error) {
		return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "list_posts", posts[i].AuthorID)
	})
	if err != nil {
		return nil, err
	}
	counts, err := fanout.Parallel(g, len(posts), func(i int) (int32, error) {
		return s.like.countLikesOfPost(meta.Derive(meta.RequesterID), "list_posts", posts[i].ID)
	})
	if err != nil {
		return nil, err
	}
	for i := range posts {
		author := authors[i]
		posts[i].Author = &author
		posts[i].NLikes = counts[i]
	}
	return posts, nil
}

// CountPostsByAuthor counts every post by authorID, active or not. This
// preserves the source's behavior of never filtering out deactivated
// posts from the count.
func (s *Service) CountPostsByAuthor(ctx context.Context, meta reqmeta.Metadata, authorID int32) (int32, error) {
	var count int32
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withConn(ctx, "count_posts_by_author", meta.ID, "select", func() error {
			var err error
			count, err = s.store.CountByAuthor(ctx, conn, authorID)
			return err
		})
	})
	return count, err
}

func (s *Service) handleCreatePost(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CreatePostRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	p, err := s.CreatePost(ctx, req.Meta, req.Text)
	return classify(CreatePostReply{Post: p}, err)
}

func (s *Service) handleRetrieveStandardPost(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveStandardPostRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	p, err := s.RetrieveStandardPost(ctx, req.Meta, req.PostID)
	return classify(RetrieveStandardPostReply{Post: p}, err)
}

func (s *Service) handleRetrieveExpandedPost(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveExpandedPostRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	p, err := s.RetrieveExpandedPost(ctx, req.Meta, req.PostID)
	return classify(RetrieveExpandedPostReply{Post: p}, err)
}

func (s *Service) handleDeletePost(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req DeletePostRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	err := s.DeletePost(ctx, req.Meta, req.PostID)
	return classify(DeletePostReply{}, err)
}

func (s *Service) handleListPosts(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req ListPostsRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	posts, err := s.ListPosts(ctx, req.Meta, req.Query, req.Limit, req.Offset)
	return classify(ListPostsReply{Posts: posts}, err)
}

func (s *Service) handleCountPostsByAuthor(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CountPostsByAuthorRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	count, err := s.CountPostsByAuthor(ctx, req.Meta, req.AuthorID)
	return classify(CountPostsByAuthorReply{Count: count}, err)
}

func classify[T any](reply T, err error) (any, rpcproto.DomainException, error) {
	if err == nil {
		return reply, nil, nil
	}
	if exc, ok := err.(rpcproto.DomainException); ok {
		return nil, exc, nil
	}
	return nil, nil, err
}
