package account

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
	"go.uber.org/zap"
)

const ServiceName = "account"

type followChecker interface {
	checkFollow(meta reqmeta.Metadata, localFunction string, followerID, followeeID int32) (bool, error)
	countFollowers(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error)
	countFollowees(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error)
}

type postCounter interface {
	countPostsByAuthor(meta reqmeta.Metadata, localFunction string, authorID int32) (int32, error)
}

type likeCounter interface {
	countLikesByAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error)
}

type store interface {
	Authenticate(ctx context.Context, conn *sql.Conn, username, password string) (Account, error)
	Create(ctx context.Context, conn *sql.Conn, username, password, firstName, lastName string) (Account, error)
	RetrieveStandard(ctx context.Context, conn *sql.Conn, accountID int32) (Account, error)
	Update(ctx context.Context, conn *sql.Conn, accountID int32, password, firstName, lastName string) (Account, error)
	Delete(ctx context.Context, conn *sql.Conn, accountID int32) error
	List(ctx context.Context, conn *sql.Conn, q Query, limit, offset int32) ([]Account, error)
}

// dbSession checks a *sql.Conn out of the pool for the lifetime of fn and
// releases it afterwards. Tests substitute a fake that skips the pool
// entirely, since pool.sqlConn is unexported and cannot be constructed
// outside the pool package.
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

// Service implements every Account RPC. It is the busiest node in the
// dependency graph: besides its own table it reaches Follow (for the
// follow/follower relationship bits on every view) and Post and Like (for
// the activity counts on the expanded view and list_accounts).
type Service struct {
	db       dbSession
	store    store
	follow   followChecker
	post     postCounter
	like     likeCounter
	queryLog *zap.Logger
}

func NewService(db *pool.DBPool, followPeer_, postPeer_, likePeer_ *rpcclient.Peer, queryLog *zap.Logger) *Service {
	return &Service{
		db:       poolSession{db: db},
		store:    NewStore(),
		follow:   followPeer{peer: followPeer_},
		post:     postPeer{peer: postPeer_},
		like:     likePeer{peer: likePeer_},
		queryLog: queryLog,
	}
}

func NewExceptionRegistry() *rpcproto.ExceptionRegistry {
	reg := rpcproto.NewExceptionRegistry()
	reg.Register("AccountInvalidCredentialsException", func() rpcproto.DomainException { return &InvalidCredentialsException{} })
	reg.Register("AccountDeactivatedException", func() rpcproto.DomainException { return &DeactivatedException{} })
	reg.Register("AccountInvalidAttributesException", func() rpcproto.DomainException { return &InvalidAttributesException{} })
	reg.Register("AccountUsernameAlreadyExistsException", func() rpcproto.DomainException { return &UsernameAlreadyExistsException{} })
	reg.Register("AccountNotFoundException", func() rpcproto.DomainException { return &NotFoundException{} })
	reg.Register("AccountNotAuthorizedException", func() rpcproto.DomainException { return &NotAuthorizedException{} })
	return reg
}

func (s *Service) Register(srv *rpcserver.Server) {
	srv.Register("authenticate_user", s.handleAuthenticateUser)
	srv.Register("create_account", s.handleCreateAccount)
	srv.Register("retrieve_standard_account", s.handleRetrieveStandardAccount)
	srv.Register("retrieve_expanded_account", s.handleRetrieveExpandedAccount)
	srv.Register("update_account", s.handleUpdateAccount)
	srv.Register("delete_account", s.handleDeleteAccount)
	srv.Register("list_accounts", s.handleListAccounts)
}

func (s *Service) withQueryLog(ctx context.Context, localFunction, requestID, queryType string, fn func() error) error {
	return logging.WrapVoidCall(s.queryLog, logging.CallTags{
		LocalService:   ServiceName,
		LocalFunction:  localFunction,
		RemoteService:  "account",
		RemoteFunction: queryType,
		RequestID:      requestID,
	}, fn)
}

// validateAttributes enforces the source's 1..32 character bound on every
// account field. UpdateAccount calls this with a dummy username since the
// username itself is never part of an update.
func validateAttributes(username, password, firstName, lastName string) error {
	for _, field := range []string{username, password, firstName, lastName} {
		if len(field) < 1 || len(field) > 32 {
			return &InvalidAttributesException{Message: "account fields must be between 1 and 32 characters"}
		}
	}
	return nil
}

func (s *Service) AuthenticateUser(ctx context.Context, meta reqmeta.Metadata, username, password string) (Account, error) {
	var a Account
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withQueryLog(ctx, "authenticate_user", meta.ID, "select", func() error {
			var err error
			a, err = s.store.Authenticate(ctx, conn, username, password)
			return err
		})
	})
	return a, err
}

func (s *Service) CreateAccount(ctx context.Context, meta reqmeta.Metadata, username, password, firstName, lastName string) (Account, error) {
	if err := validateAttributes(username, password, firstName, lastName); err != nil {
		return Account{}, err
	}
	var a Account
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withQueryLog(ctx, "create_account", meta.ID, "insert", func() error {
			var err error
			a, err = s.store.Create(ctx, conn, username, password, firstName, lastName)
			return err
		})
	})
	return a, err
}

// RetrieveStandardAccount looks the account up and, like the source, also
// resolves FollowedByYou via a single check_follow call -- "standard" view
// is not peer-free.
func (s *Service) RetrieveStandardAccount(ctx context.Context, meta reqmeta.Metadata, accountID int32) (Account, error) {
	var a Account
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withQueryLog(ctx, "retrieve_standard_account", meta.ID, "select", func() error {
			var err error
			a, err = s.store.RetrieveStandard(ctx, conn, accountID)
			return err
		})
	})
	if err != nil {
		return Account{}, err
	}
	followedByYou, err := s.follow.checkFollow(meta.Derive(meta.RequesterID), "retrieve_standard_account", meta.RequesterID, accountID)
	if err != nil {
		return Account{}, err
	}
	a.FollowedByYou = followedByYou
	return a, nil
}

// RetrieveExpandedAccount widens RetrieveStandardAccount with a five-way
// fan-out to Follow (follows_you, follower/followee counts), Post, and
// Like -- the heaviest single request in the whole system.
func (s *Service) RetrieveExpandedAccount(ctx context.Context, meta reqmeta.Metadata, accountID int32) (Account, error) {
	a, err := s.RetrieveStandardAccount(ctx, meta, accountID)
	if err != nil {
		return Account{}, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	followsYouHandle := fanout.Spawn(g, func() (bool, error) {
		return s.follow.checkFollow(meta.Derive(meta.RequesterID), "retrieve_expanded_account", accountID, meta.RequesterID)
	})
	followersHandle := fanout.Spawn(g, func() (int32, error) {
		return s.follow.countFollowers(meta.Derive(meta.RequesterID), "retrieve_expanded_account", accountID)
	})
	followeesHandle := fanout.Spawn(g, func() (int32, error) {
		return s.follow.countFollowees(meta.Derive(meta.RequesterID), "retrieve_expanded_account", accountID)
	})
	postsHandle := fanout.Spawn(g, func() (int32, error) {
		return s.post.countPostsByAuthor(meta.Derive(meta.RequesterID), "retrieve_expanded_account", accountID)
	})
	likesHandle := fanout.Spawn(g, func() (int32, error) {
		return s.like.countLikesByAccount(meta.Derive(meta.RequesterID), "retrieve_expanded_account", accountID)
	})

	followsYou, errFollowsYou := followsYouHandle.Get()
	followers, errFollowers := followersHandle.Get()
	followees, errFollowees := followeesHandle.Get()
	posts, errPosts := postsHandle.Get()
	likes, errLikes := likesHandle.Get()
	for _, err := range []error{errFollowsYou, errFollowers, errFollowees, errPosts, errLikes} {
		if err != nil {
			return Account{}, err
		}
	}

	a.FollowsYou = followsYou
	a.NFollowers = followers
	a.NFollowing = followees
	a.NPosts = posts
	a.NLikes = likes
	return a, nil
}

// UpdateAccount checks ownership before validating fields, matching the
// source's authorize-then-validate order. The username itself is
// immutable, so validation runs against a placeholder username.
func (s *Service) UpdateAccount(ctx context.Context, meta reqmeta.Metadata, accountID int32, password, firstName, lastName string) (Account, error) {
	if meta.RequesterID != accountID {
		return Account{}, &NotAuthorizedException{Message: "requester does not own this account"}
	}
	if err := validateAttributes("john.doe", password, firstName, lastName); err != nil {
		return Account{}, err
	}

	var a Account
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withQueryLog(ctx, "update_account", meta.ID, "update", func() error {
			var err error
			a, err = s.store.Update(ctx, conn, accountID, password, firstName, lastName)
			return err
		})
	})
	if err != nil {
		return Account{}, err
	}
	a.ID = accountID
	return a, nil
}

// DeleteAccount checks ownership before checking existence -- the source
// raises NotAuthorized even for an account id that doesn't exist, and the
// rewrite preserves that check order.
func (s *Service) DeleteAccount(ctx context.Context, meta reqmeta.Metadata, accountID int32) error {
	if meta.RequesterID != accountID {
		return &NotAuthorizedException{Message: "requester does not own this account"}
	}
	return s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withQueryLog(ctx, "delete_account", meta.ID, "update", func() error {
			return s.store.Delete(ctx, conn, accountID)
		})
	})
}

type accountExpansion struct {
	followsYou    bool
	followedByYou bool
	nFollowers    int32
	nFollowing    int32
	nPosts        int32
	nLikes        int32
}

// ListAccounts filters on active accounts (and, optionally, username), then
// fans out the same six calls RetrieveExpandedAccount makes for every row.
// Rows are expanded concurrently; within a row the six calls still run
// concurrently against a shared group.
func (s *Service) ListAccounts(ctx context.Context, meta reqmeta.Metadata, q Query, limit, offset int32) ([]Account, error) {
	var accounts []Account
	err := s.db.withConn(ctx, func(conn *sql.Conn) error {
		return s.withQueryLog(ctx, "list_accounts", meta.ID, "select", func() error {
			var err error
			accounts, err = s.store.List(ctx, conn, q, limit, offset)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	expansions, err := fanout.Parallel(g, len(accounts), func(i int) (accountExpansion, error) {
		row := accounts[i]
		rowGroup := fanout.NewGroup(fanout.DefaultMaxConcurrency)
		followsYouHandle := fanout.Spawn(rowGroup, func() (bool, error) {
			return s.follow.checkFollow(meta.Derive(meta.RequesterID), "list_accounts", row.ID, meta.RequesterID)
		})
		followedByYouHandle := fanout.Spawn(rowGroup, func() (bool, error) {
			return s.follow.checkFollow(meta.Derive(meta.RequesterID), "list_accounts", meta.RequesterID, row.ID)
		})
		followersHandle := fanout.Spawn(rowGroup, func() (int32, error) {
			return s.follow.countFollowers(meta.Derive(meta.RequesterID), "list_accounts", row.ID)
		})
		followeesHandle := fanout.Spawn(rowGroup, func() (int32, error) {
			return s.follow.countFollowees(meta.Derive(meta.RequesterID), "list_accounts", row.ID)
		})
		postsHandle := fanout.Spawn(rowGroup, func() (int32, error) {
			return s.post.countPostsByAuthor(meta.Derive(meta.RequesterID), "list_accounts", row.ID)
		})
		likesHandle := fanout.Spawn(rowGroup, func() (int32, error) {
			return s.like.countLikesByAccount(meta.Derive(meta.RequesterID), "list_accounts", row.ID)
		})

		var exp accountExpansion
		var err error
		if exp.followsYou, err = followsYouHandle.Get(); err != nil {
			return exp, err
		}
		if exp.followedByYou, err = followedByYouHandle.Get(); err != nil {
			return exp, err
		}
		if exp.nFollowers, err = followersHandle.Get(); err != nil {
			return exp, err
		}
		if exp.nFollowing, err = followeesHandle.Get(); err != nil {
			return exp, err
		}
		if exp.nPosts, err = postsHandle.Get(); err != nil {
			return exp, err
		}
		if exp.nLikes, err = likesHandle.Get(); err != nil {
			return exp, err
		}
		return exp, nil
	})
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		exp := expansions[i]
		accounts[i].FollowsYou = exp.followsYou
		accounts[i].FollowedByYou = exp.followedByYou
		accounts[i].NFollowers = exp.nFollowers
		accounts[i].NFollowing = exp.nFollowing
		accounts[i].NPosts = exp.nPosts
		accounts[i].NLikes = exp.nLikes
	}
	return accounts, nil
}

func (s *Service) handleAuthenticateUser(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req AuthenticateUserRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	a, err := s.AuthenticateUser(ctx, req.Meta, req.Username, req.Password)
	return classify(AuthenticateUserReply{Account: a}, err)
}

func (s *Service) handleCreateAccount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CreateAccountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	a, err := s.CreateAccount(ctx, req.Meta, req.Username, req.Password, req.FirstName, req.LastName)
	return classify(CreateAccountReply{Account: a}, err)
}

func (s *Service) handleRetrieveStandardAccount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveStandardAccountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	a, err := s.RetrieveStandardAccount(ctx, req.Meta, req.AccountID)
	return classify(RetrieveStandardAccountReply{Account: a}, err)
}

func (s *Service) handleRetrieveExpandedAccount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveExpandedAccountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	a, err := s.RetrieveExpandedAccount(ctx, req.Meta, req.AccountID)
	return classify(RetrieveExpandedAccountReply{Account: a}, err)
}

func (s *Service) handleUpdateAccount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req UpdateAccountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	a, err := s.UpdateAccount(ctx, req.Meta, req.AccountID, req.Password, req.FirstName, req.LastName)
	return classify(UpdateAccountReply{Account: a}, err)
}

func (s *Service) handleDeleteAccount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req DeleteAccountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	err := s.DeleteAccount(ctx, req.Meta, req.AccountID)
	return classify(DeleteAccountReply{}, err)
}

func (s *Service) handleListAccounts(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req ListAccountsRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	accounts, err := s.ListAccounts(ctx, req.Meta, req.Query, req.Limit, req.Offset)
	return classify(ListAccountsReply{Accounts: accounts}, err)
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
