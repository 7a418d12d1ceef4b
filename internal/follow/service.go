package follow

import (
	"context"

	"github.com/rodrigoalveslima/BuzzBlog/internal/fanout"
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/uniquepair"
)

const ServiceName = "follow"

// domain is the uniquepair domain tag backing every follow relationship.
const domain = "follow"

// uniquepairClient is the subset of *uniquepair.Client Follow depends on,
// extracted as an interface so tests can substitute a fake in place of a
// live peer connection.
type uniquepairClient interface {
	Get(meta reqmeta.Metadata, localFunction string, id int32) (uniquepair.Pair, error)
	Add(meta reqmeta.Metadata, localFunction, domain string, firstElem, secondElem int32) (uniquepair.Pair, error)
	Remove(meta reqmeta.Metadata, localFunction string, id int32) error
	Find(meta reqmeta.Metadata, localFunction, domain string, firstElem, secondElem int32) (bool, error)
	Fetch(meta reqmeta.Metadata, localFunction string, q uniquepair.Query, limit, offset int32) ([]uniquepair.Pair, error)
	Count(meta reqmeta.Metadata, localFunction string, q uniquepair.Query) (int32, error)
}

// accountRetriever is the subset of accountPeer Follow depends on.
type accountRetriever interface {
	retrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (accountSummary, error)
}

// Service implements every Follow RPC by delegating to Uniquepair (for
// storage) and Account (for expanded views).
type Service struct {
	uniquepair uniquepairClient
	account    accountRetriever
}

func NewService(uniquepairClient_ *uniquepair.Client, accountPeer_ *rpcclient.Peer) *Service {
	return &Service{uniquepair: uniquepairClient_, account: accountPeer{peer: accountPeer_}}
}

func NewExceptionRegistry() *rpcproto.ExceptionRegistry {
	reg := rpcproto.NewExceptionRegistry()
	reg.Register("FollowInvalidAttributesException", func() rpcproto.DomainException { return &InvalidAttributesException{} })
	reg.Register("FollowAlreadyExistsException", func() rpcproto.DomainException { return &AlreadyExistsException{} })
	reg.Register("FollowNotFoundException", func() rpcproto.DomainException { return &NotFoundException{} })
	reg.Register("FollowNotAuthorizedException", func() rpcproto.DomainException { return &NotAuthorizedException{} })
	return reg
}

func (s *Service) Register(srv *rpcserver.Server) {
	srv.Register("follow_account", s.handleFollowAccount)
	srv.Register("retrieve_standard_follow", s.handleRetrieveStandardFollow)
	srv.Register("retrieve_expanded_follow", s.handleRetrieveExpandedFollow)
	srv.Register("delete_follow", s.handleDeleteFollow)
	srv.Register("list_follows", s.handleListFollows)
	srv.Register("check_follow", s.handleCheckFollow)
	srv.Register("count_followers", s.handleCountFollowers)
	srv.Register("count_followees", s.handleCountFollowees)
}

func (s *Service) FollowAccount(meta reqmeta.Metadata, accountID int32) (Follow, error) {
	if meta.RequesterID == accountID {
		return Follow{}, &InvalidAttributesException{Message: "cannot follow yourself"}
	}
	pair, err := s.uniquepair.Add(meta.Derive(meta.RequesterID), "follow_account", domain, meta.RequesterID, accountID)
	if _, ok := err.(*uniquepair.AlreadyExistsException); ok {
		return Follow{}, &AlreadyExistsException{Message: "already following this account"}
	}
	if err != nil {
		return Follow{}, err
	}
	return Follow{ID: pair.ID, CreatedAt: pair.CreatedAt, FollowerID: meta.RequesterID, FolloweeID: accountID}, nil
}

func (s *Service) RetrieveStandardFollow(meta reqmeta.Metadata, followID int32) (Follow, error) {
	pair, err := s.uniquepair.Get(meta.Derive(meta.RequesterID), "retrieve_standard_follow", followID)
	if _, ok := err.(*uniquepair.NotFoundException); ok {
		return Follow{}, &NotFoundException{Message: "follow not found"}
	}
	if err != nil {
		return Follow{}, err
	}
	return Follow{ID: pair.ID, CreatedAt: pair.CreatedAt, FollowerID: pair.FirstElem, FolloweeID: pair.SecondElem}, nil
}

func (s *Service) RetrieveExpandedFollow(meta reqmeta.Metadata, followID int32) (Follow, error) {
	f, err := s.RetrieveStandardFollow(meta, followID)
	if err != nil {
		return Follow{}, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	follower, followee, err := fanout.Join2(g,
		func() (accountSummary, error) {
			return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "retrieve_expanded_follow", f.FollowerID)
		},
		func() (accountSummary, error) {
			return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "retrieve_expanded_follow", f.FolloweeID)
		},
	)
	if err != nil {
		return Follow{}, err
	}
	f.Follower = &follower
	f.Followee = &followee
	return f, nil
}

func (s *Service) DeleteFollow(meta reqmeta.Metadata, followID int32) error {
	pair, err := s.uniquepair.Get(meta.Derive(meta.RequesterID), "delete_follow", followID)
	if _, ok := err.(*uniquepair.NotFoundException); ok {
		return &NotFoundException{Message: "follow not found"}
	}
	if err != nil {
		return err
	}
	if meta.RequesterID != pair.FirstElem {
		return &NotAuthorizedException{Message: "requester is not the follower"}
	}
	err = s.uniquepair.Remove(meta.Derive(meta.RequesterID), "delete_follow", followID)
	if _, ok := err.(*uniquepair.NotFoundException); ok {
		return &NotFoundException{Message: "follow not found"}
	}
	return err
}

func (s *Service) ListFollows(meta reqmeta.Metadata, q Query, limit, offset int32) ([]Follow, error) {
	uq := uniquepair.Query{Domain: domain, FirstElem: q.FollowerID, SecondElem: q.FolloweeID}
	pairs, err := s.uniquepair.Fetch(meta.Derive(meta.RequesterID), "list_follows", uq, limit, offset)
	if err != nil {
		return nil, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	followers, err := fanout.Parallel(g, len(pairs), func(i int) (accountSummary, error) {
		return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "list_follows", pairs[i].FirstElem)
	})
	if err != nil {
		return nil, err
	}
	followees, err := fanout.Parallel(g, len(pairs), func(i int) (accountSummary, error) {
		return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "list_follows", pairs[i].SecondElem)
	})
	if err != nil {
		return nil, err
	}

	follows := make([]Follow, len(pairs))
	for i, p := range pairs {
		follower, followee := followers[i], followees[i]
		follows[i] = Follow{
			ID: p.ID, CreatedAt: p.CreatedAt, FollowerID: p.FirstElem, FolloweeID: p.SecondElem,
			Follower: &follower, Followee: &followee,
		}
	}
	return follows, nil
}

// CheckFollow reports whether followerID follows followeeID. It must never
// raise: a missing pair is a false, not a NotFoundException (2022 semantics,
// preserved deliberately).
func (s *Service) CheckFollow(meta reqmeta.Metadata, followerID, followeeID int32) (bool, error) {
	return s.uniquepair.Find(meta.Derive(meta.RequesterID), "check_follow", domain, followerID, followeeID)
}

func (s *Service) CountFollowers(meta reqmeta.Metadata, accountID int32) (int32, error) {
	second := accountID
	return s.uniquepair.Count(meta.Derive(meta.RequesterID), "count_followers", uniquepair.Query{Domain: domain, SecondElem: &second})
}

func (s *Service) CountFollowees(meta reqmeta.Metadata, accountID int32) (int32, error) {
	first := accountID
	return s.uniquepair.Count(meta.Derive(meta.RequesterID), "count_followees", uniquepair.Query{Domain: domain, FirstElem: &first})
}

func (s *Service) handleFollowAccount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req FollowAccountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	f, err := s.FollowAccount(req.Meta, req.AccountID)
	return classify(FollowAccountReply{Follow: f}, err)
}

func (s *Service) handleRetrieveStandardFollow(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveStandardFollowRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	f, err := s.RetrieveStandardFollow(req.Meta, req.FollowID)
	return classify(RetrieveStandardFollowReply{Follow: f}, err)
}

func (s *Service) handleRetrieveExpandedFollow(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveExpandedFollowRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	f, err := s.RetrieveExpandedFollow(req.Meta, req.FollowID)
	return classify(RetrieveExpandedFollowReply{Follow: f}, err)
}

func (s *Service) handleDeleteFollow(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req DeleteFollowRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	err := s.DeleteFollow(req.Meta, req.FollowID)
	return classify(DeleteFollowReply{}, err)
}

func (s *Service) handleListFollows(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req ListFollowsRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	follows, err := s.ListFollows(req.Meta, req.Query, req.Limit, req.Offset)
	return classify(ListFollowsReply{Follows: follows}, err)
}

func (s *Service) handleCheckFollow(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CheckFollowRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	found, err := s.CheckFollow(req.Meta, req.FollowerID, req.FolloweeID)
	return classify(CheckFollowReply{Found: found}, err)
}

func (s *Service) handleCountFollowers(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CountFollowersRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	count, err := s.CountFollowers(req.Meta, req.AccountID)
	return classify(CountFollowersReply{Count: count}, err)
}

func (s *Service) handleCountFollowees(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CountFolloweesRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	count, err := s.CountFollowees(req.Meta, req.AccountID)
	return classify(CountFolloweesReply{Count: count}, err)
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
