package like

import (
	"context"

	"github.com/rodrigoalveslima/BuzzBlog/internal/fanout"
	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcclient"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
	"github.com/rodrigoalveslima/BuzzBlog/internal/uniquepair"
)

const ServiceName = "like"

// domain is the uniquepair domain tag backing every like relationship.
const domain = "like"

type uniquepairClient interface {
	Get(meta reqmeta.Metadata, localFunction string, id int32) (uniquepair.Pair, error)
	Add(meta reqmeta.Metadata, localFunction, domain string, firstElem, secondElem int32) (uniquepair.Pair, error)
	Remove(meta reqmeta.Metadata, localFunction string, id int32) error
	Fetch(meta reqmeta.Metadata, localFunction string, q uniquepair.Query, limit, offset int32) ([]uniquepair.Pair, error)
	Count(meta reqmeta.Metadata, localFunction string, q uniquepair.Query) (int32, error)
}

type accountRetriever interface {
	retrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (accountSummary, error)
}

type postRetriever interface {
	retrieveExpandedPost(meta reqmeta.Metadata, localFunction string, postID int32) (postSummary, error)
}

// Service implements every Like RPC by delegating to Uniquepair (for
// storage), Account, and Post (for expanded views).
type Service struct {
	uniquepair uniquepairClient
	account    accountRetriever
	post       postRetriever
}

func NewService(uniquepairClient_ *uniquepair.Client, accountPeer_, postPeer_ *rpcclient.Peer) *Service {
	return &Service{
		uniquepair: uniquepairClient_,
		account:    accountPeer{peer: accountPeer_},
		post:       postPeer{peer: postPeer_},
	}
}

func NewExceptionRegistry() *rpcproto.ExceptionRegistry {
	reg := rpcproto.NewExceptionRegistry()
	reg.Register("LikeAlreadyExistsException", func() rpcproto.DomainException { return &AlreadyExistsException{} })
	reg.Register("LikeNotFoundException", func() rpcproto.DomainException { return &NotFoundException{} })
	reg.Register("LikeNotAuthorizedException", func() rpcproto.DomainException { return &NotAuthorizedException{} })
	return reg
}

func (s *Service) Register(srv *rpcserver.Server) {
	srv.Register("like_post", s.handleLikePost)
	srv.Register("retrieve_standard_like", s.handleRetrieveStandardLike)
	srv.Register("retrieve_expanded_like", s.handleRetrieveExpandedLike)
	srv.Register("delete_like", s.handleDeleteLike)
	srv.Register("list_likes", s.handleListLikes)
	srv.Register("count_likes_by_account", s.handleCountLikesByAccount)
	srv.Register("count_likes_of_post", s.handleCountLikesOfPost)
}

func (s *Service) LikePost(meta reqmeta.Metadata, postID int32) (Like, error) {
	pair, err := s.uniquepair.Add(meta.Derive(meta.RequesterID), "like_post", domain, meta.RequesterID, postID)
	if _, ok := err.(*uniquepair.AlreadyExistsException); ok {
		return Like{}, &AlreadyExistsException{Message: "already liked this post"}
	}
	if err != nil {
		return Like{}, err
	}
	return Like{ID: pair.ID, CreatedAt: pair.CreatedAt, AccountID: meta.RequesterID, PostID: postID}, nil
}

func (s *Service) RetrieveStandardLike(meta reqmeta.Metadata, likeID int32) (Like, error) {
	pair, err := s.uniquepair.Get(meta.Derive(meta.RequesterID), "retrieve_standard_like", likeID)
	if _, ok := err.(*uniquepair.NotFoundException); ok {
		return Like{}, &NotFoundException{Message: "like not found"}
	}
	if err != nil {
		return Like{}, err
	}
	return Like{ID: pair.ID, CreatedAt: pair.CreatedAt, AccountID: pair.FirstElem, PostID: pair.SecondElem}, nil
}

func (s *Service) RetrieveExpandedLike(meta reqmeta.Metadata, likeID int32) (Like, error) {
	l, err := s.RetrieveStandardLike(meta, likeID)
	if err != nil {
		return Like{}, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	account, post, err := fanout.Join2(g,
		func() (accountSummary, error) {
			return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "retrieve_expanded_like", l.AccountID)
		},
		func() (postSummary, error) {
			return s.post.retrieveExpandedPost(meta.Derive(meta.RequesterID), "retrieve_expanded_like", l.PostID)
		},
	)
	if err != nil {
		return Like{}, err
	}
	l.Account = &account
	l.Post = &post
	return l, nil
}

func (s *Service) DeleteLike(meta reqmeta.Metadata, likeID int32) error {
	pair, err := s.uniquepair.Get(meta.Derive(meta.RequesterID), "delete_like", likeID)
	if _, ok := err.(*uniquepair.NotFoundException); ok {
		return &NotFoundException{Message: "like not found"}
	}
	if err != nil {
		return err
	}
	if meta.RequesterID != pair.FirstElem {
		return &NotAuthorizedException{Message: "requester is not the liking account"}
	}
	err = s.uniquepair.Remove(meta.Derive(meta.RequesterID), "delete_like", likeID)
	if _, ok := err.(*uniquepair.NotFoundException); ok {
		return &NotFoundException{Message: "like not found"}
	}
	return err
}

func (s *Service) ListLikes(meta reqmeta.Metadata, q Query, limit, offset int32) ([]Like, error) {
	uq := uniquepair.Query{Domain: domain, FirstElem: q.AccountID, SecondElem: q.PostID}
	pairs, err := s.uniquepair.Fetch(meta.Derive(meta.RequesterID), "list_likes", uq, limit, offset)
	if err != nil {
		return nil, err
	}

	g := fanout.NewGroup(fanout.DefaultMaxConcurrency)
	accounts, err := fanout.Parallel(g, len(pairs), func(i int) (accountSummary, error) {
		return s.account.retrieveStandardAccount(meta.Derive(meta.RequesterID), "list_likes", pairs[i].FirstElem)
	})
	if err != nil {
		return nil, err
	}
	posts, err := fanout.Parallel(g, len(pairs), func(i int) (postSummary, error) {
		return s.post.retrieveExpandedPost(meta.Derive(meta.RequesterID), "list_likes", pairs[i].SecondElem)
	})
	if err != nil {
		return nil, err
	}

	likes := make([]Like, len(pairs))
	for i, p := range pairs {
		account, post := accounts[i], posts[i]
		likes[i] = Like{
			ID: p.ID, CreatedAt: p.CreatedAt, AccountID: p.FirstElem, PostID: p.SecondElem,
			Account: &account, Post: &post,
		}
	}
	return likes, nil
}

func (s *Service) CountLikesByAccount(meta reqmeta.Metadata, accountID int32) (int32, error) {
	first := accountID
	return s.uniquepair.Count(meta.Derive(meta.RequesterID), "count_likes_by_account", uniquepair.Query{Domain: domain, FirstElem: &first})
}

func (s *Service) CountLikesOfPost(meta reqmeta.Metadata, postID int32) (int32, error) {
	second := postID
	return s.uniquepair.Count(meta.Derive(meta.RequesterID), "count_likes_of_post", uniquepair.Query{Domain: domain, SecondElem: &second})
}

func (s *Service) handleLikePost(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req LikePostRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	l, err := s.LikePost(req.Meta, req.PostID)
	return classify(LikePostReply{Like: l}, err)
}

func (s *Service) handleRetrieveStandardLike(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveStandardLikeRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	l, err := s.RetrieveStandardLike(req.Meta, req.LikeID)
	return classify(RetrieveStandardLikeReply{Like: l}, err)
}

func (s *Service) handleRetrieveExpandedLike(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req RetrieveExpandedLikeRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	l, err := s.RetrieveExpandedLike(req.Meta, req.LikeID)
	return classify(RetrieveExpandedLikeReply{Like: l}, err)
}

func (s *Service) handleDeleteLike(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req DeleteLikeRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	err := s.DeleteLike(req.Meta, req.LikeID)
	return classify(DeleteLikeReply{}, err)
}

func (s *Service) handleListLikes(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req ListLikesRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	likes, err := s.ListLikes(req.Meta, req.Query, req.Limit, req.Offset)
	return classify(ListLikesReply{Likes: likes}, err)
}

func (s *Service) handleCountLikesByAccount(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CountLikesByAccountRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	count, err := s.CountLikesByAccount(req.Meta, req.AccountID)
	return classify(CountLikesByAccountReply{Count: count}, err)
}

func (s *Service) handleCountLikesOfPost(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req CountLikesOfPostRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	count, err := s.CountLikesOfPost(req.Meta, req.PostID)
	return classify(CountLikesOfPostReply{Count: count}, err)
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
