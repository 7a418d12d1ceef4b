package like

import (
	"testing"

	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
	"github.com/rodrigoalveslima/BuzzBlog/internal/uniquepair"
)

type fakeUniquepair struct {
	pairs  map[int32]uniquepair.Pair
	nextID int32
}

func newFakeUniquepair() *fakeUniquepair {
	return &fakeUniquepair{pairs: map[int32]uniquepair.Pair{}, nextID: 1}
}

func (f *fakeUniquepair) Get(meta reqmeta.Metadata, localFunction string, id int32) (uniquepair.Pair, error) {
	p, ok := f.pairs[id]
	if !ok {
		return uniquepair.Pair{}, &uniquepair.NotFoundException{Message: "not found"}
	}
	return p, nil
}

func (f *fakeUniquepair) Add(meta reqmeta.Metadata, localFunction, domain string, firstElem, secondElem int32) (uniquepair.Pair, error) {
	for _, p := range f.pairs {
		if p.Domain == domain && p.FirstElem == firstElem && p.SecondElem == secondElem {
			return uniquepair.Pair{}, &uniquepair.AlreadyExistsException{Message: "already exists"}
		}
	}
	p := uniquepair.Pair{ID: f.nextID, Domain: domain, FirstElem: firstElem, SecondElem: secondElem}
	f.pairs[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakeUniquepair) Remove(meta reqmeta.Metadata, localFunction string, id int32) error {
	if _, ok := f.pairs[id]; !ok {
		return &uniquepair.NotFoundException{Message: "not found"}
	}
	delete(f.pairs, id)
	return nil
}

func (f *fakeUniquepair) Fetch(meta reqmeta.Metadata, localFunction string, q uniquepair.Query, limit, offset int32) ([]uniquepair.Pair, error) {
	var out []uniquepair.Pair
	for _, p := range f.pairs {
		if p.Domain != q.Domain {
			continue
		}
		if q.FirstElem != nil && p.FirstElem != *q.FirstElem {
			continue
		}
		if q.SecondElem != nil && p.SecondElem != *q.SecondElem {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeUniquepair) Count(meta reqmeta.Metadata, localFunction string, q uniquepair.Query) (int32, error) {
	out, err := f.Fetch(meta, localFunction, q, 0, 0)
	return int32(len(out)), err
}

type fakeAccountRetriever struct{ accounts map[int32]accountSummary }

func (f *fakeAccountRetriever) retrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (accountSummary, error) {
	return f.accounts[accountID], nil
}

type fakePostRetriever struct{ posts map[int32]postSummary }

func (f *fakePostRetriever) retrieveExpandedPost(meta reqmeta.Metadata, localFunction string, postID int32) (postSummary, error) {
	return f.posts[postID], nil
}

func newTestService() (*Service, *fakeUniquepair) {
	uq := newFakeUniquepair()
	acct := &fakeAccountRetriever{accounts: map[int32]accountSummary{1: {ID: 1, Username: "alice"}}}
	posts := &fakePostRetriever{posts: map[int32]postSummary{10: {ID: 10, AuthorID: 2, Text: "hello"}}}
	return &Service{uniquepair: uq, account: acct, post: posts}, uq
}

func TestLikePostRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService()
	meta := reqmeta.New(1)
	if _, err := svc.LikePost(meta, 10); err != nil {
		t.Fatalf("first like: %v", err)
	}
	_, err := svc.LikePost(meta, 10)
	if _, ok := err.(*AlreadyExistsException); !ok {
		t.Fatalf("expected AlreadyExistsException, got %v", err)
	}
}

func TestDeleteLikeRequiresOwnership(t *testing.T) {
	svc, _ := newTestService()
	l, err := svc.LikePost(reqmeta.New(1), 10)
	if err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if err := svc.DeleteLike(reqmeta.New(2), l.ID); err == nil {
		t.Fatalf("expected NotAuthorizedException")
	} else if _, ok := err.(*NotAuthorizedException); !ok {
		t.Fatalf("expected NotAuthorizedException, got %v", err)
	}
	if err := svc.DeleteLike(reqmeta.New(1), l.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestRetrieveExpandedLikeFillsAccountAndPost(t *testing.T) {
	svc, _ := newTestService()
	l, err := svc.LikePost(reqmeta.New(1), 10)
	if err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	expanded, err := svc.RetrieveExpandedLike(reqmeta.New(1), l.ID)
	if err != nil {
		t.Fatalf("RetrieveExpandedLike: %v", err)
	}
	if expanded.Account == nil || expanded.Account.Username != "alice" {
		t.Fatalf("expected account alice, got %+v", expanded.Account)
	}
	if expanded.Post == nil || expanded.Post.Text != "hello" {
		t.Fatalf("expected post text hello, got %+v", expanded.Post)
	}
}

func TestCountLikesOfPost(t *testing.T) {
	svc, _ := newTestService()
	meta := reqmeta.New(1)
	if _, err := svc.LikePost(meta, 10); err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	count, err := svc.CountLikesOfPost(meta, 10)
	if err != nil {
		t.Fatalf("CountLikesOfPost: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
}
