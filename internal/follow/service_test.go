package follow

import (
	"errors"
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

func (f *fakeUniquepair) Find(meta reqmeta.Metadata, localFunction, domain string, firstElem, secondElem int32) (bool, error) {
	for _, p := range f.pairs {
		if p.Domain == domain && p.FirstElem == firstElem && p.SecondElem == secondElem {
			return true, nil
		}
	}
	return false, nil
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

type fakeAccountRetriever struct {
	accounts map[int32]accountSummary
}

func (f *fakeAccountRetriever) retrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (accountSummary, error) {
	a, ok := f.accounts[accountID]
	if !ok {
		return accountSummary{}, errors.New("account not found")
	}
	return a, nil
}

func newTestService() (*Service, *fakeUniquepair) {
	uq := newFakeUniquepair()
	acct := &fakeAccountRetriever{accounts: map[int32]accountSummary{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
	}}
	return &Service{uniquepair: uq, account: acct}, uq
}

func TestFollowAccountRejectsSelfFollow(t *testing.T) {
	svc, _ := newTestService()
	meta := reqmeta.New(1)
	_, err := svc.FollowAccount(meta, 1)
	if _, ok := err.(*InvalidAttributesException); !ok {
		t.Fatalf("expected InvalidAttributesException, got %v", err)
	}
}

func TestFollowAccountRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService()
	meta := reqmeta.New(1)
	if _, err := svc.FollowAccount(meta, 2); err != nil {
		t.Fatalf("first follow: %v", err)
	}
	_, err := svc.FollowAccount(meta, 2)
	if _, ok := err.(*AlreadyExistsException); !ok {
		t.Fatalf("expected AlreadyExistsException, got %v", err)
	}
}

func TestDeleteFollowRequiresOwnership(t *testing.T) {
	svc, _ := newTestService()
	f, err := svc.FollowAccount(reqmeta.New(1), 2)
	if err != nil {
		t.Fatalf("FollowAccount: %v", err)
	}
	if err := svc.DeleteFollow(reqmeta.New(2), f.ID); !isNotAuthorized(err) {
		t.Fatalf("expected NotAuthorizedException, got %v", err)
	}
	if err := svc.DeleteFollow(reqmeta.New(1), f.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func isNotAuthorized(err error) bool {
	_, ok := err.(*NotAuthorizedException)
	return ok
}

func TestCheckFollowNeverRaisesOnMiss(t *testing.T) {
	svc, _ := newTestService()
	found, err := svc.CheckFollow(reqmeta.New(1), 1, 2)
	if err != nil {
		t.Fatalf("CheckFollow returned an error instead of false: %v", err)
	}
	if found {
		t.Fatalf("expected false for a nonexistent pair")
	}
}

func TestRetrieveExpandedFollowFillsBothAccounts(t *testing.T) {
	svc, _ := newTestService()
	f, err := svc.FollowAccount(reqmeta.New(1), 2)
	if err != nil {
		t.Fatalf("FollowAccount: %v", err)
	}
	expanded, err := svc.RetrieveExpandedFollow(reqmeta.New(1), f.ID)
	if err != nil {
		t.Fatalf("RetrieveExpandedFollow: %v", err)
	}
	if expanded.Follower == nil || expanded.Follower.Username != "alice" {
		t.Fatalf("expected follower alice, got %+v", expanded.Follower)
	}
	if expanded.Followee == nil || expanded.Followee.Username != "bob" {
		t.Fatalf("expected followee bob, got %+v", expanded.Followee)
	}
}
