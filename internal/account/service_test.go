package account

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
)

type fakeStore struct {
	accounts map[int32]Account
	nextID   int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[int32]Account{}, nextID: 1}
}

func (f *fakeStore) Authenticate(ctx context.Context, conn *sql.Conn, username, password string) (Account, error) {
	for _, a := range f.accounts {
		if a.Username == username {
			if !a.Active {
				return Account{}, &DeactivatedException{Message: "deactivated"}
			}
			return a, nil
		}
	}
	return Account{}, &InvalidCredentialsException{Message: "invalid"}
}

func (f *fakeStore) Create(ctx context.Context, conn *sql.Conn, username, password, firstName, lastName string) (Account, error) {
	for _, a := range f.accounts {
		if a.Username == username {
			return Account{}, &UsernameAlreadyExistsException{Message: "taken"}
		}
	}
	a := Account{ID: f.nextID, Active: true, Username: username, FirstName: firstName, LastName: lastName}
	f.accounts[a.ID] = a
	f.nextID++
	return a, nil
}

func (f *fakeStore) RetrieveStandard(ctx context.Context, conn *sql.Conn, accountID int32) (Account, error) {
	a, ok := f.accounts[accountID]
	if !ok {
		return Account{}, &NotFoundException{Message: "not found"}
	}
	return a, nil
}

func (f *fakeStore) Update(ctx context.Context, conn *sql.Conn, accountID int32, password, firstName, lastName string) (Account, error) {
	a, ok := f.accounts[accountID]
	if !ok {
		return Account{}, &NotFoundException{Message: "not found"}
	}
	a.FirstName = firstName
	a.LastName = lastName
	f.accounts[accountID] = a
	return a, nil
}

func (f *fakeStore) Delete(ctx context.Context, conn *sql.Conn, accountID int32) error {
	a, ok := f.accounts[accountID]
	if !ok {
		return &NotFoundException{Message: "not found"}
	}
	a.Active = false
	f.accounts[accountID] = a
	return nil
}

func (f *fakeStore) List(ctx context.Context, conn *sql.Conn, q Query, limit, offset int32) ([]Account, error) {
	var out []Account
	for _, a := range f.accounts {
		if !a.Active {
			continue
		}
		if q.Username != nil && a.Username != *q.Username {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeFollow struct {
	follows   map[[2]int32]bool
	followers map[int32]int32
	followees map[int32]int32
}

func (f *fakeFollow) checkFollow(meta reqmeta.Metadata, localFunction string, followerID, followeeID int32) (bool, error) {
	return f.follows[[2]int32{followerID, followeeID}], nil
}

func (f *fakeFollow) countFollowers(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	return f.followers[accountID], nil
}

func (f *fakeFollow) countFollowees(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	return f.followees[accountID], nil
}

type fakePost struct{ counts map[int32]int32 }

func (f *fakePost) countPostsByAuthor(meta reqmeta.Metadata, localFunction string, authorID int32) (int32, error) {
	return f.counts[authorID], nil
}

type fakeLike struct{ counts map[int32]int32 }

func (f *fakeLike) countLikesByAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (int32, error) {
	return f.counts[accountID], nil
}

type fakeSession struct{}

func (fakeSession) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	return fn(nil)
}

func newTestService() (*Service, *fakeStore, *fakeFollow) {
	st := newFakeStore()
	fl := &fakeFollow{follows: map[[2]int32]bool{}, followers: map[int32]int32{}, followees: map[int32]int32{}}
	svc := &Service{
		db:     fakeSession{},
		store:  st,
		follow: fl,
		post:   &fakePost{counts: map[int32]int32{}},
		like:   &fakeLike{counts: map[int32]int32{}},
	}
	return svc, st, fl
}

func TestCreateAccountRejectsShortFields(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateAccount(context.Background(), reqmeta.New(0), "", "secret", "Alice", "Doe")
	if _, ok := err.(*InvalidAttributesException); !ok {
		t.Fatalf("expected InvalidAttributesException, got %v", err)
	}
}

func TestCreateAccountRejectsOverlongField(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateAccount(context.Background(), reqmeta.New(0), strings.Repeat("a", 33), "secret", "Alice", "Doe")
	if _, ok := err.(*InvalidAttributesException); !ok {
		t.Fatalf("expected InvalidAttributesException, got %v", err)
	}
}

func TestRetrieveStandardAccountSetsFollowedByYou(t *testing.T) {
	svc, st, fl := newTestService()
	a, _ := st.Create(context.Background(), nil, "alice", "secret", "Alice", "Doe")
	fl.follows[[2]int32{2, a.ID}] = true

	got, err := svc.RetrieveStandardAccount(context.Background(), reqmeta.New(2), a.ID)
	if err != nil {
		t.Fatalf("RetrieveStandardAccount: %v", err)
	}
	if !got.FollowedByYou {
		t.Fatalf("expected FollowedByYou true")
	}
}

func TestRetrieveExpandedAccountAggregatesAllFanouts(t *testing.T) {
	svc, st, fl := newTestService()
	a, _ := st.Create(context.Background(), nil, "alice", "secret", "Alice", "Doe")
	fl.follows[[2]int32{a.ID, 2}] = true
	fl.followers[a.ID] = 5
	fl.followees[a.ID] = 3
	svc.post.(*fakePost).counts[a.ID] = 7
	svc.like.(*fakeLike).counts[a.ID] = 9

	got, err := svc.RetrieveExpandedAccount(context.Background(), reqmeta.New(2), a.ID)
	if err != nil {
		t.Fatalf("RetrieveExpandedAccount: %v", err)
	}
	if !got.FollowsYou || got.NFollowers != 5 || got.NFollowing != 3 || got.NPosts != 7 || got.NLikes != 9 {
		t.Fatalf("unexpected expansion: %+v", got)
	}
}

func TestUpdateAccountRequiresOwnership(t *testing.T) {
	svc, st, _ := newTestService()
	a, _ := st.Create(context.Background(), nil, "alice", "secret", "Alice", "Doe")

	if _, err := svc.UpdateAccount(context.Background(), reqmeta.New(2), a.ID, "newpass", "Alice", "Doe"); err == nil {
		t.Fatalf("expected NotAuthorizedException")
	} else if _, ok := err.(*NotAuthorizedException); !ok {
		t.Fatalf("expected NotAuthorizedException, got %v", err)
	}
	if _, err := svc.UpdateAccount(context.Background(), reqmeta.New(a.ID), a.ID, "newpass", "Alice", "Doe"); err != nil {
		t.Fatalf("owner update: %v", err)
	}
}

func TestDeleteAccountRejectsNonOwnerBeforeExistenceCheck(t *testing.T) {
	svc, _, _ := newTestService()
	// Account 999 does not exist, but authorization is checked first.
	if err := svc.DeleteAccount(context.Background(), reqmeta.New(2), 999); err == nil {
		t.Fatalf("expected NotAuthorizedException")
	} else if _, ok := err.(*NotAuthorizedException); !ok {
		t.Fatalf("expected NotAuthorizedException, got %v", err)
	}
}

func TestListAccountsFansOutPerRow(t *testing.T) {
	svc, st, fl := newTestService()
	a, _ := st.Create(context.Background(), nil, "alice", "secret", "Alice", "Doe")
	fl.followers[a.ID] = 2

	accounts, err := svc.ListAccounts(context.Background(), reqmeta.New(a.ID), Query{}, 10, 0)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].NFollowers != 2 {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}
