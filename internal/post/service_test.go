package post

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/rodrigoalveslima/BuzzBlog/internal/reqmeta"
)

type fakeStore struct {
	posts  map[int32]Post
	nextID int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{posts: map[int32]Post{}, nextID: 1}
}

func (f *fakeStore) Create(ctx context.Context, conn *sql.Conn, authorID int32, text string) (Post, error) {
	p := Post{ID: f.nextID, Active: true, AuthorID: authorID, Text: text}
	f.posts[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakeStore) RetrieveStandard(ctx context.Context, conn *sql.Conn, postID int32) (Post, error) {
	p, ok := f.posts[postID]
	if !ok {
		return Post{}, &NotFoundException{Message: "not found"}
	}
	return p, nil
}

func (f *fakeStore) Deactivate(ctx context.Context, conn *sql.Conn, postID int32) error {
	p, ok := f.posts[postID]
	if !ok {
		return &NotFoundException{Message: "not found"}
	}
	p.Active = false
	f.posts[postID] = p
	return nil
}

func (f *fakeStore) List(ctx context.Context, conn *sql.Conn, q Query, limit, offset int32) ([]Post, error) {
	var out []Post
	for _, p := range f.posts {
		if !p.Active {
			continue
		}
		if q.AuthorID != nil && p.AuthorID != *q.AuthorID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) CountByAuthor(ctx context.Context, conn *sql.Conn, authorID int32) (int32, error) {
	var count int32
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

type fakeAccountRetriever struct{ accounts map[int32]accountSummary }

func (f *fakeAccountRetriever) retrieveStandardAccount(meta reqmeta.Metadata, localFunction string, accountID int32) (accountSummary, error) {
	return f.accounts[accountID], nil
}

type fakeLikeCounter struct{ counts map[int32]int32 }

func (f *fakeLikeCounter) countLikesOfPost(meta reqmeta.Metadata, localFunction string, postID int32) (int32, error) {
	return f.counts[postID], nil
}

type fakeTrending struct{ processed []string }

func (f *fakeTrending) ProcessPost(meta reqmeta.Metadata, localFunction, text string) error {
	f.processed = append(f.processed, text)
	return nil
}

// fakeSession skips the real pool entirely, handing fn a nil conn that
// fakeStore never dereferences.
type fakeSession struct{}

func (fakeSession) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	return fn(nil)
}

func newTestService() (*Service, *fakeStore, *fakeTrending) {
	st := newFakeStore()
	trend := &fakeTrending{}
	svc := &Service{
		db:       fakeSession{},
		store:    st,
		account:  &fakeAccountRetriever{accounts: map[int32]accountSummary{1: {ID: 1, Username: "alice"}}},
		like:     &fakeLikeCounter{counts: map[int32]int32{}},
		trending: trend,
	}
	return svc, st, trend
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreatePost(context.Background(), reqmeta.New(1), "")
	if _, ok := err.(*InvalidAttributesException); !ok {
		t.Fatalf("expected InvalidAttributesException, got %v", err)
	}
}

func TestCreatePostRejectsOverlongText(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreatePost(context.Background(), reqmeta.New(1), strings.Repeat("a", 201))
	if _, ok := err.(*InvalidAttributesException); !ok {
		t.Fatalf("expected InvalidAttributesException, got %v", err)
	}
}

func TestCreatePostNotifiesTrending(t *testing.T) {
	svc, _, trend := newTestService()
	if _, err := svc.CreatePost(context.Background(), reqmeta.New(1), "hello #go"); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if len(trend.processed) != 1 || trend.processed[0] != "hello #go" {
		t.Fatalf("expected trending to observe the post text, got %v", trend.processed)
	}
}

func TestDeletePostRequiresAuthorship(t *testing.T) {
	svc, _, _ := newTestService()
	p, err := svc.CreatePost(context.Background(), reqmeta.New(1), "hello")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := svc.DeletePost(context.Background(), reqmeta.New(2), p.ID); err == nil {
		t.Fatalf("expected NotAuthorizedException")
	} else if _, ok := err.(*NotAuthorizedException); !ok {
		t.Fatalf("expected NotAuthorizedException, got %v", err)
	}
	if err := svc.DeletePost(context.Background(), reqmeta.New(1), p.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}

func TestCountPostsByAuthorIncludesInactivePosts(t *testing.T) {
	svc, st, _ := newTestService()
	p, err := svc.CreatePost(context.Background(), reqmeta.New(1), "hello")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := st.Deactivate(context.Background(), nil, p.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	count, err := svc.CountPostsByAuthor(context.Background(), reqmeta.New(1), 1)
	if err != nil {
		t.Fatalf("CountPostsByAuthor: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1 (inactive posts still counted), got %d", count)
	}
}

func TestRetrieveExpandedPostFillsAuthorAndLikes(t *testing.T) {
	svc, _, _ := newTestService()
	svc.like = &fakeLikeCounter{counts: map[int32]int32{1: 3}}
	p, err := svc.CreatePost(context.Background(), reqmeta.New(1), "hello")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	expanded, err := svc.RetrieveExpandedPost(context.Background(), reqmeta.New(1), p.ID)
	if err != nil {
		t.Fatalf("RetrieveExpandedPost: %v", err)
	}
	if expanded.Author == nil || expanded.Author.Username != "alice" {
		t.Fatalf("expected author alice, got %+v", expanded.Author)
	}
	if expanded.NLikes != 3 {
		t.Fatalf("expected 3 likes, got %d", expanded.NLikes)
	}
}
