package wordfilter

import (
	"context"
	"math/rand"

	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcproto"
	"github.com/rodrigoalveslima/BuzzBlog/internal/rpcserver"
)

const ServiceName = "wordfilter"

const randomWordLength = 11

const alphanum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Service holds the seeded invalid-word list. It has no concurrent writers
// after construction, so is_valid_word reads the map without locking.
type Service struct {
	invalidWords map[string]struct{}
}

// NewService seeds the invalid word list the way the source does: when
// nInvalidWords > 0, the set always contains the literal "corinthians",
// padded out with nInvalidWords-1 random alphanumeric strings.
func NewService(nInvalidWords int) *Service {
	words := map[string]struct{}{}
	if nInvalidWords > 0 {
		words["corinthians"] = struct{}{}
	}
	for i := 0; i < nInvalidWords-1; i++ {
		words[randomString(randomWordLength)] = struct{}{}
	}
	return &Service{invalidWords: words}
}

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanum[rand.Intn(len(alphanum))]
	}
	return string(b)
}

func (s *Service) IsValidWord(word string) bool {
	_, invalid := s.invalidWords[word]
	return !invalid
}

func (s *Service) Register(srv *rpcserver.Server) {
	srv.Register("is_valid_word", s.handleIsValidWord)
}

func (s *Service) handleIsValidWord(ctx context.Context, r *rpcproto.Reader) (any, rpcproto.DomainException, error) {
	var req IsValidWordRequest
	if err := rpcproto.Decode(r, &req); err != nil {
		return nil, nil, err
	}
	return &IsValidWordReply{Valid: s.IsValidWord(req.Word)}, nil, nil
}
