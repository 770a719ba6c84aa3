package memory

import (
	"context"
	"sync"

	"github.com/ftpong/pong-server/internal/model"
	"github.com/ftpong/pong-server/internal/storage"
)

// Storage is an in-memory implementation of the match archive
type Storage struct {
	mu      sync.RWMutex
	matches []*model.MatchSummary
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, match *model.MatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, match)
	return nil
}

// ListMatches returns archived matches, most recent first. A limit of zero
// or less means no limit.
func (s *Storage) ListMatches(ctx context.Context, limit int) ([]*model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.matches)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]*model.MatchSummary, 0, n)
	for i := len(s.matches) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.matches[i])
	}
	return out, nil
}
