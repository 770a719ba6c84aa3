package storage

import (
	"context"

	"github.com/ftpong/pong-server/internal/model"
)

// Store archives finished matches. Session state itself is in-memory only;
// the archive is the only thing that survives a session's teardown.
type Store interface {
	// SaveMatch archives a finished match summary
	SaveMatch(ctx context.Context, summary *model.MatchSummary) error

	// ListMatches returns the most recently finished matches, newest first
	ListMatches(ctx context.Context, limit int) ([]*model.MatchSummary, error)
}
