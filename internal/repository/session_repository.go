package repository

import (
	"context"
	"time"

	"github.com/gpdecorators/site/internal/model"
)

// SessionRepository handles persistence for admin sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// FindByToken returns ErrNotFound when no session has the token.
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	// DeleteExpired removes sessions that expired before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
