package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/repository"
	"github.com/gpdecorators/site/pkg/auth"
)

// ErrInvalidSession covers unknown and expired session tokens.
var ErrInvalidSession = errors.New("invalid session")

// SessionService manages admin sessions.
// Implements auth.SessionValidator.
type SessionService struct {
	repo repository.SessionRepository
	now  func() time.Time
}

func NewSessionService(repo repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo, now: time.Now}
}

var _ auth.SessionValidator = (*SessionService)(nil)

// CreateSession stores a new opaque token for id.
func (s *SessionService) CreateSession(ctx context.Context, id auth.Identity) (*model.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	now := s.now()
	session := &model.Session{
		Token:     token,
		Email:     id.Email,
		Name:      id.Name,
		Provider:  id.Provider,
		CreatedAt: now,
		ExpiresAt: now.Add(auth.SessionDuration),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	slog.Info("admin signed in", "email", id.Email, "provider", id.Provider, "expires_at", session.ExpiresAt)
	return session, nil
}

// ValidateSession resolves token to the identity that owns it. Expired
// sessions are deleted on sight.
func (s *SessionService) ValidateSession(ctx context.Context, token string) (auth.Identity, error) {
	session, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Identity{}, ErrInvalidSession
		}
		return auth.Identity{}, fmt.Errorf("find session: %w", err)
	}
	if session.Expired(s.now()) {
		if err := s.repo.DeleteByToken(ctx, token); err != nil {
			slog.Warn("delete expired session failed", "error", err)
		}
		return auth.Identity{}, ErrInvalidSession
	}
	return auth.Identity{Email: session.Email, Name: session.Name, Provider: session.Provider}, nil
}

// DeleteSession removes a session (sign-out).
func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	return s.repo.DeleteByToken(ctx, token)
}

// PurgeExpired deletes every expired session and returns how many went.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// RunCleanup purges expired sessions every interval until ctx is done.
func (s *SessionService) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("purge expired sessions failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("purged expired sessions", "count", n)
			}
		}
	}
}
