package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/pkg/auth"
)

// GoogleUserInfo is the subset of Google's userinfo response we use.
type GoogleUserInfo struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
}

// GitHubUserInfo is the subset of GitHub's /user response we use.
type GitHubUserInfo struct {
	ID    int64
	Login string
	Email string
	Name  string
}

// ErrNotAdmin is returned when a signed-in identity is not on the admin list.
var ErrNotAdmin = errors.New("identity is not an admin")

// AuthService turns a provider profile into a console session.
type AuthService interface {
	SignInWithGoogle(ctx context.Context, info *GoogleUserInfo) (*model.Session, error)
	SignInWithGitHub(ctx context.Context, info *GitHubUserInfo) (*model.Session, error)
}

type authServiceImpl struct {
	sessions *SessionService
	admins   []string
}

// NewAuthService creates an AuthService. An empty admins list lets any
// signed-in identity in.
func NewAuthService(sessions *SessionService, admins []string) AuthService {
	return &authServiceImpl{sessions: sessions, admins: admins}
}

func (s *authServiceImpl) SignInWithGoogle(ctx context.Context, info *GoogleUserInfo) (*model.Session, error) {
	if info.Email == "" {
		return nil, fmt.Errorf("google profile %s has no email", info.Sub)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("google email %s is not verified", info.Email)
	}
	name := info.Name
	if name == "" {
		name = info.Email
	}
	return s.signIn(ctx, auth.Identity{Email: info.Email, Name: name, Provider: "google"})
}

func (s *authServiceImpl) SignInWithGitHub(ctx context.Context, info *GitHubUserInfo) (*model.Session, error) {
	name := info.Name
	if name == "" {
		name = info.Login
	}
	email := info.Email
	if email == "" {
		email = info.Login + "@users.noreply.github.com"
	}
	return s.signIn(ctx, auth.Identity{Email: email, Name: name, Provider: "github"})
}

func (s *authServiceImpl) signIn(ctx context.Context, id auth.Identity) (*model.Session, error) {
	if !auth.IsAdmin(s.admins, id.Email) {
		slog.Warn("sign-in refused", "email", id.Email, "provider", id.Provider)
		return nil, ErrNotAdmin
	}
	id.Email = strings.ToLower(id.Email)
	return s.sessions.CreateSession(ctx, id)
}
