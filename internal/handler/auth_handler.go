package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/internal/view"
	"github.com/gpdecorators/site/pkg/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookieName = "oauth_state"
	oauthNextCookieName  = "oauth_next"
	signInPath           = "/admin/signin"
	defaultAfterSignIn   = "/admin"
)

var githubEndpoint = oauth2.Endpoint{
	AuthURL:  "https://github.com/login/oauth/authorize",
	TokenURL: "https://github.com/login/oauth/access_token",
}

// generateOAuthState returns a random state value for the OAuth round trip.
func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func setShortCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// verifyOAuthState compares the state cookie with the callback's query.
func verifyOAuthState(r *http.Request) bool {
	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == r.URL.Query().Get("state")
}

// safeNext accepts only local admin paths as a post sign-in target.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/admin") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n") || strings.HasPrefix(next, signInPath) {
		return defaultAfterSignIn
	}
	return next
}

// SessionEnder deletes a session on sign-out.
type SessionEnder interface {
	DeleteSession(ctx context.Context, token string) error
}

// ConsoleDropper forgets the console state of a session.
type ConsoleDropper interface {
	Drop(sessionToken string)
}

// AuthConfig configures the OAuth providers. A provider without a client
// id is not offered.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string
	// PublicURL is the externally visible base URL used for redirect URIs.
	PublicURL string
	Secure    bool

	// Endpoint overrides, used by tests.
	GoogleEndpoint    *oauth2.Endpoint
	GitHubEndpoint    *oauth2.Endpoint
	GoogleUserInfoURL string
	GitHubAPIURL      string
}

type provider struct {
	name    string
	label   string
	oauth   *oauth2.Config
	signIn  func(ctx context.Context, client *http.Client) (*model.Session, error)
	enabled bool
}

// AuthHandler runs the admin sign-in flow.
type AuthHandler struct {
	authService service.AuthService
	sessions    SessionEnder
	consoles    ConsoleDropper
	view        Renderer
	secure      bool
	providers   map[string]*provider
	order       []string

	googleUserInfoURL string
	githubAPIURL      string
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService service.AuthService, sessions SessionEnder, consoles ConsoleDropper, v Renderer, cfg AuthConfig) *AuthHandler {
	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	h := &AuthHandler{
		authService:       authService,
		sessions:          sessions,
		consoles:          consoles,
		view:              v,
		secure:            cfg.Secure,
		providers:         map[string]*provider{},
		order:             []string{"google", "github"},
		googleUserInfoURL: cfg.GoogleUserInfoURL,
		githubAPIURL:      strings.TrimRight(cfg.GitHubAPIURL, "/"),
	}
	if h.googleUserInfoURL == "" {
		h.googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	}
	if h.githubAPIURL == "" {
		h.githubAPIURL = "https://api.github.com"
	}

	googleEndpoint := google.Endpoint
	if cfg.GoogleEndpoint != nil {
		googleEndpoint = *cfg.GoogleEndpoint
	}
	ghEndpoint := githubEndpoint
	if cfg.GitHubEndpoint != nil {
		ghEndpoint = *cfg.GitHubEndpoint
	}

	h.providers["google"] = &provider{
		name:  "google",
		label: "Google",
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  base + "/auth/google/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     googleEndpoint,
		},
		signIn:  h.googleSignIn,
		enabled: cfg.GoogleClientID != "",
	}
	h.providers["github"] = &provider{
		name:  "github",
		label: "GitHub",
		oauth: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  base + "/auth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     ghEndpoint,
		},
		signIn:  h.githubSignIn,
		enabled: cfg.GitHubClientID != "",
	}
	return h
}

func (h *AuthHandler) provider(r *http.Request) (*provider, bool) {
	p, ok := h.providers[r.PathValue("provider")]
	if !ok || !p.enabled {
		return nil, false
	}
	return p, true
}

type providerLink struct {
	Name string
	URL  string
}

type signInData struct {
	Providers []providerLink
	Error     string
}

var signInErrors = map[string]string{
	"invalid_state":   "Your sign-in attempt expired. Please try again.",
	"no_code":         "Sign-in was cancelled.",
	"exchange_failed": "Could not complete sign-in with the provider.",
	"profile_failed":  "Could not read your profile from the provider.",
	"not_admin":       "This account is not allowed to open the admin console.",
	"session_failed":  "Could not start a session. Please try again.",
}

// SignIn handles GET /admin/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	data := signInData{Error: signInErrors[r.URL.Query().Get("error")]}
	for _, name := range h.order {
		p := h.providers[name]
		if !p.enabled {
			continue
		}
		link := "/auth/" + name + "/login"
		if next != "" {
			link += "?next=" + url.QueryEscape(safeNext(next))
		}
		data.Providers = append(data.Providers, providerLink{Name: p.label, URL: link})
	}
	h.view.Render(w, r, http.StatusOK, "signin", view.Page{Title: "Admin sign in", Nav: "admin", Data: data})
}

// Login handles GET /auth/{provider}/login by redirecting to the provider.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(r)
	if !ok {
		renderError(h.view, w, r, http.StatusNotFound, "Unknown sign-in provider.")
		return
	}
	state := generateOAuthState()
	setShortCookie(w, oauthStateCookieName, state, h.secure)
	setShortCookie(w, oauthNextCookieName, safeNext(r.URL.Query().Get("next")), h.secure)
	http.Redirect(w, r, p.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/{provider}/callback.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(r)
	if !ok {
		renderError(h.view, w, r, http.StatusNotFound, "Unknown sign-in provider.")
		return
	}
	valid := verifyOAuthState(r)
	clearCookie(w, oauthStateCookieName)
	if !valid {
		h.failSignIn(w, r, p, "invalid_state", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.failSignIn(w, r, p, "no_code", nil)
		return
	}

	token, err := p.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.failSignIn(w, r, p, "exchange_failed", err)
		return
	}

	session, err := p.signIn(r.Context(), p.oauth.Client(r.Context(), token))
	if err != nil {
		reason := "session_failed"
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			reason = "not_admin"
		case errors.Is(err, errProfile):
			reason = "profile_failed"
		}
		h.failSignIn(w, r, p, reason, err)
		return
	}

	auth.SetSessionCookie(w, session.Token, h.secure)
	next := defaultAfterSignIn
	if c, err := r.Cookie(oauthNextCookieName); err == nil {
		next = safeNext(c.Value)
	}
	clearCookie(w, oauthNextCookieName)
	slog.Info("admin signed in", "provider", p.name, "email", session.Email)
	http.Redirect(w, r, next, http.StatusFound)
}

func (h *AuthHandler) failSignIn(w http.ResponseWriter, r *http.Request, p *provider, reason string, err error) {
	slog.Warn("sign-in failed", "provider", p.name, "reason", reason, "error", err)
	http.Redirect(w, r, signInPath+"?error="+reason, http.StatusFound)
}

var errProfile = errors.New("profile request failed")

func getJSON(ctx context.Context, client *http.Client, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errProfile, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %d", errProfile, target, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", errProfile, target, err)
	}
	return nil
}

func (h *AuthHandler) googleSignIn(ctx context.Context, client *http.Client) (*model.Session, error) {
	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := getJSON(ctx, client, h.googleUserInfoURL, &info); err != nil {
		return nil, err
	}
	return h.authService.SignInWithGoogle(ctx, &service.GoogleUserInfo{
		Sub:           info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
	})
}

func (h *AuthHandler) githubSignIn(ctx context.Context, client *http.Client) (*model.Session, error) {
	var info struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := getJSON(ctx, client, h.githubAPIURL+"/user", &info); err != nil {
		return nil, err
	}

	// Private addresses are missing from /user; ask /user/emails instead.
	if info.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, h.githubAPIURL+"/user/emails", &emails); err != nil {
			slog.Info("github emails unavailable", "login", info.Login, "error", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				info.Email = e.Email
				break
			}
		}
	}

	return h.authService.SignInWithGitHub(ctx, &service.GitHubUserInfo{
		ID:    info.ID,
		Login: info.Login,
		Email: info.Email,
		Name:  info.Name,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.SessionCookieName()); err == nil && c.Value != "" {
		if err := h.sessions.DeleteSession(r.Context(), c.Value); err != nil {
			slog.Warn("delete session on logout", "error", err)
		}
		h.consoles.Drop(c.Value)
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
