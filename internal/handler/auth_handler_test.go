package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gpdecorators/site/internal/model"
	"github.com/gpdecorators/site/internal/service"
	"github.com/gpdecorators/site/pkg/auth"
	"golang.org/x/oauth2"
)

// fakeProvider serves the token endpoint and the profile APIs of both
// providers.
func fakeProvider(t *testing.T, googleProfile, githubUser, githubEmails any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access", "token_type": "Bearer", "expires_in": 3600})
	})
	writeJSON := func(v any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(v)
		}
	}
	mux.HandleFunc("GET /userinfo", writeJSON(googleProfile))
	mux.HandleFunc("GET /user", writeJSON(githubUser))
	mux.HandleFunc("GET /user/emails", writeJSON(githubEmails))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type authFixture struct {
	handler  *AuthHandler
	mux      *http.ServeMux
	view     *recordingRenderer
	sessions *mockSessionEnder
	consoles *mockDropper
}

func newAuthFixture(svc service.AuthService, providerURL string) *authFixture {
	ep := &oauth2.Endpoint{AuthURL: providerURL + "/authorize", TokenURL: providerURL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	f := &authFixture{view: &recordingRenderer{}, sessions: &mockSessionEnder{}, consoles: &mockDropper{}}
	f.handler = NewAuthHandler(svc, f.sessions, f.consoles, f.view, AuthConfig{
		GoogleClientID:     "google-client-id",
		GoogleClientSecret: "google-secret",
		GitHubClientID:     "github-client-id",
		GitHubClientSecret: "github-secret",
		PublicURL:          "https://gpdecorators.example",
		GoogleEndpoint:     ep,
		GitHubEndpoint:     ep,
		GoogleUserInfoURL:  providerURL + "/userinfo",
		GitHubAPIURL:       providerURL,
	})
	f.mux = http.NewServeMux()
	f.mux.HandleFunc("GET /admin/signin", f.handler.SignIn)
	f.mux.HandleFunc("GET /auth/{provider}/login", f.handler.Login)
	f.mux.HandleFunc("GET /auth/{provider}/callback", f.handler.Callback)
	f.mux.HandleFunc("POST /auth/logout", f.handler.Logout)
	return f
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// callback performs the provider callback with a matching state cookie.
func (f *authFixture) callback(provider, next string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/auth/"+provider+"/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "s1"})
	if next != "" {
		req.AddCookie(&http.Cookie{Name: oauthNextCookieName, Value: next})
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_LoginRedirectsWithState(t *testing.T) {
	f := newAuthFixture(&mockAuthService{}, "https://provider.example")

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/google/login?next=/admin/events", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	state := findCookie(rec, oauthStateCookieName)
	if state == nil || state.Value == "" || !state.HttpOnly {
		t.Fatalf("expected random HttpOnly state cookie, got %+v", state)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Query().Get("state") != state.Value {
		t.Errorf("state mismatch between cookie and redirect")
	}
	if got := loc.Query().Get("redirect_uri"); got != "https://gpdecorators.example/auth/google/callback" {
		t.Errorf("unexpected redirect_uri %q", got)
	}
	if next := findCookie(rec, oauthNextCookieName); next == nil || next.Value != "/admin/events" {
		t.Errorf("expected next cookie, got %+v", next)
	}
}

func TestAuthHandler_UnknownOrDisabledProvider(t *testing.T) {
	f := newAuthFixture(&mockAuthService{}, "https://provider.example")
	f.handler.providers["github"].enabled = false

	for _, target := range []string{"/auth/twitter/login", "/auth/github/login"} {
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rec.Code)
		}
	}
}

func TestAuthHandler_CallbackRejectsStateMismatch(t *testing.T) {
	f := newAuthFixture(&mockAuthService{}, "https://provider.example")

	tests := []struct {
		name   string
		cookie string
	}{
		{"mismatch", "correct-state"},
		{"missing cookie", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/auth/google/callback?code=abc&state=wrong-state", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			f.mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/admin/signin?error=invalid_state" {
				t.Errorf("unexpected redirect %q", loc)
			}
		})
	}
}

func TestAuthHandler_GoogleCallbackCreatesSession(t *testing.T) {
	srv := fakeProvider(t,
		map[string]any{"sub": "g-1", "email": "Owner@Example.com", "email_verified": true, "name": "Owner"},
		nil, nil)
	var got *service.GoogleUserInfo
	svc := &mockAuthService{googleFunc: func(_ context.Context, info *service.GoogleUserInfo) (*model.Session, error) {
		got = info
		return &model.Session{Token: "tok-1", Email: "owner@example.com"}, nil
	}}
	f := newAuthFixture(svc, srv.URL)

	rec := f.callback("google", "/admin/testimonials")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/testimonials" {
		t.Errorf("expected redirect to next, got %q", loc)
	}
	if got == nil || got.Sub != "g-1" || !got.EmailVerified {
		t.Fatalf("unexpected profile %+v", got)
	}
	if c := findCookie(rec, auth.SessionCookieName()); c == nil || c.Value != "tok-1" {
		t.Errorf("expected session cookie, got %+v", c)
	}
}

func TestAuthHandler_GitHubCallbackFallsBackToEmailsAPI(t *testing.T) {
	srv := fakeProvider(t, nil,
		map[string]any{"id": 42, "login": "gpflowers", "email": nil, "name": ""},
		[]map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "owner@example.com", "primary": true, "verified": true},
		})
	var got *service.GitHubUserInfo
	svc := &mockAuthService{githubFunc: func(_ context.Context, info *service.GitHubUserInfo) (*model.Session, error) {
		got = info
		return &model.Session{Token: "tok-2"}, nil
	}}
	f := newAuthFixture(svc, srv.URL)

	rec := f.callback("github", "")

	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("expected default redirect, got %q", loc)
	}
	if got == nil || got.Email != "owner@example.com" || got.Login != "gpflowers" {
		t.Errorf("unexpected profile %+v", got)
	}
}

func TestAuthHandler_CallbackRefusesNonAdmin(t *testing.T) {
	srv := fakeProvider(t, map[string]any{"sub": "g-2", "email": "stranger@example.com", "email_verified": true}, nil, nil)
	svc := &mockAuthService{googleFunc: func(context.Context, *service.GoogleUserInfo) (*model.Session, error) {
		return nil, service.ErrNotAdmin
	}}
	f := newAuthFixture(svc, srv.URL)

	rec := f.callback("google", "")

	if loc := rec.Header().Get("Location"); loc != "/admin/signin?error=not_admin" {
		t.Errorf("unexpected redirect %q", loc)
	}
	if c := findCookie(rec, auth.SessionCookieName()); c != nil && c.Value != "" {
		t.Error("no session cookie should be set")
	}
}

func TestAuthHandler_SignInListsProviders(t *testing.T) {
	f := newAuthFixture(&mockAuthService{}, "https://provider.example")
	f.handler.providers["github"].enabled = false

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/signin?next=/admin/contacts&error=invalid_state", nil))

	data := f.view.page.Data.(signInData)
	if len(data.Providers) != 1 || data.Providers[0].Name != "Google" {
		t.Fatalf("unexpected providers %+v", data.Providers)
	}
	if !strings.Contains(data.Providers[0].URL, "next=%2Fadmin%2Fcontacts") {
		t.Errorf("expected next carried into login link, got %q", data.Providers[0].URL)
	}
	if data.Error == "" {
		t.Error("expected error text for invalid_state")
	}
}

func TestAuthHandler_LogoutEndsSession(t *testing.T) {
	f := newAuthFixture(&mockAuthService{}, "https://provider.example")
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName(), Value: "tok-9"})
	rec := httptest.NewRecorder()

	f.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(f.sessions.deleted) != 1 || f.sessions.deleted[0] != "tok-9" {
		t.Errorf("expected session deleted, got %v", f.sessions.deleted)
	}
	if len(f.consoles.dropped) != 1 || f.consoles.dropped[0] != "tok-9" {
		t.Errorf("expected console dropped, got %v", f.consoles.dropped)
	}
	if c := findCookie(rec, auth.SessionCookieName()); c == nil || c.MaxAge >= 0 {
		t.Errorf("expected session cookie cleared, got %+v", c)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                  "/admin",
		"/admin/events":     "/admin/events",
		"https://evil.test": "/admin",
		"//evil.test/admin": "/admin",
		"/admin/signin":     "/admin",
		"/about":            "/admin",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
