package auth

import (
	"context"
	"net/http"
	"net/url"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "session_token"
)

// Identity is who the identity provider says is signed in.
type Identity struct {
	Email    string
	Name     string
	Provider string
}

// SessionValidator resolves a session token to the signed-in identity.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (Identity, error)
}

// WithIdentity stores the signed-in identity and its session token in ctx.
func WithIdentity(ctx context.Context, id Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, id)
	return context.WithValue(ctx, tokenKey, token)
}

// IdentityFromContext returns the signed-in identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// SessionTokenFromContext returns the token of the current session.
func SessionTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// RequireSignIn is the "signed in" gate. Requests without a valid session
// are redirected to signInPath with the original path in ?next=.
func RequireSignIn(sv SessionValidator, signInPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil || cookie.Value == "" {
				redirectToSignIn(w, r, signInPath)
				return
			}

			id, err := sv.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				ClearSessionCookie(w)
				redirectToSignIn(w, r, signInPath)
				return
			}

			ctx := WithIdentity(r.Context(), id, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToSignIn(w http.ResponseWriter, r *http.Request, signInPath string) {
	target := signInPath
	if r.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// DevIdentity is installed by DevAuth (AUTH_REQUIRED=false).
var DevIdentity = Identity{Email: "dev@localhost", Name: "Developer", Provider: "dev"}

// DevSessionToken keys the development console state.
const DevSessionToken = "dev-session"

// DevAuth is development middleware that signs every request in as DevIdentity.
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIdentity(r.Context(), DevIdentity, DevSessionToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
