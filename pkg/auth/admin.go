package auth

import (
	"net/http"
	"strings"
)

// ParseAdminEmails splits a comma-separated ADMIN_EMAILS value.
func ParseAdminEmails(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// IsAdmin reports whether email is on the admin list. An empty list admits
// everyone.
func IsAdmin(admins []string, email string) bool {
	if len(admins) == 0 {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range admins {
		if strings.ToLower(a) == email {
			return true
		}
	}
	return false
}

// RequireAdmin narrows the signed-in gate to the listed emails. An empty
// list lets every signed-in identity through.
func RequireAdmin(emails []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(emails) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			id, ok := IdentityFromContext(r.Context())
			if !ok || !IsAdmin(emails, id.Email) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
