package model

import "time"

// Session is a signed-in admin session. Only the opaque token travels in
// the cookie; the identity stays server-side.
type Session struct {
	Token     string
	Email     string
	Name      string
	Provider  string // "google" | "github" | "dev"
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
