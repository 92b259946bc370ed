package domain

import "time"

// SessionTTL is the absolute lifetime of an auth session. Tokens carry the
// same expiry; the store additionally expires session documents after it.
const SessionTTL = 8 * time.Hour

// Session binds a bearer token to a user. At most one live session exists per
// user: a new login replaces any prior one. Logout revokes in place
// (IsActive=false); validation treats revoked and absent identically.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session has outlived SessionTTL at time now.
// Reads must not rely on the store's background expiry having run.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= SessionTTL
}
