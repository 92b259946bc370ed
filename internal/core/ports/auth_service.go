package ports

import (
	"context"

	"github.com/loadboard/access-api/internal/core/domain"
)

// Profile is the composite returned by login and session validation:
// the identity, its permission profile, the bound data account (if any),
// and the resolved whitelisted domains.
type Profile struct {
	User           *domain.User               `json:"user"`
	Token          string                     `json:"token,omitempty"`
	Permission     *domain.Permission         `json:"permission"`
	DataAccount    *domain.DataSession        `json:"data_account"`
	AllowedDomains []domain.WhitelistedDomain `json:"allowed_domains"`
}

// AuthService orchestrates the session lifecycle across the credential,
// permission, and session stores.
type AuthService interface {
	// Login verifies credentials, replaces any prior session for the user,
	// and returns a fresh token with the composite profile.
	Login(ctx context.Context, email, password string) (*Profile, error)
	// Authorize runs the full verification chain (token signature and
	// expiry, live session, user existence, ban) and returns the identity.
	// It is the check behind every protected route.
	Authorize(ctx context.Context, token string) (*domain.User, error)
	// ValidateSession is Authorize plus a last-seen refresh and profile
	// resolution; it backs the client's check-session call.
	ValidateSession(ctx context.Context, token string) (*Profile, error)
	// Logout revokes the session holding token.
	Logout(ctx context.Context, token string) error
	// Ban flags the user and revokes all of their sessions immediately.
	Ban(ctx context.Context, userID string) error
}

// Presence receives last-seen refreshes decoupled from the request path.
type Presence interface {
	Touch(userID string)
}
