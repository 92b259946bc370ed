package ports

import (
	"context"

	"github.com/loadboard/access-api/internal/core/domain"
)

// SessionRepository persists auth sessions.
//
// Replace swaps in the given session for its user, discarding any prior
// one. Implementations must guarantee at most one session per user survives
// even under concurrent calls — the two-step delete-then-insert enforcement
// of the single-session policy is not an acceptable implementation.
type SessionRepository interface {
	Replace(ctx context.Context, s *domain.Session) (*domain.Session, error)
	// FindActive returns the live session for (userID, token). Revoked,
	// expired, and absent sessions are all domain.ErrSessionNotFound.
	FindActive(ctx context.Context, userID, token string) (*domain.Session, error)
	// Revoke marks the session holding token inactive. Revoking an unknown
	// token is not an error.
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
