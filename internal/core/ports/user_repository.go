package ports

import (
	"context"
	"time"

	"github.com/loadboard/access-api/internal/core/domain"
)

// UserUpdate carries a partial update; nil fields are left untouched.
// PasswordHash must already be hashed by the caller.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
	IsBanned     *bool
}

// UserRepository persists user identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
	SetBanned(ctx context.Context, id string, banned bool) error
	// TouchOnline refreshes the user's last-seen marker.
	TouchOnline(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
