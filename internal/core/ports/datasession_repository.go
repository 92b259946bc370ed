package ports

import (
	"context"

	"github.com/loadboard/access-api/internal/core/domain"
)

// DataSessionUpdate carries a partial update; nil fields are left untouched.
type DataSessionUpdate struct {
	Name       *string
	Proxy      *string
	Domain     *string
	IsLoggedIn *bool
}

// DataSessionRepository persists proxy-bound account records. Name and proxy
// are unique; violations surface as domain.ErrDataSessionExists.
type DataSessionRepository interface {
	Create(ctx context.Context, ds *domain.DataSession) (*domain.DataSession, error)
	FindByID(ctx context.Context, id string) (*domain.DataSession, error)
	List(ctx context.Context) ([]domain.DataSession, error)
	Update(ctx context.Context, id string, upd DataSessionUpdate) (*domain.DataSession, error)
	// SetFileName records the attached bundle; an empty name clears it.
	SetFileName(ctx context.Context, id, fileName string) (*domain.DataSession, error)
	Delete(ctx context.Context, id string) error
}

// WhitelistRepository persists approved domain names (unique).
type WhitelistRepository interface {
	Create(ctx context.Context, d *domain.WhitelistedDomain) (*domain.WhitelistedDomain, error)
	List(ctx context.Context) ([]domain.WhitelistedDomain, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.WhitelistedDomain, error)
	Update(ctx context.Context, id, name string) (*domain.WhitelistedDomain, error)
	Delete(ctx context.Context, id string) error
}
