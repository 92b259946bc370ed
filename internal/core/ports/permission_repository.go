package ports

import (
	"context"

	"github.com/loadboard/access-api/internal/core/domain"
)

// PermissionUpdate carries a partial update of a permission profile; nil
// fields are left untouched. DataSessionID and Domain use pointers to an
// empty string to clear the reference.
type PermissionUpdate struct {
	DataSessionID *string

	Dashboard     *bool
	SearchTrucks  *bool
	PrivateLoads  *bool
	MyLoads       *bool
	PrivateNet    *bool
	MyTrucks      *bool
	LiveSupport   *bool
	Tools         *bool
	SendFeedback  *bool
	Notifications *bool
	Profile       *bool

	SearchLoadsMultitab      *bool
	SearchLoadsNoMultitab    *int
	SearchLoadsLaneRate      *bool
	SearchLoadsViewRoute     *bool
	SearchLoadsRateview      *bool
	SearchLoadsViewDirectory *bool

	DomainIDs *[]string
	Domain    *string
}

// PermissionRepository persists per-user permission profiles. The backing
// store enforces one profile per user; Create surfaces
// domain.ErrPermissionExists on violation.
type PermissionRepository interface {
	Create(ctx context.Context, p *domain.Permission) (*domain.Permission, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Permission, error)
	UpdateByUserID(ctx context.Context, userID string, upd PermissionUpdate) (*domain.Permission, error)
	DeleteByUserID(ctx context.Context, userID string) error
	// CountByDataSession reports how many profiles reference each data session.
	CountByDataSession(ctx context.Context) (map[string]int, error)
}
