package ports

import (
	"context"

	"github.com/loadboard/access-api/internal/core/domain"
)

// CreateUserInput carries the fields for admin-initiated user creation.
// Permissions, when non-nil, seeds the default profile provisioned with
// the user.
type CreateUserInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Permissions *PermissionUpdate
}

// UpdateUserInput carries a partial user update. A nil or blank Password
// leaves the stored hash untouched. Permissions, when non-nil, is applied
// to the user's profile in the same call.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	Password    *string
	Role        *string
	IsBanned    *bool
	Permissions *PermissionUpdate
}

// UserDetail is a user joined with its permission profile and the data
// session the profile references, for the admin listing.
type UserDetail struct {
	User        domain.User         `json:"user"`
	Permission  *domain.Permission  `json:"permission"`
	DataAccount *domain.DataSession `json:"data_account"`
}

// CascadeOutcome reports each step of a best-effort cascading user delete.
// The primary deletion can succeed while a cleanup step fails; callers see
// exactly which steps completed.
type CascadeOutcome struct {
	UserDeleted        bool `json:"user_deleted"`
	PermissionsDeleted bool `json:"permissions_deleted"`
	SessionsDeleted    bool `json:"sessions_deleted"`
}

// UserService covers user administration: CRUD, permission profiles, and
// session inspection.
type UserService interface {
	List(ctx context.Context) ([]UserDetail, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, userID string, in UpdateUserInput) (*UserDetail, error)
	// Delete removes the user and then its permission and sessions,
	// attempting every step even when an earlier one fails.
	Delete(ctx context.Context, userID string) (CascadeOutcome, error)

	CreatePermission(ctx context.Context, userID string, upd PermissionUpdate) (*domain.Permission, error)
	UpdatePermission(ctx context.Context, userID string, upd PermissionUpdate) (*domain.Permission, error)

	Sessions(ctx context.Context, userID string) ([]domain.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// EnsureAdmin provisions the bootstrap administrator with a full-access
	// profile. It is a no-op when a user with email already exists.
	EnsureAdmin(ctx context.Context, name, email, password string) (created bool, err error)
}
