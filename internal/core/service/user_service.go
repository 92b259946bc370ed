package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// UserService covers admin-facing user management: CRUD, permission
// profiles, session inspection, and the bootstrap administrator.
type UserService struct {
	users    ports.UserRepository
	perms    ports.PermissionRepository
	sessions ports.SessionRepository
	dataSess ports.DataSessionRepository
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	perms ports.PermissionRepository,
	sessions ports.SessionRepository,
	dataSess ports.DataSessionRepository,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		perms:    perms,
		sessions: sessions,
		dataSess: dataSess,
		log:      log,
	}
}

// List returns every user joined with its permission profile and the data
// session the profile references.
func (s *UserService) List(ctx context.Context) ([]ports.UserDetail, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]ports.UserDetail, 0, len(users))
	for i := range users {
		detail := ports.UserDetail{User: users[i]}

		perm, err := s.perms.FindByUserID(ctx, users[i].ID)
		switch {
		case err == nil:
			detail.Permission = perm
			if perm.DataSessionID != "" {
				ds, err := s.dataSess.FindByID(ctx, perm.DataSessionID)
				if err == nil {
					detail.DataAccount = ds
				} else if !errors.Is(err, domain.ErrDataSessionNotFound) {
					return nil, err
				}
			}
		case errors.Is(err, domain.ErrPermissionNotFound):
			// users without a profile still appear in the listing
		default:
			return nil, err
		}

		details = append(details, detail)
	}
	return details, nil
}

// Create provisions a new user together with its default permission profile.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	})
	if err != nil {
		return nil, err
	}

	seed := &domain.Permission{UserID: user.ID}
	if in.Permissions != nil {
		applyPermissionUpdate(seed, *in.Permissions)
	}
	if _, err := s.perms.Create(ctx, seed); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("default permission provisioning failed")
		return nil, err
	}

	return user, nil
}

// Update applies a partial user update. A blank password leaves the stored
// hash untouched; a non-blank one is re-hashed. Permission changes, when
// present, are applied to the user's profile in the same call.
func (s *UserService) Update(ctx context.Context, userID string, in ports.UpdateUserInput) (*ports.UserDetail, error) {
	upd := ports.UserUpdate{
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		IsBanned: in.IsBanned,
	}
	if in.Role != nil && !domain.ValidRole(*in.Role) {
		return nil, domain.ErrInvalidRole
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		upd.PasswordHash = &hashed
	}

	user, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}

	detail := &ports.UserDetail{User: *user}
	if in.Permissions != nil {
		perm, err := s.perms.UpdateByUserID(ctx, userID, *in.Permissions)
		if err != nil {
			return nil, err
		}
		detail.Permission = perm
	}
	return detail, nil
}

// Delete removes the user, then its permission profile and sessions. The
// store does not cascade, so every step is attempted independently; a
// cleanup failure is reported in the outcome but does not undo the primary
// deletion.
func (s *UserService) Delete(ctx context.Context, userID string) (ports.CascadeOutcome, error) {
	var out ports.CascadeOutcome

	if err := s.users.Delete(ctx, userID); err != nil {
		return out, err
	}
	out.UserDeleted = true

	if err := s.perms.DeleteByUserID(ctx, userID); err != nil && !errors.Is(err, domain.ErrPermissionNotFound) {
		s.log.Error().Err(err).Str("user_id", userID).Msg("cascade: permission delete failed")
	} else {
		out.PermissionsDeleted = true
	}

	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("cascade: session delete failed")
	} else {
		out.SessionsDeleted = true
	}

	return out, nil
}

// CreatePermission creates a profile for userID. The store's uniqueness
// guarantee makes a second profile for the same user a conflict.
func (s *UserService) CreatePermission(ctx context.Context, userID string, upd ports.PermissionUpdate) (*domain.Permission, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	perm := &domain.Permission{UserID: userID}
	applyPermissionUpdate(perm, upd)
	return s.perms.Create(ctx, perm)
}

// UpdatePermission applies a partial update to the user's profile. Field
// bounds are enforced at the request boundary.
func (s *UserService) UpdatePermission(ctx context.Context, userID string, upd ports.PermissionUpdate) (*domain.Permission, error) {
	return s.perms.UpdateByUserID(ctx, userID, upd)
}

// Sessions lists the auth sessions recorded for userID.
func (s *UserService) Sessions(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// DeleteSession hard-deletes a single session by its id.
func (s *UserService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteByID(ctx, sessionID)
}

// EnsureAdmin provisions the bootstrap administrator with a full-access
// profile. It is idempotent: when a user with email already exists nothing
// is written.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return false, err
	}

	if _, err := s.perms.Create(ctx, domain.FullAccess(user.ID)); err != nil {
		return false, err
	}

	s.log.Info().Str("email", email).Msg("bootstrap admin created")
	return true, nil
}

// applyPermissionUpdate copies the set fields of upd onto p.
func applyPermissionUpdate(p *domain.Permission, upd ports.PermissionUpdate) {
	if upd.DataSessionID != nil {
		p.DataSessionID = *upd.DataSessionID
	}
	if upd.Dashboard != nil {
		p.Dashboard = *upd.Dashboard
	}
	if upd.SearchTrucks != nil {
		p.SearchTrucks = *upd.SearchTrucks
	}
	if upd.PrivateLoads != nil {
		p.PrivateLoads = *upd.PrivateLoads
	}
	if upd.MyLoads != nil {
		p.MyLoads = *upd.MyLoads
	}
	if upd.PrivateNet != nil {
		p.PrivateNet = *upd.PrivateNet
	}
	if upd.MyTrucks != nil {
		p.MyTrucks = *upd.MyTrucks
	}
	if upd.LiveSupport != nil {
		p.LiveSupport = *upd.LiveSupport
	}
	if upd.Tools != nil {
		p.Tools = *upd.Tools
	}
	if upd.SendFeedback != nil {
		p.SendFeedback = *upd.SendFeedback
	}
	if upd.Notifications != nil {
		p.Notifications = *upd.Notifications
	}
	if upd.Profile != nil {
		p.Profile = *upd.Profile
	}
	if upd.SearchLoadsMultitab != nil {
		p.SearchLoadsMultitab = *upd.SearchLoadsMultitab
	}
	if upd.SearchLoadsNoMultitab != nil {
		p.SearchLoadsNoMultitab = *upd.SearchLoadsNoMultitab
	}
	if upd.SearchLoadsLaneRate != nil {
		p.SearchLoadsLaneRate = *upd.SearchLoadsLaneRate
	}
	if upd.SearchLoadsViewRoute != nil {
		p.SearchLoadsViewRoute = *upd.SearchLoadsViewRoute
	}
	if upd.SearchLoadsRateview != nil {
		p.SearchLoadsRateview = *upd.SearchLoadsRateview
	}
	if upd.SearchLoadsViewDirectory != nil {
		p.SearchLoadsViewDirectory = *upd.SearchLoadsViewDirectory
	}
	if upd.DomainIDs != nil {
		p.DomainIDs = *upd.DomainIDs
	}
	if upd.Domain != nil {
		p.Domain = *upd.Domain
	}
}
