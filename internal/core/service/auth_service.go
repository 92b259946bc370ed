package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/loadboard/access-api/internal/api/metrics"
	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// AuthService implements login, session validation, logout, and ban
// enforcement across the credential, permission, and session stores.
type AuthService struct {
	users     ports.UserRepository
	perms     ports.PermissionRepository
	sessions  ports.SessionRepository
	dataSess  ports.DataSessionRepository
	whitelist ports.WhitelistRepository
	presence  ports.Presence
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	perms ports.PermissionRepository,
	sessions ports.SessionRepository,
	dataSess ports.DataSessionRepository,
	whitelist ports.WhitelistRepository,
	presence ports.Presence,
	jwtSecret string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		perms:     perms,
		sessions:  sessions,
		dataSess:  dataSess,
		whitelist: whitelist,
		presence:  presence,
		jwtSecret: jwtSecret,
		tokenTTL:  domain.SessionTTL,
		log:       log,
	}
}

// Login verifies the credential pair and issues a fresh session. Any prior
// session for the user is replaced in the same store operation, so a second
// login invalidates the first token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Profile, error) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	// Ban is checked after the credential match so a wrong-password attempt
	// cannot probe ban status.
	if user.IsBanned {
		metrics.LoginsTotal.WithLabelValues("banned").Inc()
		return nil, domain.ErrUserBanned
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		UserID:    user.ID,
		Token:     token,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.sessions.Replace(ctx, sess); err != nil {
		return nil, err
	}

	profile, err := s.resolveProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	profile.Token = token

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user logged in")
	return profile, nil
}

// Authorize runs the verification chain shared by every protected route:
// token signature and expiry, live session, user existence, ban.
func (s *AuthService) Authorize(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	userID, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.FindActive(ctx, userID, token)
	if err != nil {
		return nil, err
	}
	// The store expires session documents on its own schedule; reads must
	// not depend on that sweep having run.
	if sess.Expired(time.Now().UTC()) {
		return nil, domain.ErrSessionNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		// A session whose user has since been deleted is indistinguishable
		// from any other dead session to the caller.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, domain.ErrUserBanned
	}

	return user, nil
}

// ValidateSession backs the client's check-session call: the Authorize chain
// plus a last-seen refresh and full profile resolution.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*ports.Profile, error) {
	user, err := s.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	s.presence.Touch(user.ID)

	profile, err := s.resolveProfile(ctx, user)
	if err != nil {
		// A user stripped of their permission record mid-session reads as a
		// dead session, not as a lookup failure.
		if errors.Is(err, domain.ErrPermissionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	profile.Token = token
	return profile, nil
}

// Logout revokes the session holding token in place. Validation treats a
// revoked session exactly like an absent one.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrMissingToken
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.WithLabelValues("logout").Inc()
	return nil
}

// Ban flags the user and revokes all of their sessions, cutting access
// immediately regardless of token expiry.
func (s *AuthService) Ban(ctx context.Context, userID string) error {
	if err := s.users.SetBanned(ctx, userID, true); err != nil {
		return err
	}
	if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.WithLabelValues("ban").Inc()
	s.log.Info().Str("user_id", userID).Msg("user banned, sessions revoked")
	return nil
}

// resolveProfile assembles the composite returned by login and validation.
// A missing data session reference yields a nil data account; an empty
// domain set yields an empty result.
func (s *AuthService) resolveProfile(ctx context.Context, user *domain.User) (*ports.Profile, error) {
	perm, err := s.perms.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var account *domain.DataSession
	if perm.DataSessionID != "" {
		account, err = s.dataSess.FindByID(ctx, perm.DataSessionID)
		if err != nil && !errors.Is(err, domain.ErrDataSessionNotFound) {
			return nil, err
		}
	}

	allowed := []domain.WhitelistedDomain{}
	if len(perm.DomainIDs) > 0 {
		allowed, err = s.whitelist.FindByIDs(ctx, perm.DomainIDs)
		if err != nil {
			return nil, err
		}
	}

	return &ports.Profile{
		User:           user,
		Permission:     perm,
		DataAccount:    account,
		AllowedDomains: allowed,
	}, nil
}

func (s *AuthService) generateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// parseToken verifies signature and expiry and extracts the userId claim.
// Every verification failure collapses to ErrInvalidToken.
func (s *AuthService) parseToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}
