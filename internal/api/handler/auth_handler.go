package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/api/metrics"
	"github.com/loadboard/access-api/internal/api/middleware"
	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// LoginLimiter bounds login attempts per (email, client IP).
type LoginLimiter interface {
	Allow(ctx context.Context, email, ip string) (bool, error)
	Reset(ctx context.Context, email, ip string) error
}

// AuthHandler exposes the session lifecycle over HTTP.
type AuthHandler struct {
	auth     ports.AuthService
	throttle LoginLimiter
	log      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, throttle LoginLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, throttle: throttle, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// profileResponse flattens the composite profile the way clients expect:
// identity fields at the top level, the rest nested.
type profileResponse struct {
	ID             string                     `json:"id"`
	Name           string                     `json:"name"`
	Email          string                     `json:"email"`
	Role           string                     `json:"role"`
	Token          string                     `json:"token"`
	Permission     *domain.Permission         `json:"permission"`
	DataAccount    *domain.DataSession        `json:"data_account"`
	AllowedDomains []domain.WhitelistedDomain `json:"allowed_domains"`
}

func newProfileResponse(p *ports.Profile) profileResponse {
	return profileResponse{
		ID:             p.User.ID,
		Name:           p.User.Name,
		Email:          p.User.Email,
		Role:           p.User.Role,
		Token:          p.Token,
		Permission:     p.Permission,
		DataAccount:    p.DataAccount,
		AllowedDomains: p.AllowedDomains,
	}
}

// Login authenticates a credential pair and issues a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	ip := c.RealIP()

	ok, err := h.throttle.Allow(ctx, req.Email, ip)
	if err != nil {
		// a broken limiter must not lock everyone out
		h.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
	} else if !ok {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return domain.ErrTooManyAttempts
	}

	profile, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	if err := h.throttle.Reset(ctx, req.Email, ip); err != nil {
		h.log.Warn().Err(err).Msg("login throttle reset failed")
	}

	return c.JSON(http.StatusOK, newProfileResponse(profile))
}

// CheckSession re-validates the caller's token and returns the same
// composite profile as login.
//
// @Summary      Check session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/check-session [post]
func (h *AuthHandler) CheckSession(c echo.Context) error {
	profile, err := h.auth.ValidateSession(c.Request().Context(), middleware.BearerToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProfileResponse(profile))
}

// Logout revokes the caller's session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), middleware.BearerToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "successfully logged out"})
}

// Ban flags a user and revokes all of their sessions.
//
// @Summary      Ban a user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /auth/ban/{userId} [post]
func (h *AuthHandler) Ban(c echo.Context) error {
	userID := c.Param("userId")
	if err := h.auth.Ban(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user " + userID + " has been banned"})
}
