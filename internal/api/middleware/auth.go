package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/api/metrics"
	"github.com/loadboard/access-api/internal/core/domain"
)

// Authorizer is the slice of the auth service the gate needs.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*domain.User, error)
}

// Auth is the access-control gate in front of every protected route. It runs
// the full verification chain (token signature and expiry, live session,
// user existence, ban) and injects the resolved identity into the context.
// Callers always see the same unauthorized response regardless of which
// check failed; the reason goes to the log and the rejection counter.
func Auth(auth Authorizer, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := auth.Authorize(c.Request().Context(), BearerToken(c))
			if err != nil {
				metrics.GateRejectionsTotal.WithLabelValues(gateReason(err)).Inc()
				log.Warn().
					Str("reason", err.Error()).
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Msg("request rejected at gate")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("role", user.Role)

			return next(c)
		}
	}
}

// BearerToken extracts the credential from the Authorization header. Both
// the "Bearer <token>" form and a bare token are accepted; older clients
// send the token without a scheme.
func BearerToken(c echo.Context) string {
	header := strings.TrimSpace(c.Request().Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

func gateReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, domain.ErrUserBanned):
		return "banned"
	default:
		return "error"
	}
}
