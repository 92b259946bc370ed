package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/core/domain"
)

type stubAuthorizer struct {
	user *domain.User
	err  error

	gotToken string
}

func (s *stubAuthorizer) Authorize(_ context.Context, token string) (*domain.User, error) {
	s.gotToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestAuthGate_ValidToken(t *testing.T) {
	e := echo.New()
	auth := &stubAuthorizer{user: &domain.User{ID: "user-1", Role: domain.RoleAdmin}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(auth, zerolog.Nop())(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "user-1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("role") != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		if _, ok := c.Get("user").(*domain.User); !ok {
			t.Fatalf("user not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if auth.gotToken != "tok-123" {
		t.Fatalf("expected bearer token stripped, got %q", auth.gotToken)
	}
}

func TestAuthGate_RejectionsAreUniform(t *testing.T) {
	failures := []error{
		domain.ErrMissingToken,
		domain.ErrInvalidToken,
		domain.ErrSessionNotFound,
		domain.ErrUserBanned,
	}

	for _, failure := range failures {
		e := echo.New()
		auth := &stubAuthorizer{err: failure}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth(auth, zerolog.Nop())(func(c echo.Context) error {
			t.Fatalf("should not reach next for %v", failure)
			return nil
		})

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected HTTPError for %v, got %v", failure, err)
		}
		if httpErr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %v, got %d", failure, httpErr.Code)
		}
		// The failure reason must not leak to the caller.
		if httpErr.Message != "unauthorized" {
			t.Fatalf("expected uniform message for %v, got %v", failure, httpErr.Message)
		}
	}
}

func TestBearerToken_Formats(t *testing.T) {
	e := echo.New()

	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"abc", "abc"},
		{"Bearer  abc ", "abc"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		if got := BearerToken(c); got != tc.want {
			t.Fatalf("BearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
