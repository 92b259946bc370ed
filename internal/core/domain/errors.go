package domain

import "errors"

// Authentication failures. The HTTP layer collapses all of these into a
// uniform unauthorized response; the specific kind is for internal logging.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBanned         = errors.New("user is banned")
	ErrMissingToken       = errors.New("authorization token required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session expired or token invalid")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Input validation failures, reported to the caller as bad requests.
var (
	ErrInvalidRole = errors.New("role must be admin or user")
)

// Entity lookup failures.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrPermissionNotFound  = errors.New("permission not found")
	ErrDataSessionNotFound = errors.New("data session not found")
	ErrDomainNotFound      = errors.New("domain not found")
	ErrFileNotFound        = errors.New("file not found")
)

// Uniqueness violations.
var (
	ErrUserExists        = errors.New("user already exists")
	ErrPermissionExists  = errors.New("permissions for this user already exist")
	ErrDataSessionExists = errors.New("data session name or proxy already exists")
	ErrDomainExists      = errors.New("domain already whitelisted")
)
