package ports

import (
	"context"
	"io"

	"github.com/loadboard/access-api/internal/core/domain"
)

// CreateDataSessionInput carries the fields for data session creation.
type CreateDataSessionInput struct {
	Name   string
	Proxy  string
	Domain string
}

// DataSessionService manages proxy-bound account records and their attached
// bundle files.
type DataSessionService interface {
	// List returns all data sessions with their referencing-user counts.
	List(ctx context.Context) ([]domain.DataSession, error)
	Get(ctx context.Context, id string) (*domain.DataSession, error)
	Create(ctx context.Context, in CreateDataSessionInput) (*domain.DataSession, error)
	Update(ctx context.Context, id string, upd DataSessionUpdate) (*domain.DataSession, error)
	// Delete removes the record and its attached bundle file, if any.
	Delete(ctx context.Context, id string) error

	// AttachBundle stores an uploaded bundle for the session, deleting any
	// previously attached file.
	AttachBundle(ctx context.Context, id, name string, r io.Reader) (*domain.DataSession, error)
	// DetachBundle removes the attached file and clears the reference.
	DetachBundle(ctx context.Context, id string) (*domain.DataSession, error)
}

// WhitelistService manages the approved-domain list.
type WhitelistService interface {
	List(ctx context.Context) ([]domain.WhitelistedDomain, error)
	Create(ctx context.Context, name string) (*domain.WhitelistedDomain, error)
	Update(ctx context.Context, id, name string) (*domain.WhitelistedDomain, error)
	Delete(ctx context.Context, id string) error
}
