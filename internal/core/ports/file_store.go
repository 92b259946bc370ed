package ports

import (
	"context"
	"io"
)

// FileNamespace is a logical storage area. Bundles are the per-data-session
// uploads; updates are the application update artifacts.
type FileNamespace string

const (
	NamespaceBundles FileNamespace = "bundles"
	NamespaceUpdates FileNamespace = "updates"
)

// FileStore is the storage collaborator for uploaded files.
type FileStore interface {
	// Save stores r under ns with a generated unique name derived from the
	// original name's extension; it returns the stored name.
	Save(ctx context.Context, ns FileNamespace, name string, r io.Reader) (string, error)
	// SaveAs stores r under ns with exactly the given name, replacing any
	// existing file. Used for update artifacts whose names are contractual
	// (latest.yaml and friends).
	SaveAs(ctx context.Context, ns FileNamespace, name string, r io.Reader) error
	// Open returns the named file for reading; domain.ErrFileNotFound when
	// absent.
	Open(ctx context.Context, ns FileNamespace, name string) (io.ReadCloser, error)
	// Remove deletes the named file. Removing an absent file is not an error.
	Remove(ctx context.Context, ns FileNamespace, name string) error
}
