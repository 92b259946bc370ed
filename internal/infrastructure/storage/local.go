package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// LocalStore persists uploaded files on the local filesystem, one directory
// per namespace under baseDir.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a LocalStore, creating the namespace directories if
// they do not exist.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "data/files"
	}
	for _, ns := range []ports.FileNamespace{ports.NamespaceBundles, ports.NamespaceUpdates} {
		if err := os.MkdirAll(filepath.Join(baseDir, string(ns)), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes r under ns with a generated unique name keeping the original
// extension, and returns the stored name.
func (s *LocalStore) Save(ctx context.Context, ns ports.FileNamespace, name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	stored := uuid.NewString() + ext
	if err := s.write(ctx, ns, stored, r); err != nil {
		return "", err
	}
	return stored, nil
}

// SaveAs writes r under ns with exactly the given name, replacing any
// existing file.
func (s *LocalStore) SaveAs(ctx context.Context, ns ports.FileNamespace, name string, r io.Reader) error {
	clean, err := safeName(name)
	if err != nil {
		return err
	}
	return s.write(ctx, ns, clean, r)
}

func (s *LocalStore) write(ctx context.Context, ns ports.FileNamespace, name string, r io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := os.Create(filepath.Join(s.baseDir, string(ns), name))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("write file: %w", err)
	}
	return f.Close()
}

// Open returns the named file for reading.
func (s *LocalStore) Open(ctx context.Context, ns ports.FileNamespace, name string) (io.ReadCloser, error) {
	clean, err := safeName(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, string(ns), clean))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Remove deletes the named file. A missing file is not an error.
func (s *LocalStore) Remove(_ context.Context, ns ports.FileNamespace, name string) error {
	clean, err := safeName(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.baseDir, string(ns), clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// safeName rejects names that would escape the namespace directory.
func safeName(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "" || clean == "." || clean == ".." || strings.ContainsAny(name, `/\`) {
		return "", domain.ErrFileNotFound
	}
	return clean, nil
}

var _ ports.FileStore = (*LocalStore)(nil)
