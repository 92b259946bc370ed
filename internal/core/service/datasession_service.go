package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// DataSessionService manages proxy-bound account records and the bundle
// files attached to them.
type DataSessionService struct {
	repo  ports.DataSessionRepository
	perms ports.PermissionRepository
	files ports.FileStore
	log   zerolog.Logger
}

func NewDataSessionService(
	repo ports.DataSessionRepository,
	perms ports.PermissionRepository,
	files ports.FileStore,
	log zerolog.Logger,
) *DataSessionService {
	return &DataSessionService{repo: repo, perms: perms, files: files, log: log}
}

// List returns all data sessions, each annotated with the number of
// permission profiles referencing it.
func (s *DataSessionService) List(ctx context.Context) ([]domain.DataSession, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.perms.CountByDataSession(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].UserCount = counts[sessions[i].ID]
	}
	return sessions, nil
}

func (s *DataSessionService) Get(ctx context.Context, id string) (*domain.DataSession, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DataSessionService) Create(ctx context.Context, in ports.CreateDataSessionInput) (*domain.DataSession, error) {
	return s.repo.Create(ctx, &domain.DataSession{
		Name:   in.Name,
		Proxy:  in.Proxy,
		Domain: in.Domain,
	})
}

func (s *DataSessionService) Update(ctx context.Context, id string, upd ports.DataSessionUpdate) (*domain.DataSession, error) {
	return s.repo.Update(ctx, id, upd)
}

// Delete removes the record and, when a bundle is attached, the file behind
// it. A failed file removal is logged but does not block the deletion.
func (s *DataSessionService) Delete(ctx context.Context, id string) error {
	ds, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if ds.FileName != "" {
		if err := s.files.Remove(ctx, ports.NamespaceBundles, ds.FileName); err != nil {
			s.log.Error().Err(err).Str("file", ds.FileName).Msg("bundle removal failed")
		}
	}
	return s.repo.Delete(ctx, id)
}

// AttachBundle stores the uploaded bundle and points the session at it,
// deleting the previously attached file if one exists.
func (s *DataSessionService) AttachBundle(ctx context.Context, id, name string, r io.Reader) (*domain.DataSession, error) {
	ds, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := s.files.Save(ctx, ports.NamespaceBundles, name, r)
	if err != nil {
		return nil, err
	}

	if ds.FileName != "" {
		if err := s.files.Remove(ctx, ports.NamespaceBundles, ds.FileName); err != nil {
			s.log.Error().Err(err).Str("file", ds.FileName).Msg("stale bundle removal failed")
		}
	}

	updated, err := s.repo.SetFileName(ctx, id, stored)
	if err != nil {
		// leave no orphan on disk when the reference cannot be recorded
		_ = s.files.Remove(ctx, ports.NamespaceBundles, stored)
		return nil, err
	}
	return updated, nil
}

// DetachBundle removes the attached file and clears the reference.
func (s *DataSessionService) DetachBundle(ctx context.Context, id string) (*domain.DataSession, error) {
	ds, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ds.FileName != "" {
		if err := s.files.Remove(ctx, ports.NamespaceBundles, ds.FileName); err != nil {
			s.log.Error().Err(err).Str("file", ds.FileName).Msg("bundle removal failed")
		}
	}
	return s.repo.SetFileName(ctx, id, "")
}
