package service

import (
	"context"
	"strings"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// WhitelistService manages the approved-domain list referenced by
// permission profiles.
type WhitelistService struct {
	repo ports.WhitelistRepository
}

func NewWhitelistService(repo ports.WhitelistRepository) *WhitelistService {
	return &WhitelistService{repo: repo}
}

func (s *WhitelistService) List(ctx context.Context) ([]domain.WhitelistedDomain, error) {
	return s.repo.List(ctx)
}

func (s *WhitelistService) Create(ctx context.Context, name string) (*domain.WhitelistedDomain, error) {
	return s.repo.Create(ctx, &domain.WhitelistedDomain{Domain: strings.TrimSpace(name)})
}

func (s *WhitelistService) Update(ctx context.Context, id, name string) (*domain.WhitelistedDomain, error) {
	return s.repo.Update(ctx, id, strings.TrimSpace(name))
}

func (s *WhitelistService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
