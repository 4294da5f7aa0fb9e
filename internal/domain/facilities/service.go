package facilities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, f *Facility) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	f.IsActive = true
	return s.repo.Create(ctx, f)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, f *Facility) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Update(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Facility, int, error) {
	return s.repo.List(ctx, limit, offset)
}
