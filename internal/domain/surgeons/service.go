package surgeons

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

func (s *Service) Create(ctx context.Context, sg *Surgeon) error {
	if sg.FirstName == "" || sg.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	sg.IsActive = true
	return s.repo.Create(ctx, sg)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Surgeon, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, sg *Surgeon) error {
	if sg.FirstName == "" || sg.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.repo.Update(ctx, sg)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Surgeon, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, name string, limit, offset int) ([]*Surgeon, int, error) {
	return s.repo.Search(ctx, name, limit, offset)
}
