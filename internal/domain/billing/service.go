package billing

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

func (s *Service) Create(ctx context.Context, t *PaymentTier) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.AmountCents < 0 {
		return fmt.Errorf("amount_cents must not be negative")
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	t.IsActive = true
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PaymentTier, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, t *PaymentTier) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.AmountCents < 0 {
		return fmt.Errorf("amount_cents must not be negative")
	}
	return s.repo.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*PaymentTier, int, error) {
	return s.repo.List(ctx, limit, offset)
}
