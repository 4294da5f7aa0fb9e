package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *PaymentTier) error
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentTier, error)
	Update(ctx context.Context, t *PaymentTier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*PaymentTier, int, error)
}
