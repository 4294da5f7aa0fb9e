package surgeons

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Surgeon) error
	GetByID(ctx context.Context, id uuid.UUID) (*Surgeon, error)
	Update(ctx context.Context, s *Surgeon) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Surgeon, int, error)
	Search(ctx context.Context, name string, limit, offset int) ([]*Surgeon, int, error)
}
