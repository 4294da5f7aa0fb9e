package cases

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*Case, error)
	Update(ctx context.Context, c *Case) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateFiles(ctx context.Context, id uuid.UUID, demo, note, misc *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Case, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Case, int, error)
	ListBySurgeon(ctx context.Context, surgeonID uuid.UUID, limit, offset int) ([]*Case, int, error)
	ListByFacility(ctx context.Context, facilityID uuid.UUID, limit, offset int) ([]*Case, int, error)
	FetchActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*CaseFileRecord, error)
}
