package support

import (
	"context"

	"github.com/google/uuid"
)

type FAQRepository interface {
	Create(ctx context.Context, f *FAQ) error
	GetByID(ctx context.Context, id uuid.UUID) (*FAQ, error)
	Update(ctx context.Context, f *FAQ) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*FAQ, int, error)
}

type BugReportRepository interface {
	Create(ctx context.Context, b *BugReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*BugReport, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, limit, offset int) ([]*BugReport, int, error)
	ListBySeverity(ctx context.Context, severity string, limit, offset int) ([]*BugReport, int, error)
}
