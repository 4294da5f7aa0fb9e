package cases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validCaseStatuses = map[string]bool{
	"pending":     true,
	"scheduled":   true,
	"in_progress": true,
	"completed":   true,
	"cancelled":   true,
	"archived":    true,
}

// Allowed status transitions. Archived is terminal.
var caseStatusTransitions = map[string][]string{
	"pending":     {"scheduled", "cancelled", "archived"},
	"scheduled":   {"in_progress", "cancelled", "archived"},
	"in_progress": {"completed", "cancelled"},
	"completed":   {"archived"},
	"cancelled":   {"archived"},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c *Case) error {
	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if c.PatientFirst == "" || c.PatientLast == "" {
		return fmt.Errorf("patient_first and patient_last are required")
	}
	if c.Status == "" {
		c.Status = "pending"
	}
	if !validCaseStatuses[c.Status] {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Case) error {
	if c.Status != "" && !validCaseStatuses[c.Status] {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	return s.repo.Update(ctx, c)
}

// Transition moves a case to a new status, enforcing the transition table.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, status string) (*Case, error) {
	if !validCaseStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, next := range caseStatusTransitions[c.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot transition case from %s to %s", c.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status
	return c, nil
}

// AttachFiles records attachment filenames on the case. Nil fields are
// left untouched. The bytes themselves live in the object store under the
// case owner's prefix.
func (s *Service) AttachFiles(ctx context.Context, id uuid.UUID, demo, note, misc *string) error {
	if demo == nil && note == nil && misc == nil {
		return fmt.Errorf("at least one of demo_file, note_file, misc_file is required")
	}
	return s.repo.UpdateFiles(ctx, id, demo, note, misc)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Case, int, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) ListBySurgeon(ctx context.Context, surgeonID uuid.UUID, limit, offset int) ([]*Case, int, error) {
	return s.repo.ListBySurgeon(ctx, surgeonID, limit, offset)
}

func (s *Service) ListByFacility(ctx context.Context, facilityID uuid.UUID, limit, offset int) ([]*Case, int, error) {
	return s.repo.ListByFacility(ctx, facilityID, limit, offset)
}

// FetchActiveByIDs exposes the pipeline's metadata snapshot.
func (s *Service) FetchActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*CaseFileRecord, error) {
	return s.repo.FetchActiveByIDs(ctx, ids)
}
