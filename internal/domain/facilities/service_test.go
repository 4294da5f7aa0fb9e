package facilities

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockFacilityRepo struct {
	facilities map[uuid.UUID]*Facility
}

func newMockFacilityRepo() *mockFacilityRepo {
	return &mockFacilityRepo{facilities: make(map[uuid.UUID]*Facility)}
}

func (m *mockFacilityRepo) Create(_ context.Context, f *Facility) error {
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	f.UpdatedAt = time.Now()
	m.facilities[f.ID] = f
	return nil
}

func (m *mockFacilityRepo) GetByID(_ context.Context, id uuid.UUID) (*Facility, error) {
	f, ok := m.facilities[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return f, nil
}

func (m *mockFacilityRepo) Update(_ context.Context, f *Facility) error {
	m.facilities[f.ID] = f
	return nil
}

func (m *mockFacilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	f, ok := m.facilities[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	f.IsActive = false
	return nil
}

func (m *mockFacilityRepo) List(_ context.Context, limit, offset int) ([]*Facility, int, error) {
	var result []*Facility
	for _, f := range m.facilities {
		if f.IsActive {
			result = append(result, f)
		}
	}
	return result, len(result), nil
}

func TestCreateFacility(t *testing.T) {
	svc := NewService(newMockFacilityRepo())

	f := &Facility{Name: "St. Mary Surgical Center"}
	if err := svc.Create(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if !f.IsActive {
		t.Error("expected facility to be active")
	}
}

func TestCreateFacility_NameRequired(t *testing.T) {
	svc := NewService(newMockFacilityRepo())

	if err := svc.Create(context.Background(), &Facility{}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestDeleteFacility_Deactivates(t *testing.T) {
	repo := newMockFacilityRepo()
	svc := NewService(repo)

	f := &Facility{Name: "St. Mary Surgical Center"}
	svc.Create(context.Background(), f)

	if err := svc.Delete(context.Background(), f.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, total, _ := svc.List(context.Background(), 20, 0)
	if total != 0 || len(list) != 0 {
		t.Error("expected inactive facility to drop out of listings")
	}
}
