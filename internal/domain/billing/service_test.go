package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockTierRepo struct {
	tiers map[uuid.UUID]*PaymentTier
}

func newMockTierRepo() *mockTierRepo {
	return &mockTierRepo{tiers: make(map[uuid.UUID]*PaymentTier)}
}

func (m *mockTierRepo) Create(_ context.Context, t *PaymentTier) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.tiers[t.ID] = t
	return nil
}

func (m *mockTierRepo) GetByID(_ context.Context, id uuid.UUID) (*PaymentTier, error) {
	t, ok := m.tiers[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (m *mockTierRepo) Update(_ context.Context, t *PaymentTier) error {
	m.tiers[t.ID] = t
	return nil
}

func (m *mockTierRepo) Delete(_ context.Context, id uuid.UUID) error {
	t, ok := m.tiers[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	t.IsActive = false
	return nil
}

func (m *mockTierRepo) List(_ context.Context, limit, offset int) ([]*PaymentTier, int, error) {
	var result []*PaymentTier
	for _, t := range m.tiers {
		if t.IsActive {
			result = append(result, t)
		}
	}
	return result, len(result), nil
}

func TestCreateTier(t *testing.T) {
	svc := NewService(newMockTierRepo())

	tier := &PaymentTier{Name: "Standard", AmountCents: 150000}
	if err := svc.Create(context.Background(), tier); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier.Currency != "USD" {
		t.Errorf("expected USD default, got %s", tier.Currency)
	}
	if !tier.IsActive {
		t.Error("expected tier to be active")
	}
}

func TestCreateTier_NegativeAmount(t *testing.T) {
	svc := NewService(newMockTierRepo())

	tier := &PaymentTier{Name: "Broken", AmountCents: -1}
	if err := svc.Create(context.Background(), tier); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestCreateTier_NameRequired(t *testing.T) {
	svc := NewService(newMockTierRepo())

	if err := svc.Create(context.Background(), &PaymentTier{AmountCents: 100}); err == nil {
		t.Error("expected error for missing name")
	}
}
