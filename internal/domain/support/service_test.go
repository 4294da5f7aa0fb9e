package support

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mocks --

type mockFAQRepo struct {
	faqs map[uuid.UUID]*FAQ
}

func newMockFAQRepo() *mockFAQRepo {
	return &mockFAQRepo{faqs: make(map[uuid.UUID]*FAQ)}
}

func (m *mockFAQRepo) Create(_ context.Context, f *FAQ) error {
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	f.UpdatedAt = time.Now()
	m.faqs[f.ID] = f
	return nil
}

func (m *mockFAQRepo) GetByID(_ context.Context, id uuid.UUID) (*FAQ, error) {
	f, ok := m.faqs[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return f, nil
}

func (m *mockFAQRepo) Update(_ context.Context, f *FAQ) error {
	m.faqs[f.ID] = f
	return nil
}

func (m *mockFAQRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.faqs, id)
	return nil
}

func (m *mockFAQRepo) List(_ context.Context, publishedOnly bool, limit, offset int) ([]*FAQ, int, error) {
	var result []*FAQ
	for _, f := range m.faqs {
		if !publishedOnly || f.Published {
			result = append(result, f)
		}
	}
	return result, len(result), nil
}

type mockBugRepo struct {
	bugs map[uuid.UUID]*BugReport
}

func newMockBugRepo() *mockBugRepo {
	return &mockBugRepo{bugs: make(map[uuid.UUID]*BugReport)}
}

func (m *mockBugRepo) Create(_ context.Context, b *BugReport) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	m.bugs[b.ID] = b
	return nil
}

func (m *mockBugRepo) GetByID(_ context.Context, id uuid.UUID) (*BugReport, error) {
	b, ok := m.bugs[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return b, nil
}

func (m *mockBugRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	b, ok := m.bugs[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	b.Status = status
	return nil
}

func (m *mockBugRepo) List(_ context.Context, limit, offset int) ([]*BugReport, int, error) {
	var result []*BugReport
	for _, b := range m.bugs {
		result = append(result, b)
	}
	return result, len(result), nil
}

func (m *mockBugRepo) ListBySeverity(_ context.Context, severity string, limit, offset int) ([]*BugReport, int, error) {
	var result []*BugReport
	for _, b := range m.bugs {
		if b.Severity == severity {
			result = append(result, b)
		}
	}
	return result, len(result), nil
}

type mockMailer struct {
	sent []string
	fail bool
}

func (m *mockMailer) Send(_ context.Context, to, subject, body string) error {
	if m.fail {
		return fmt.Errorf("ses unavailable")
	}
	m.sent = append(m.sent, subject)
	return nil
}

// -- Tests --

func newTestService(mailer *mockMailer) *Service {
	if mailer == nil {
		return NewService(newMockFAQRepo(), newMockBugRepo(), nil, "", zerolog.Nop())
	}
	return NewService(newMockFAQRepo(), newMockBugRepo(), mailer, "eng@example.com", zerolog.Nop())
}

func TestCreateFAQ(t *testing.T) {
	svc := newTestService(nil)

	f := &FAQ{Question: "How do I upload files?", Answer: "Use the case file endpoints."}
	if err := svc.CreateFAQ(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreateFAQ_Incomplete(t *testing.T) {
	svc := newTestService(nil)

	if err := svc.CreateFAQ(context.Background(), &FAQ{Question: "incomplete"}); err == nil {
		t.Error("expected error for missing answer")
	}
}

func TestCreateBugReport(t *testing.T) {
	svc := newTestService(nil)

	b := &BugReport{ReporterID: uuid.New(), Title: "Crash on upload", Description: "500 on large files"}
	if err := svc.CreateBugReport(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != "open" {
		t.Errorf("expected open, got %s", b.Status)
	}
	if b.Severity != "medium" {
		t.Errorf("expected medium default, got %s", b.Severity)
	}
}

func TestCreateBugReport_Notifies(t *testing.T) {
	mailer := &mockMailer{}
	svc := newTestService(mailer)

	b := &BugReport{ReporterID: uuid.New(), Title: "Crash on upload", Description: "500 on large files", Severity: "high"}
	if err := svc.CreateBugReport(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(mailer.sent))
	}
	if !strings.Contains(mailer.sent[0], "high") {
		t.Errorf("expected severity in subject, got %q", mailer.sent[0])
	}
}

func TestCreateBugReport_NotifyFailureIsNotFatal(t *testing.T) {
	mailer := &mockMailer{fail: true}
	svc := newTestService(mailer)

	b := &BugReport{ReporterID: uuid.New(), Title: "Crash on upload", Description: "500 on large files"}
	if err := svc.CreateBugReport(context.Background(), b); err != nil {
		t.Fatalf("mail failure must not fail the intake: %v", err)
	}
}

func TestCreateBugReport_InvalidSeverity(t *testing.T) {
	svc := newTestService(nil)

	b := &BugReport{ReporterID: uuid.New(), Title: "t", Description: "d", Severity: "catastrophic"}
	if err := svc.CreateBugReport(context.Background(), b); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestUpdateBugStatus(t *testing.T) {
	svc := newTestService(nil)

	b := &BugReport{ReporterID: uuid.New(), Title: "t", Description: "d"}
	svc.CreateBugReport(context.Background(), b)

	got, err := svc.UpdateBugStatus(context.Background(), b.ID, "resolved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "resolved" {
		t.Errorf("expected resolved, got %s", got.Status)
	}
}

func TestUpdateBugStatus_Invalid(t *testing.T) {
	svc := newTestService(nil)

	b := &BugReport{ReporterID: uuid.New(), Title: "t", Description: "d"}
	svc.CreateBugReport(context.Background(), b)

	if _, err := svc.UpdateBugStatus(context.Background(), b.ID, "done-ish"); err == nil {
		t.Error("expected error for unknown status")
	}
}
