package support

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/platform/awsx"
)

var validSeverities = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

var validBugStatuses = map[string]bool{
	"open":        true,
	"in_progress": true,
	"resolved":    true,
	"wont_fix":    true,
}

type Service struct {
	faqs   FAQRepository
	bugs   BugReportRepository
	mailer awsx.Mailer // nil when SES is not configured
	inbox  string      // engineering inbox for bug notifications
	log    zerolog.Logger
}

func NewService(faqs FAQRepository, bugs BugReportRepository, mailer awsx.Mailer, inbox string, log zerolog.Logger) *Service {
	return &Service{faqs: faqs, bugs: bugs, mailer: mailer, inbox: inbox, log: log}
}

// -- FAQs --

func (s *Service) CreateFAQ(ctx context.Context, f *FAQ) error {
	if f.Question == "" || f.Answer == "" {
		return fmt.Errorf("question and answer are required")
	}
	return s.faqs.Create(ctx, f)
}

func (s *Service) GetFAQ(ctx context.Context, id uuid.UUID) (*FAQ, error) {
	return s.faqs.GetByID(ctx, id)
}

func (s *Service) UpdateFAQ(ctx context.Context, f *FAQ) error {
	if f.Question == "" || f.Answer == "" {
		return fmt.Errorf("question and answer are required")
	}
	return s.faqs.Update(ctx, f)
}

func (s *Service) DeleteFAQ(ctx context.Context, id uuid.UUID) error {
	return s.faqs.Delete(ctx, id)
}

func (s *Service) ListFAQs(ctx context.Context, publishedOnly bool, limit, offset int) ([]*FAQ, int, error) {
	return s.faqs.List(ctx, publishedOnly, limit, offset)
}

// -- Bug reports --

// CreateBugReport stores the report and notifies the engineering inbox.
// The notification is best-effort; a send failure never fails the intake.
func (s *Service) CreateBugReport(ctx context.Context, b *BugReport) error {
	if b.Title == "" || b.Description == "" {
		return fmt.Errorf("title and description are required")
	}
	if b.ReporterID == uuid.Nil {
		return fmt.Errorf("reporter_id is required")
	}
	if b.Severity == "" {
		b.Severity = "medium"
	}
	if !validSeverities[b.Severity] {
		return fmt.Errorf("invalid severity: %s", b.Severity)
	}
	b.Status = "open"

	if err := s.bugs.Create(ctx, b); err != nil {
		return err
	}

	if s.mailer != nil && s.inbox != "" {
		subject := fmt.Sprintf("[bug][%s] %s", b.Severity, b.Title)
		body := fmt.Sprintf("Report %s from %s\n\n%s", b.ID, b.ReporterID, b.Description)
		if err := s.mailer.Send(ctx, s.inbox, subject, body); err != nil {
			s.log.Error().Err(err).Str("report_id", b.ID.String()).Msg("bug report notification failed")
		}
	}
	return nil
}

func (s *Service) GetBugReport(ctx context.Context, id uuid.UUID) (*BugReport, error) {
	return s.bugs.GetByID(ctx, id)
}

func (s *Service) UpdateBugStatus(ctx context.Context, id uuid.UUID, status string) (*BugReport, error) {
	if !validBugStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if err := s.bugs.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.bugs.GetByID(ctx, id)
}

func (s *Service) ListBugReports(ctx context.Context, severity string, limit, offset int) ([]*BugReport, int, error) {
	if severity != "" {
		return s.bugs.ListBySeverity(ctx, severity, limit, offset)
	}
	return s.bugs.List(ctx, limit, offset)
}
