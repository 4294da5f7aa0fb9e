package dashboard

import "context"

// DefaultVolumeMonths bounds the monthly volume window.
const DefaultVolumeMonths = 12

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CasesByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.repo.CasesByStatus(ctx)
}

func (s *Service) CasesBySurgeon(ctx context.Context) ([]SurgeonCount, error) {
	return s.repo.CasesBySurgeon(ctx)
}

func (s *Service) CasesByFacility(ctx context.Context) ([]FacilityCount, error) {
	return s.repo.CasesByFacility(ctx)
}

func (s *Service) MonthlyCaseVolume(ctx context.Context, months int) ([]MonthlyVolume, error) {
	if months <= 0 || months > 60 {
		months = DefaultVolumeMonths
	}
	return s.repo.MonthlyCaseVolume(ctx, months)
}

func (s *Service) BugsBySeverity(ctx context.Context) ([]SeverityCount, error) {
	return s.repo.BugsBySeverity(ctx)
}

// Summary collects every aggregation in one pass for the dashboard landing
// page. Aggregations run sequentially; each is a single cheap GROUP BY.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	byStatus, err := s.repo.CasesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	bySurgeon, err := s.repo.CasesBySurgeon(ctx)
	if err != nil {
		return nil, err
	}
	byFacility, err := s.repo.CasesByFacility(ctx)
	if err != nil {
		return nil, err
	}
	volume, err := s.repo.MonthlyCaseVolume(ctx, DefaultVolumeMonths)
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.repo.BugsBySeverity(ctx)
	if err != nil {
		return nil, err
	}
	cases, users, bugs, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		CasesByStatus:    byStatus,
		CasesBySurgeon:   bySurgeon,
		CasesByFacility:  byFacility,
		MonthlyVolume:    volume,
		BugsBySeverity:   bySeverity,
		TotalCases:       cases,
		TotalActiveUsers: users,
		TotalOpenBugs:    bugs,
	}, nil
}
