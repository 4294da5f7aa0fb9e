package dashboard

import "context"

type Repository interface {
	CasesByStatus(ctx context.Context) ([]StatusCount, error)
	CasesBySurgeon(ctx context.Context) ([]SurgeonCount, error)
	CasesByFacility(ctx context.Context) ([]FacilityCount, error)
	MonthlyCaseVolume(ctx context.Context, months int) ([]MonthlyVolume, error)
	BugsBySeverity(ctx context.Context) ([]SeverityCount, error)
	Totals(ctx context.Context) (cases, activeUsers, openBugs int, err error)
}
