package dashboard

import "github.com/google/uuid"

// StatusCount is one row of a GROUP BY status aggregation.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SurgeonCount is one row of the cases-per-surgeon aggregation.
type SurgeonCount struct {
	SurgeonID   uuid.UUID `json:"surgeon_id"`
	SurgeonName string    `json:"surgeon_name"`
	Count       int       `json:"count"`
}

// FacilityCount is one row of the cases-per-facility aggregation.
type FacilityCount struct {
	FacilityID   uuid.UUID `json:"facility_id"`
	FacilityName string    `json:"facility_name"`
	Count        int       `json:"count"`
}

// MonthlyVolume is one row of the month-bucketed case volume aggregation.
type MonthlyVolume struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// SeverityCount is one row of the bug-reports-by-severity aggregation.
type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// Summary is the combined payload the admin dashboard loads in one call.
type Summary struct {
	CasesByStatus    []StatusCount   `json:"cases_by_status"`
	CasesBySurgeon   []SurgeonCount  `json:"cases_by_surgeon"`
	CasesByFacility  []FacilityCount `json:"cases_by_facility"`
	MonthlyVolume    []MonthlyVolume `json:"monthly_volume"`
	BugsBySeverity   []SeverityCount `json:"bugs_by_severity"`
	TotalCases       int             `json:"total_cases"`
	TotalActiveUsers int             `json:"total_active_users"`
	TotalOpenBugs    int             `json:"total_open_bugs"`
}
