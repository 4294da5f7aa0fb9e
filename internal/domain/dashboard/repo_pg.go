package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caseflow/caseflow/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) CasesByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT status, COUNT(*) FROM surgical_case GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (r *repoPG) CasesBySurgeon(ctx context.Context) ([]SurgeonCount, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT s.id, s.first_name || ' ' || s.last_name, COUNT(c.id)
		FROM surgical_case c
		JOIN surgeon s ON s.id = c.surgeon_id
		GROUP BY s.id, s.first_name, s.last_name
		ORDER BY COUNT(c.id) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []SurgeonCount
	for rows.Next() {
		var sc SurgeonCount
		if err := rows.Scan(&sc.SurgeonID, &sc.SurgeonName, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (r *repoPG) CasesByFacility(ctx context.Context) ([]FacilityCount, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT f.id, f.name, COUNT(c.id)
		FROM surgical_case c
		JOIN facility f ON f.id = c.facility_id
		GROUP BY f.id, f.name
		ORDER BY COUNT(c.id) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []FacilityCount
	for rows.Next() {
		var fc FacilityCount
		if err := rows.Scan(&fc.FacilityID, &fc.FacilityName, &fc.Count); err != nil {
			return nil, err
		}
		result = append(result, fc)
	}
	return result, rows.Err()
}

func (r *repoPG) MonthlyCaseVolume(ctx context.Context, months int) ([]MonthlyVolume, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*)
		FROM surgical_case
		WHERE created_at >= date_trunc('month', NOW()) - ($1 || ' months')::interval
		GROUP BY month
		ORDER BY month`, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []MonthlyVolume
	for rows.Next() {
		var mv MonthlyVolume
		if err := rows.Scan(&mv.Month, &mv.Count); err != nil {
			return nil, err
		}
		result = append(result, mv)
	}
	return result, rows.Err()
}

func (r *repoPG) BugsBySeverity(ctx context.Context) ([]SeverityCount, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT severity, COUNT(*) FROM bug_report GROUP BY severity ORDER BY severity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []SeverityCount
	for rows.Next() {
		var sc SeverityCount
		if err := rows.Scan(&sc.Severity, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (r *repoPG) Totals(ctx context.Context) (cases, activeUsers, openBugs int, err error) {
	err = r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM surgical_case),
			(SELECT COUNT(*) FROM app_user WHERE is_active),
			(SELECT COUNT(*) FROM bug_report WHERE status = 'open')`).
		Scan(&cases, &activeUsers, &openBugs)
	return cases, activeUsers, openBugs, err
}
