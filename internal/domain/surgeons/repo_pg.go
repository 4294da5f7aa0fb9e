package surgeons

import (
	"context"

	"github.com/google/uuid"
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

const surgeonCols = `id, first_name, last_name, specialty, npi, facility_id, is_active, created_at, updated_at`

func (r *repoPG) scanSurgeon(row pgx.Row) (*Surgeon, error) {
	var s Surgeon
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Specialty, &s.NPI,
		&s.FacilityID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Surgeon) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO surgeon (id, first_name, last_name, specialty, npi, facility_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.FirstName, s.LastName, s.Specialty, s.NPI, s.FacilityID, s.IsActive)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Surgeon, error) {
	return r.scanSurgeon(r.conn(ctx).QueryRow(ctx, `SELECT `+surgeonCols+` FROM surgeon WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *Surgeon) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE surgeon SET first_name=$2, last_name=$3, specialty=$4, npi=$5, facility_id=$6, is_active=$7, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.FirstName, s.LastName, s.Specialty, s.NPI, s.FacilityID, s.IsActive)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE surgeon SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Surgeon, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM surgeon WHERE is_active`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+surgeonCols+` FROM surgeon WHERE is_active ORDER BY last_name, first_name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Surgeon
	for rows.Next() {
		s, err := r.scanSurgeon(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *repoPG) Search(ctx context.Context, name string, limit, offset int) ([]*Surgeon, int, error) {
	pattern := "%" + name + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM surgeon WHERE is_active AND (first_name ILIKE $1 OR last_name ILIKE $1)`,
		pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+surgeonCols+` FROM surgeon WHERE is_active AND (first_name ILIKE $1 OR last_name ILIKE $1)
		 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Surgeon
	for rows.Next() {
		s, err := r.scanSurgeon(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}
