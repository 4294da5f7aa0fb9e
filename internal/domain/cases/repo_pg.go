package cases

import (
	"context"
	"fmt"

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

const caseCols = `id, owner_id, surgeon_id, facility_id, payment_tier_id, patient_first, patient_last,
	status, demo_file, note_file, misc_file, scheduled_at, created_at, updated_at`

func (r *repoPG) scanCase(row pgx.Row) (*Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.OwnerID, &c.SurgeonID, &c.FacilityID, &c.PaymentTierID,
		&c.PatientFirst, &c.PatientLast, &c.Status, &c.DemoFile, &c.NoteFile, &c.MiscFile,
		&c.ScheduledAt, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Case) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO surgical_case (id, owner_id, surgeon_id, facility_id, payment_tier_id,
			patient_first, patient_last, status, demo_file, note_file, misc_file, scheduled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.OwnerID, c.SurgeonID, c.FacilityID, c.PaymentTierID,
		c.PatientFirst, c.PatientLast, c.Status, c.DemoFile, c.NoteFile, c.MiscFile, c.ScheduledAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	return r.scanCase(r.conn(ctx).QueryRow(ctx, `SELECT `+caseCols+` FROM surgical_case WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Case) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE surgical_case SET surgeon_id=$2, facility_id=$3, payment_tier_id=$4,
			patient_first=$5, patient_last=$6, status=$7, scheduled_at=$8, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.SurgeonID, c.FacilityID, c.PaymentTierID,
		c.PatientFirst, c.PatientLast, c.Status, c.ScheduledAt)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE surgical_case SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) UpdateFiles(ctx context.Context, id uuid.UUID, demo, note, misc *string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE surgical_case SET
			demo_file = COALESCE($2, demo_file),
			note_file = COALESCE($3, note_file),
			misc_file = COALESCE($4, misc_file),
			updated_at = NOW()
		WHERE id = $1`,
		id, demo, note, misc)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM surgical_case WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	return r.list(ctx, ``, nil, limit, offset)
}

func (r *repoPG) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Case, int, error) {
	return r.list(ctx, `WHERE owner_id = $1`, []interface{}{ownerID}, limit, offset)
}

func (r *repoPG) ListBySurgeon(ctx context.Context, surgeonID uuid.UUID, limit, offset int) ([]*Case, int, error) {
	return r.list(ctx, `WHERE surgeon_id = $1`, []interface{}{surgeonID}, limit, offset)
}

func (r *repoPG) ListByFacility(ctx context.Context, facilityID uuid.UUID, limit, offset int) ([]*Case, int, error) {
	return r.list(ctx, `WHERE facility_id = $1`, []interface{}{facilityID}, limit, offset)
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Case, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM surgical_case `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM surgical_case %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		caseCols, where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		c, err := r.scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

// FetchActiveByIDs returns the file snapshot for every active case whose id
// is in ids. Missing or inactive cases are simply absent from the result.
func (r *repoPG) FetchActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]*CaseFileRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, owner_id, demo_file, note_file, misc_file, patient_first, patient_last
		FROM surgical_case
		WHERE id = ANY($1) AND status <> 'archived'`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*CaseFileRecord
	for rows.Next() {
		var rec CaseFileRecord
		if err := rows.Scan(&rec.CaseID, &rec.OwnerID, &rec.DemoFile, &rec.NoteFile,
			&rec.MiscFile, &rec.PatientFirst, &rec.PatientLast); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
