package billing

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

const tierCols = `id, name, amount_cents, currency, is_active, created_at, updated_at`

func (r *repoPG) scanTier(row pgx.Row) (*PaymentTier, error) {
	var t PaymentTier
	err := row.Scan(&t.ID, &t.Name, &t.AmountCents, &t.Currency, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *repoPG) Create(ctx context.Context, t *PaymentTier) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment_tier (id, name, amount_cents, currency, is_active)
		VALUES ($1,$2,$3,$4,$5)`,
		t.ID, t.Name, t.AmountCents, t.Currency, t.IsActive)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*PaymentTier, error) {
	return r.scanTier(r.conn(ctx).QueryRow(ctx, `SELECT `+tierCols+` FROM payment_tier WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, t *PaymentTier) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE payment_tier SET name=$2, amount_cents=$3, currency=$4, is_active=$5, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.AmountCents, t.Currency, t.IsActive)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE payment_tier SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*PaymentTier, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM payment_tier WHERE is_active`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+tierCols+` FROM payment_tier WHERE is_active ORDER BY amount_cents LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PaymentTier
	for rows.Next() {
		t, err := r.scanTier(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}
