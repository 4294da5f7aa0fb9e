package support

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

// -- FAQ repository --

type faqRepoPG struct{ pool *pgxpool.Pool }

func NewFAQRepoPG(pool *pgxpool.Pool) FAQRepository { return &faqRepoPG{pool: pool} }

func (r *faqRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const faqCols = `id, question, answer, sort_order, published, created_at, updated_at`

func (r *faqRepoPG) scanFAQ(row pgx.Row) (*FAQ, error) {
	var f FAQ
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.SortOrder, &f.Published, &f.CreatedAt, &f.UpdatedAt)
	return &f, err
}

func (r *faqRepoPG) Create(ctx context.Context, f *FAQ) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO faq (id, question, answer, sort_order, published)
		VALUES ($1,$2,$3,$4,$5)`,
		f.ID, f.Question, f.Answer, f.SortOrder, f.Published)
	return err
}

func (r *faqRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*FAQ, error) {
	return r.scanFAQ(r.conn(ctx).QueryRow(ctx, `SELECT `+faqCols+` FROM faq WHERE id = $1`, id))
}

func (r *faqRepoPG) Update(ctx context.Context, f *FAQ) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE faq SET question=$2, answer=$3, sort_order=$4, published=$5, updated_at=NOW()
		WHERE id = $1`,
		f.ID, f.Question, f.Answer, f.SortOrder, f.Published)
	return err
}

func (r *faqRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM faq WHERE id = $1`, id)
	return err
}

func (r *faqRepoPG) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*FAQ, int, error) {
	where := ``
	if publishedOnly {
		where = `WHERE published`
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM faq `+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+faqCols+` FROM faq `+where+` ORDER BY sort_order, created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*FAQ
	for rows.Next() {
		f, err := r.scanFAQ(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	return items, total, nil
}

// -- Bug report repository --

type bugRepoPG struct{ pool *pgxpool.Pool }

func NewBugReportRepoPG(pool *pgxpool.Pool) BugReportRepository { return &bugRepoPG{pool: pool} }

func (r *bugRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const bugCols = `id, reporter_id, title, description, severity, status, created_at, updated_at`

func (r *bugRepoPG) scanBug(row pgx.Row) (*BugReport, error) {
	var b BugReport
	err := row.Scan(&b.ID, &b.ReporterID, &b.Title, &b.Description, &b.Severity, &b.Status,
		&b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *bugRepoPG) Create(ctx context.Context, b *BugReport) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bug_report (id, reporter_id, title, description, severity, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.ReporterID, b.Title, b.Description, b.Severity, b.Status)
	return err
}

func (r *bugRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*BugReport, error) {
	return r.scanBug(r.conn(ctx).QueryRow(ctx, `SELECT `+bugCols+` FROM bug_report WHERE id = $1`, id))
}

func (r *bugRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE bug_report SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *bugRepoPG) List(ctx context.Context, limit, offset int) ([]*BugReport, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bug_report`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bugCols+` FROM bug_report ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*BugReport
	for rows.Next() {
		b, err := r.scanBug(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

func (r *bugRepoPG) ListBySeverity(ctx context.Context, severity string, limit, offset int) ([]*BugReport, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bug_report WHERE severity = $1`, severity).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bugCols+` FROM bug_report WHERE severity = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		severity, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*BugReport
	for rows.Next() {
		b, err := r.scanBug(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}
