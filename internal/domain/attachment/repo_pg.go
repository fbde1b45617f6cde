package attachment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chartkeep/chartkeep/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the Postgres-backed record store. Records are keyed on
// (uhid, grp, category, id), so identifier allocation and append collapse
// into one conditional insert: two concurrent appends can never commit the
// same identifier within a category.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const recordCols = `id, file_ref, display_name, comment, uploaded_at, created_at`

func (r *repoPG) CreateStores(ctx context.Context, uhid int64, name, email string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO attachment_store (uhid, grp, name, email)
		VALUES ($1, $4, $2, $3), ($1, $5, $2, $3), ($1, $6, $2, $3)
		ON CONFLICT (uhid, grp) DO NOTHING`,
		uhid, name, email, GroupAssessment, GroupDocument, GroupOrder)
	return storageErr(err)
}

func (r *repoPG) GetStore(ctx context.Context, uhid int64, group Group) (*StoreDocument, error) {
	doc := &StoreDocument{Categories: make(map[Category][]Record, len(Categories(group)))}
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT uhid, name, email FROM attachment_store WHERE uhid = $1 AND grp = $2`,
		uhid, group).Scan(&doc.UHID, &doc.Name, &doc.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	for _, cat := range Categories(group) {
		doc.Categories[cat] = []Record{}
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT category, `+recordCols+`
		FROM attachment_record WHERE uhid = $1 AND grp = $2`, uhid, group)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat Category
		var rec Record
		if err := rows.Scan(&cat, &rec.ID, &rec.FileRef, &rec.DisplayName,
			&rec.Comment, &rec.UploadedAt, &rec.CreatedAt); err != nil {
			return nil, storageErr(err)
		}
		doc.Categories[cat] = append(doc.Categories[cat], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return doc, nil
}

func (r *repoPG) ListCategory(ctx context.Context, uhid int64, category Category) ([]Record, error) {
	group, ok := GroupOf(category)
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+`
		FROM attachment_record WHERE uhid = $1 AND grp = $2 AND category = $3`,
		uhid, group, category)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.FileRef, &rec.DisplayName,
			&rec.Comment, &rec.UploadedAt, &rec.CreatedAt); err != nil {
			return nil, storageErr(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return records, nil
}

func (r *repoPG) AppendRecord(ctx context.Context, uhid int64, category Category, rec Record) error {
	group, ok := GroupOf(category)
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	// INSERT..SELECT keyed on the store row: a missing store and a taken
	// identifier both leave zero rows, disambiguated below.
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO attachment_record (uhid, grp, category, id, file_ref, display_name, comment, uploaded_at, created_at)
		SELECT s.uhid, s.grp, $3, $4, $5, $6, $7, $8, $9
		FROM attachment_store s WHERE s.uhid = $1 AND s.grp = $2
		ON CONFLICT (uhid, grp, category, id) DO NOTHING`,
		uhid, group, category, rec.ID, rec.FileRef, rec.DisplayName,
		rec.Comment, rec.UploadedAt, rec.CreatedAt)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attachment_store WHERE uhid = $1 AND grp = $2)`,
		uhid, group).Scan(&exists)
	if err != nil {
		return storageErr(err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrDuplicateID
}

// storageErr classifies repository failures: errors the server itself
// reported pass through, everything else (dial, timeout, closed pool) is a
// storage availability problem and must not read as "no data".
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
