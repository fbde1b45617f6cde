package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

const patientCols = `id, uhid, name, email, contact, country, country_code, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UHID, &p.Name, &p.Email, &p.Contact,
		&p.Country, &p.CountryCode, &p.CreatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, uhid, name, email, contact, country, country_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UHID, p.Name, p.Email, p.Contact, p.Country, p.CountryCode)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUHID
		}
		return storageErr(err)
	}
	return nil
}

func (r *repoPG) GetByUHID(ctx context.Context, uhid int64) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE uhid = $1`, uhid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return p, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, storageErr(err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patient
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, storageErr(err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr(err)
	}
	return patients, total, nil
}

func storageErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
