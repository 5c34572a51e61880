package owners

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetclinic/vetclinic/internal/platform/db"
	"github.com/vetclinic/vetclinic/pkg/clinicerr"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const ownerCols = `id, user_id, first_name, last_name, email, phone, address, created_at, updated_at`

func scanOwner(row pgx.Row) (*Owner, error) {
	var o Owner
	err := row.Scan(&o.ID, &o.UserID, &o.FirstName, &o.LastName, &o.Email, &o.Phone,
		&o.Address, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.NotFound("owner")
	}
	return &o, err
}

func (r *repoPG) Create(ctx context.Context, o *Owner) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO owners (id, user_id, first_name, last_name, email, phone, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.FirstName, o.LastName, o.Email, o.Phone, o.Address).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if isUniqueViolation(err) {
		return clinicerr.Conflict("email", "an owner with this email already exists")
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Owner, error) {
	return scanOwner(r.conn(ctx).QueryRow(ctx, `SELECT `+ownerCols+` FROM owners WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, o *Owner) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE owners SET user_id=$2, first_name=$3, last_name=$4, email=$5, phone=$6, address=$7, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.UserID, o.FirstName, o.LastName, o.Email, o.Phone, o.Address)
	if isUniqueViolation(err) {
		return clinicerr.Conflict("email", "an owner with this email already exists")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinicerr.NotFound("owner")
	}
	return nil
}

// Delete removes the owner. Their patients, and those patients'
// appointments, go with them via ON DELETE CASCADE.
func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinicerr.NotFound("owner")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Owner, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM owners`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+ownerCols+` FROM owners ORDER BY last_name ASC, first_name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Owner
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Recent(ctx context.Context, limit int) ([]*OwnerSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT o.id, o.user_id, o.first_name, o.last_name, o.email, o.phone, o.address,
			o.created_at, o.updated_at, COUNT(p.id) AS patient_count
		FROM owners o
		LEFT JOIN patients p ON p.owner_id = o.id
		GROUP BY o.id
		ORDER BY o.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*OwnerSummary
	for rows.Next() {
		var s OwnerSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.FirstName, &s.LastName, &s.Email, &s.Phone,
			&s.Address, &s.CreatedAt, &s.UpdatedAt, &s.PatientCount); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM owners`).Scan(&total)
	return total, err
}

func (r *repoPG) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM owners WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
