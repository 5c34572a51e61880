package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const apptCols = `id, patient_id, vet_id, date_time, reason, notes, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.VetID, &a.DateTime, &a.Reason, &a.Notes,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.NotFound("appointment")
	}
	return &a, err
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	year, month, d := day.Date()
	start := time.Date(year, month, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// There is deliberately no unique constraint on (vet_id, date_time); the
// overlap check in the service layer is the only guard, so two requests
// racing past it can both persist.
func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, vet_id, date_time, reason, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.VetID, a.DateTime, a.Reason, a.Notes, a.Status).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET patient_id=$2, vet_id=$3, date_time=$4, reason=$5, notes=$6, status=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.VetID, a.DateTime, a.Reason, a.Notes, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinicerr.NotFound("appointment")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinicerr.NotFound("appointment")
	}
	return nil
}

func buildWhere(f Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ID != nil {
		conds = append(conds, "id = "+arg(*f.ID))
	}
	if f.Date != nil {
		start, end := dayBounds(*f.Date)
		conds = append(conds, "date_time >= "+arg(start), "date_time < "+arg(end))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.VetID != nil {
		conds = append(conds, "vet_id = "+arg(*f.VetID))
	}
	if f.PatientID != nil {
		conds = append(conds, "patient_id = "+arg(*f.PatientID))
	}
	if f.OwnerUserID != nil {
		conds = append(conds, `patient_id IN (
			SELECT p.id FROM patients p
			JOIN owners o ON o.id = p.owner_id
			WHERE o.user_id = `+arg(*f.OwnerUserID)+`)`)
	}
	if f.From != nil {
		conds = append(conds, "date_time >= "+arg(*f.From))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *repoPG) Search(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	if f.None {
		return nil, 0, nil
	}
	where, args := buildWhere(f)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+apptCols+` FROM appointments%s ORDER BY date_time ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

// FindOverlapping uses strict bounds on both sides, so an existing
// appointment exactly 30 minutes from the candidate does not match.
func (r *repoPG) FindOverlapping(ctx context.Context, vetID uuid.UUID, start time.Time, excludeID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE vet_id = $1 AND status <> $2
		  AND date_time > $3 AND date_time < $4
		  AND id <> $5
		ORDER BY date_time ASC`,
		vetID, StatusCancelled, start.Add(-SlotDuration), start.Add(SlotDuration), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) FindByVetAndDay(ctx context.Context, vetID uuid.UUID, day time.Time) ([]*Appointment, error) {
	start, end := dayBounds(day)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE vet_id = $1 AND status <> $2
		  AND date_time >= $3 AND date_time < $4
		ORDER BY date_time ASC`,
		vetID, StatusCancelled, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) CountOnDay(ctx context.Context, day time.Time) (int, error) {
	start, end := dayBounds(day)
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE date_time >= $1 AND date_time < $2`,
		start, end).Scan(&total)
	return total, err
}

func (r *repoPG) CountByStatus(ctx context.Context, status string) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE status = $1`, status).Scan(&total)
	return total, err
}
