package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides Postgres persistence for appointments.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("appointments: db required")
	}
	return &Repository{db: db}
}

const appointmentColumns = "id, name, email, date, hour, status, created_at"

// Insert persists a new appointment. A collision with the partial unique
// index on (date, hour) surfaces as ErrSlotTaken.
func (r *Repository) Insert(ctx context.Context, a *Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (id, name, email, date, hour, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Name, a.Email, a.Date, a.Hour, a.Status, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// Get loads one appointment by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get: %w", err)
	}
	return a, nil
}

// List returns appointments in insertion order, optionally filtered by
// status. An empty status returns everything.
func (r *Repository) List(ctx context.Context, status Status) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: list scan: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}
	return out, nil
}

// ListActiveOnDate returns the non-rejected appointments booked for a
// calendar day. The service feeds these to the validation pre-check.
func (r *Repository) ListActiveOnDate(ctx context.Context, date time.Time) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1 AND status <> $2
		ORDER BY hour`, DateOnly(date), StatusRejected)
	if err != nil {
		return nil, fmt.Errorf("appointments: list active: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: list active scan: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list active rows: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the status of an appointment and returns the updated row.
// Re-activating an appointment whose slot has since been rebooked trips the
// partial unique index and surfaces as ErrSlotTaken.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments SET status = $2
		WHERE id = $1
		RETURNING `+appointmentColumns, id, status)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return a, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Date, &a.Hour, &a.Status, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Date = DateOnly(a.Date)
	return &a, nil
}
