package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventup/eventup/internal/model"
)

// ReservationRepository handles persistence for reservations.
type ReservationRepository struct {
	db *pgxpool.Pool
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, event_id, user_id, status, created_at, updated_at`

// Insert persists a new reservation. A concurrent duplicate for the same
// (event, user) pair trips the partial unique index and surfaces as
// model.ErrConflict; this index is the final backstop beneath the service
// layer's duplicate check.
func (r *ReservationRepository) Insert(ctx context.Context, res model.Reservation) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reservations (`+reservationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.EventID, res.UserID, res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: active reservation already exists", model.ErrConflict)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID returns a single reservation or model.ErrNotFound.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id,
	).Scan(&res.ID, &res.EventID, &res.UserID, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// FindActive returns the PENDING or CONFIRMED reservation for the pair, or
// nil when none exists.
func (r *ReservationRepository) FindActive(ctx context.Context, eventID, userID string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE event_id = $1 AND user_id = $2 AND status IN ($3, $4)`,
		eventID, userID, model.ReservationPending, model.ReservationConfirmed,
	).Scan(&res.ID, &res.EventID, &res.UserID, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active reservation: %w", err)
	}
	return &res, nil
}

// UpdateStatus moves a reservation to a new status and stamps updated_at.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reservations SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return r.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListByEvent returns an event's reservations, newest first.
func (r *ReservationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Reservation, error) {
	return r.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepository) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return r.queryReservations(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY created_at DESC`)
}

func (r *ReservationRepository) queryReservations(ctx context.Context, sql string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.EventID, &res.UserID, &res.Status,
			&res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// CountByStatus groups reservation totals by status.
func (r *ReservationRepository) CountByStatus(ctx context.Context) (model.StatusCounts, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM reservations GROUP BY status`)
	if err != nil {
		return model.StatusCounts{}, fmt.Errorf("count reservations: %w", err)
	}
	defer rows.Close()

	var counts model.StatusCounts
	for rows.Next() {
		var status model.ReservationStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return model.StatusCounts{}, fmt.Errorf("scan count: %w", err)
		}
		switch status {
		case model.ReservationPending:
			counts.Pending = n
		case model.ReservationConfirmed:
			counts.Confirmed = n
		case model.ReservationCancelled:
			counts.Cancelled = n
		}
	}
	return counts, rows.Err()
}
