// Package repository implements all database queries for the platform.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventup/eventup/internal/model"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, date_time, location, capacity, status, reserved_count, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.DateTime, &e.Location,
		&e.Capacity, &e.Status, &e.ReservedCount, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

// Insert persists a new event.
func (r *EventRepository) Insert(ctx context.Context, e model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Title, e.Description, e.DateTime, e.Location,
		e.Capacity, e.Status, e.ReservedCount, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns all events ordered by date ascending.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date_time ASC`)
}

// ListPublishedUpcoming returns published events whose date has not passed.
func (r *EventRepository) ListPublishedUpcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE status = $1 AND date_time >= $2
		 ORDER BY date_time ASC`,
		model.EventPublished, now)
}

func (r *EventRepository) queryEvents(ctx context.Context, sql string, args ...any) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.DateTime, &e.Location,
			&e.Capacity, &e.Status, &e.ReservedCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or model.ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// Update rewrites the mutable fields of an event, including its status.
func (r *EventRepository) Update(ctx context.Context, e model.Event) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, date_time = $4, location = $5,
		     capacity = $6, status = $7
		 WHERE id = $1`,
		e.ID, e.Title, e.Description, e.DateTime, e.Location, e.Capacity, e.Status,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes an event row. The service layer only permits this for drafts.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ClaimCapacity attempts to take one seat with a single conditional update.
//
// The predicate (reserved_count < capacity) and the increment run as one
// indivisible statement, so two concurrent claims can never both succeed on
// the last seat. Returns false, without error, when the event is full.
func (r *EventRepository) ClaimCapacity(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET reserved_count = reserved_count + 1
		 WHERE id = $1 AND reserved_count < capacity`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("claim capacity: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Zero rows means either a full event or a missing one.
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("claim capacity: %w", err)
	}
	if !exists {
		return false, model.ErrNotFound
	}
	return false, nil
}

// ReleaseCapacity frees one seat, never dropping the counter below zero.
func (r *EventRepository) ReleaseCapacity(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET reserved_count = GREATEST(reserved_count - 1, 0)
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("release capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
