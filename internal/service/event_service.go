// Package service implements business logic and orchestration between HTTP
// handlers and the repository layer. Services own the lifecycle state
// machines; repositories only move rows.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eventup/eventup/internal/clock"
	"github.com/eventup/eventup/internal/model"
)

// EventStore is the persistence surface the event service needs.
type EventStore interface {
	Insert(ctx context.Context, e model.Event) error
	List(ctx context.Context) ([]model.Event, error)
	ListPublishedUpcoming(ctx context.Context, now time.Time) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, e model.Event) error
	Delete(ctx context.Context, id string) error
	ClaimCapacity(ctx context.Context, id string) (bool, error)
	ReleaseCapacity(ctx context.Context, id string) error
}

// EventService owns the event status state machine and its capacity counters.
type EventService struct {
	events EventStore
	clock  clock.Clock
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore, clk clock.Clock) *EventService {
	return &EventService{events: events, clock: clk}
}

// CreateEventInput is the payload for creating an event.
type CreateEventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
}

// UpdateEventInput carries the optional fields of a partial event update.
// Status is deliberately absent: status only changes via Publish and Cancel.
type UpdateEventInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DateTime    *time.Time `json:"date_time"`
	Location    *string    `json:"location"`
	Capacity    *int       `json:"capacity"`
}

// Create validates the input and persists a new DRAFT event.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*model.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return nil, fmt.Errorf("event location is required")
	}
	if in.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be a positive integer")
	}
	if in.Capacity > 100_000 {
		return nil, fmt.Errorf("capacity cannot exceed 100,000")
	}
	now := s.clock.Now()
	if !in.DateTime.After(now) {
		return nil, fmt.Errorf("event date must be in the future")
	}

	event := model.Event{
		ID:            uuid.New().String(),
		Title:         in.Title,
		Description:   in.Description,
		DateTime:      in.DateTime.UTC(),
		Location:      in.Location,
		Capacity:      in.Capacity,
		Status:        model.EventDraft,
		ReservedCount: 0,
		CreatedAt:     now,
	}
	if err := s.events.Insert(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns all events (admin view, drafts included).
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// ListPublished returns published events that have not yet taken place.
func (s *EventService) ListPublished(ctx context.Context) ([]model.Event, error) {
	return s.events.ListPublishedUpcoming(ctx, s.clock.Now())
}

// Get returns a single event by id.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// Publish moves a DRAFT event to PUBLISHED. The error message distinguishes
// an already-published event from a cancelled one.
func (s *EventService) Publish(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(model.EventPublished) {
		if event.Status == model.EventPublished {
			return nil, fmt.Errorf("%w: event is already published", model.ErrInvalidTransition)
		}
		return nil, fmt.Errorf("%w: cannot publish a cancelled event", model.ErrInvalidTransition)
	}
	event.Status = model.EventPublished
	if err := s.events.Update(ctx, *event); err != nil {
		return nil, err
	}
	return event, nil
}

// Cancel moves a DRAFT or PUBLISHED event to CANCELLED.
func (s *EventService) Cancel(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(model.EventCancelled) {
		return nil, fmt.Errorf("%w: event is already cancelled", model.ErrInvalidTransition)
	}
	event.Status = model.EventCancelled
	if err := s.events.Update(ctx, *event); err != nil {
		return nil, err
	}
	return event, nil
}

// Update applies a partial update to an event's details. Cancelled events
// are frozen, and capacity can never drop below the seats already reserved.
func (s *EventService) Update(ctx context.Context, id string, in UpdateEventInput) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == model.EventCancelled {
		return nil, fmt.Errorf("%w: cannot update a cancelled event", model.ErrInvalidState)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("event title is required")
		}
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.DateTime != nil {
		event.DateTime = in.DateTime.UTC()
	}
	if in.Location != nil {
		if strings.TrimSpace(*in.Location) == "" {
			return nil, fmt.Errorf("event location is required")
		}
		event.Location = *in.Location
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return nil, fmt.Errorf("capacity must be a positive integer")
		}
		if *in.Capacity < event.ReservedCount {
			return nil, fmt.Errorf("%w: capacity cannot drop below the %d reserved places", model.ErrInvalidState, event.ReservedCount)
		}
		event.Capacity = *in.Capacity
	}

	if err := s.events.Update(ctx, *event); err != nil {
		return nil, err
	}
	return event, nil
}

// Remove deletes an event, which is only allowed while it is still a draft.
func (s *EventService) Remove(ctx context.Context, id string) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.Status != model.EventDraft {
		return fmt.Errorf("%w: only draft events can be deleted, use cancel for published events", model.ErrInvalidState)
	}
	return s.events.Delete(ctx, id)
}

// ClaimCapacity atomically takes one seat if any remains. Used by the
// reservation service on the booking path.
func (s *EventService) ClaimCapacity(ctx context.Context, id string) (bool, error) {
	return s.events.ClaimCapacity(ctx, id)
}

// ReleaseCapacity frees one seat. Used when a reservation is cancelled or as
// compensation for a booking that failed to persist.
func (s *EventService) ReleaseCapacity(ctx context.Context, id string) error {
	return s.events.ReleaseCapacity(ctx, id)
}
