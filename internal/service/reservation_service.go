package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eventup/eventup/internal/clock"
	"github.com/eventup/eventup/internal/model"
)

// ReservationStore is the persistence surface the reservation service needs.
type ReservationStore interface {
	Insert(ctx context.Context, r model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	FindActive(ctx context.Context, eventID, userID string) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status model.ReservationStatus, updatedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Reservation, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
	CountByStatus(ctx context.Context) (model.StatusCounts, error)
}

// EventDirectory is how the reservation service reaches the event manager:
// eligibility lookups plus the capacity claim/release pair.
type EventDirectory interface {
	Get(ctx context.Context, id string) (*model.Event, error)
	ClaimCapacity(ctx context.Context, id string) (bool, error)
	ReleaseCapacity(ctx context.Context, id string) error
}

// UserDirectory resolves participants for the ticket projection.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// TicketRenderer turns the ticket projection into a downloadable document.
type TicketRenderer interface {
	Render(data model.TicketData) ([]byte, error)
}

// Notifier publishes reservation lifecycle notifications. Implementations
// are best-effort; a nil Notifier disables publishing.
type Notifier interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// ReservationService owns the reservation status state machine and keeps it
// in step with the event capacity counters.
type ReservationService struct {
	reservations ReservationStore
	events       EventDirectory
	users        UserDirectory
	tickets      TicketRenderer
	notifier     Notifier
	clock        clock.Clock
}

// NewReservationService constructs a ReservationService. tickets and notifier
// may be nil when those features are not wired.
func NewReservationService(
	reservations ReservationStore,
	events EventDirectory,
	users UserDirectory,
	tickets TicketRenderer,
	notifier Notifier,
	clk clock.Clock,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		events:       events,
		users:        users,
		tickets:      tickets,
		notifier:     notifier,
		clock:        clk,
	}
}

// Create books one place on an event for a user.
//
// The booking is a claim-then-persist saga: the capacity claim is a single
// atomic conditional update on the event row, and the reservation insert can
// still fail afterwards (most likely the partial unique index rejecting a
// concurrent duplicate). In that case the claim is rolled back before the
// error surfaces, so a claimed-but-unpersisted seat never stays claimed.
//
// The in-process duplicate check below is an optimisation for a friendly
// error message; the unique index is the actual guarantee.
func (s *ReservationService) Create(ctx context.Context, eventID, userID string) (*model.Reservation, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventPublished {
		return nil, fmt.Errorf("%w: only published events can be reserved", model.ErrInvalidState)
	}
	now := s.clock.Now()
	if event.DateTime.Before(now) {
		return nil, fmt.Errorf("%w: event already passed", model.ErrInvalidState)
	}
	existing, err := s.reservations.FindActive(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: you already have a reservation for this event", model.ErrConflict)
	}

	claimed, err := s.events.ClaimCapacity(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, model.ErrCapacityExhausted
	}

	reservation := model.Reservation{
		ID:        uuid.New().String(),
		EventID:   eventID,
		UserID:    userID,
		Status:    model.ReservationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reservations.Insert(ctx, reservation); err != nil {
		// Compensate: the seat was claimed but the reservation never
		// materialised, so hand the seat back before reporting.
		if relErr := s.events.ReleaseCapacity(ctx, eventID); relErr != nil {
			log.Printf("release capacity for event %s after failed insert: %v", eventID, relErr)
		}
		return nil, err
	}
	return &reservation, nil
}

// Confirm moves a PENDING reservation to CONFIRMED, owner only.
func (s *ReservationService) Confirm(ctx context.Context, id, userID string) (*model.Reservation, error) {
	return s.confirm(ctx, id, userID)
}

// AdminConfirm confirms a reservation without an ownership check.
func (s *ReservationService) AdminConfirm(ctx context.Context, id string) (*model.Reservation, error) {
	return s.confirm(ctx, id, "")
}

func (s *ReservationService) confirm(ctx context.Context, id, userID string) (*model.Reservation, error) {
	reservation, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !reservation.Status.CanTransitionTo(model.ReservationConfirmed) {
		return nil, fmt.Errorf("%w: only a pending reservation can be confirmed", model.ErrInvalidState)
	}
	now := s.clock.Now()
	if err := s.reservations.UpdateStatus(ctx, id, model.ReservationConfirmed, now); err != nil {
		return nil, err
	}
	reservation.Status = model.ReservationConfirmed
	reservation.UpdatedAt = now
	s.publish(ctx, "reservation.confirmed", reservation)
	return reservation, nil
}

// Cancel moves a reservation to CANCELLED and frees its seat, owner only.
func (s *ReservationService) Cancel(ctx context.Context, id, userID string) (*model.Reservation, error) {
	return s.cancel(ctx, id, userID)
}

// AdminCancel cancels any reservation and frees its seat.
func (s *ReservationService) AdminCancel(ctx context.Context, id string) (*model.Reservation, error) {
	return s.cancel(ctx, id, "")
}

// AdminRefuse rejects a reservation. It is the same transition as an admin
// cancellation: the reservation ends CANCELLED and the seat is freed.
func (s *ReservationService) AdminRefuse(ctx context.Context, id string) (*model.Reservation, error) {
	return s.cancel(ctx, id, "")
}

func (s *ReservationService) cancel(ctx context.Context, id, userID string) (*model.Reservation, error) {
	reservation, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !reservation.Status.CanTransitionTo(model.ReservationCancelled) {
		return nil, fmt.Errorf("%w: reservation is already cancelled", model.ErrInvalidState)
	}
	now := s.clock.Now()
	if err := s.reservations.UpdateStatus(ctx, id, model.ReservationCancelled, now); err != nil {
		return nil, err
	}
	// Entering CANCELLED from an active state frees exactly one seat.
	if err := s.events.ReleaseCapacity(ctx, reservation.EventID); err != nil {
		log.Printf("release capacity for event %s after cancellation: %v", reservation.EventID, err)
	}
	reservation.Status = model.ReservationCancelled
	reservation.UpdatedAt = now
	s.publish(ctx, "reservation.cancelled", reservation)
	return reservation, nil
}

// Update dispatches a status patch through the state machine: CONFIRMED
// routes to Confirm, CANCELLED routes to Cancel. Any other status change is
// rejected so the state machine cannot be bypassed.
func (s *ReservationService) Update(ctx context.Context, id string, status model.ReservationStatus, userID string) (*model.Reservation, error) {
	switch status {
	case model.ReservationConfirmed:
		return s.Confirm(ctx, id, userID)
	case model.ReservationCancelled:
		return s.Cancel(ctx, id, userID)
	default:
		return nil, fmt.Errorf("%w: reservation status cannot be set directly", model.ErrInvalidState)
	}
}

// Get returns a reservation. When userID is non-empty the caller must be the
// owner; admins pass an empty userID.
func (s *ReservationService) Get(ctx context.Context, id, userID string) (*model.Reservation, error) {
	return s.getOwned(ctx, id, userID)
}

func (s *ReservationService) getOwned(ctx context.Context, id, userID string) (*model.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != "" && reservation.UserID != userID {
		return nil, fmt.Errorf("%w: this reservation does not belong to you", model.ErrForbidden)
	}
	return reservation, nil
}

// ListByUser returns a user's reservations.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// ListByEvent returns an event's reservations (admin).
func (s *ReservationService) ListByEvent(ctx context.Context, eventID string) ([]model.Reservation, error) {
	return s.reservations.ListByEvent(ctx, eventID)
}

// ListAll returns every reservation (admin).
func (s *ReservationService) ListAll(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.ListAll(ctx)
}

// CountByStatus groups reservation totals by status (admin aggregation).
func (s *ReservationService) CountByStatus(ctx context.Context) (model.StatusCounts, error) {
	return s.reservations.CountByStatus(ctx)
}

// Ticket renders the PDF ticket for a CONFIRMED reservation. When userID is
// non-empty the caller must own the reservation.
func (s *ReservationService) Ticket(ctx context.Context, id, userID string) ([]byte, error) {
	if s.tickets == nil {
		return nil, fmt.Errorf("ticket rendering is not configured")
	}
	reservation, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != model.ReservationConfirmed {
		return nil, fmt.Errorf("%w: only a confirmed reservation has a ticket", model.ErrInvalidState)
	}

	event, err := s.events.Get(ctx, reservation.EventID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, reservation.UserID)
	if err != nil {
		return nil, err
	}

	confirmedAt := reservation.UpdatedAt
	return s.tickets.Render(model.TicketData{
		EventTitle:       event.Title,
		EventDateTime:    event.DateTime,
		EventLocation:    event.Location,
		ParticipantName:  user.FullName(),
		ParticipantEmail: user.Email,
		ReservationID:    reservation.ID,
		ConfirmedAt:      &confirmedAt,
	})
}

// publish sends a best-effort notification; failures are logged, never
// surfaced, because the reservation state has already changed.
func (s *ReservationService) publish(ctx context.Context, key string, r *model.Reservation) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishJSON(ctx, key, r); err != nil {
		log.Printf("publish %s for reservation %s: %v", key, r.ID, err)
	}
}
