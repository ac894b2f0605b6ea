package model

// EventStatus is the lifecycle state of an event.
//
// DRAFT events are only visible to admins and may be edited or deleted.
// PUBLISHED events are visible to everyone and can be reserved.
// CANCELLED is terminal.
type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventCancelled EventStatus = "CANCELLED"
)

// ReservationStatus is the lifecycle state of a reservation.
//
// Reservations start PENDING, may be CONFIRMED by their owner or an admin,
// and end CANCELLED. CANCELLED is terminal.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// eventTransitions is the full transition table for events. A nil entry
// means the state is terminal.
var eventTransitions = map[EventStatus][]EventStatus{
	EventDraft:     {EventPublished, EventCancelled},
	EventPublished: {EventCancelled},
	EventCancelled: nil,
}

// reservationTransitions is the full transition table for reservations.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCancelled},
	ReservationCancelled: nil,
}

// CanTransitionTo reports whether the transition is in the event table.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	_, ok := eventTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition is in the reservation table.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	_, ok := reservationTransitions[s]
	return ok
}
