// Package model defines the core domain types for the event reservation platform.
package model

import "time"

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleParticipant Role = "PARTICIPANT"
)

// User is an account that can reserve places and, for admins, moderate them.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName returns the display name used on tickets.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Event represents a schedulable happening with finite capacity.
type Event struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	DateTime      time.Time   `json:"date_time"`
	Location      string      `json:"location"`
	Capacity      int         `json:"capacity"`
	Status        EventStatus `json:"status"`
	ReservedCount int         `json:"reserved_count"`
	CreatedAt     time.Time   `json:"created_at"`
}

// RemainingPlaces returns the number of available seats, never negative.
func (e *Event) RemainingPlaces() int {
	if r := e.Capacity - e.ReservedCount; r > 0 {
		return r
	}
	return 0
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.ReservedCount >= e.Capacity
}

// Reservation is a participant's claim on one seat of an event.
// It references its event and user by id only.
type Reservation struct {
	ID        string            `json:"id"`
	EventID   string            `json:"event_id"`
	UserID    string            `json:"user_id"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsActive reports whether the reservation counts toward capacity and the
// one-active-reservation-per-user constraint.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}

// TicketData is the read-only projection handed to the ticket renderer.
type TicketData struct {
	EventTitle       string
	EventDateTime    time.Time
	EventLocation    string
	ParticipantName  string
	ParticipantEmail string
	ReservationID    string
	ConfirmedAt      *time.Time
}

// StatusCounts groups reservation totals by status for the admin dashboard.
type StatusCounts struct {
	Pending   int `json:"PENDING"`
	Confirmed int `json:"CONFIRMED"`
	Cancelled int `json:"CANCELLED"`
}

// AdminStats is the aggregated dashboard payload.
type AdminStats struct {
	UpcomingEventsCount  int          `json:"upcoming_events_count"`
	FillRatePercent      int          `json:"fill_rate_percent"`
	TotalCapacity        int          `json:"total_capacity"`
	TotalReserved        int          `json:"total_reserved"`
	ReservationsByStatus StatusCounts `json:"reservations_by_status"`
}
