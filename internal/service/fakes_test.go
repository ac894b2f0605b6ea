package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eventup/eventup/internal/model"
)

// fakeEventStore is an in-memory EventStore whose ClaimCapacity performs the
// same check-and-increment atomically, mirroring the conditional UPDATE the
// real repository issues.
type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]model.Event

	claims   int
	releases int
}

func newFakeEventStore(events ...model.Event) *fakeEventStore {
	s := &fakeEventStore{events: make(map[string]model.Event)}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (s *fakeEventStore) Insert(_ context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
	return nil
}

func (s *fakeEventStore) List(_ context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	return out, nil
}

func (s *fakeEventStore) ListPublishedUpcoming(_ context.Context, now time.Time) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		if e.Status == model.EventPublished && !e.DateTime.Before(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := e
	return &cp, nil
}

func (s *fakeEventStore) Update(_ context.Context, e model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return model.ErrNotFound
	}
	// Preserve the counter: Update never touches reserved_count.
	e.ReservedCount = s.events[e.ID].ReservedCount
	s.events[e.ID] = e
	return nil
}

func (s *fakeEventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *fakeEventStore) ClaimCapacity(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return false, model.ErrNotFound
	}
	if e.ReservedCount >= e.Capacity {
		return false, nil
	}
	e.ReservedCount++
	s.events[id] = e
	s.claims++
	return true, nil
}

func (s *fakeEventStore) ReleaseCapacity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return model.ErrNotFound
	}
	if e.ReservedCount > 0 {
		e.ReservedCount--
	}
	s.events[id] = e
	s.releases++
	return nil
}

func (s *fakeEventStore) reservedCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id].ReservedCount
}

// fakeReservationStore is an in-memory ReservationStore that enforces the
// one-active-reservation constraint on Insert, like the partial unique index.
type fakeReservationStore struct {
	mu           sync.Mutex
	reservations map[string]model.Reservation

	insertErr error // forced Insert failure, for compensation tests
}

func newFakeReservationStore(reservations ...model.Reservation) *fakeReservationStore {
	s := &fakeReservationStore{reservations: make(map[string]model.Reservation)}
	for _, r := range reservations {
		s.reservations[r.ID] = r
	}
	return s
}

func (s *fakeReservationStore) Insert(_ context.Context, r model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, existing := range s.reservations {
		if existing.EventID == r.EventID && existing.UserID == r.UserID && existing.IsActive() {
			return fmt.Errorf("%w: active reservation already exists", model.ErrConflict)
		}
	}
	s.reservations[r.ID] = r
	return nil
}

func (s *fakeReservationStore) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (s *fakeReservationStore) FindActive(_ context.Context, eventID, userID string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.EventID == eventID && r.UserID == userID && r.IsActive() {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeReservationStore) UpdateStatus(_ context.Context, id string, status model.ReservationStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return model.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	s.reservations[id] = r
	return nil
}

func (s *fakeReservationStore) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeReservationStore) ListByEvent(_ context.Context, eventID string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeReservationStore) ListAll(_ context.Context) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeReservationStore) CountByStatus(_ context.Context) (model.StatusCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var counts model.StatusCounts
	for _, r := range s.reservations {
		switch r.Status {
		case model.ReservationPending:
			counts.Pending++
		case model.ReservationConfirmed:
			counts.Confirmed++
		case model.ReservationCancelled:
			counts.Cancelled++
		}
	}
	return counts, nil
}

func (s *fakeReservationStore) activeCountForEvent(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reservations {
		if r.EventID == eventID && r.IsActive() {
			n++
		}
	}
	return n
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users map[string]model.User
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Insert(_ context.Context, u model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already registered", model.ErrConflict)
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (s *fakeUserStore) ListParticipants(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.Role == model.RoleParticipant {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeNotifier records published messages.
type fakeNotifier struct {
	mu   sync.Mutex
	keys []string
}

func (n *fakeNotifier) PublishJSON(_ context.Context, key string, _ any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys = append(n.keys, key)
	return nil
}

// fakeRenderer returns the projection's reservation id as the "document".
type fakeRenderer struct{}

func (fakeRenderer) Render(data model.TicketData) ([]byte, error) {
	return []byte("ticket:" + data.ReservationID), nil
}
