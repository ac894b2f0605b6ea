package service

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eventup/eventup/internal/model"
)

// EventLister is the read surface the admin dashboard needs from events.
type EventLister interface {
	ListPublishedUpcoming(ctx context.Context, now time.Time) ([]model.Event, error)
}

// ReservationCounter is the read surface it needs from reservations.
type ReservationCounter interface {
	CountByStatus(ctx context.Context) (model.StatusCounts, error)
}

// AdminService composes read-only statistics over events and reservations.
type AdminService struct {
	events       EventLister
	reservations ReservationCounter
	now          func() time.Time
}

// NewAdminService constructs an AdminService.
func NewAdminService(events EventLister, reservations ReservationCounter, now func() time.Time) *AdminService {
	return &AdminService{events: events, reservations: reservations, now: now}
}

// Stats fetches upcoming events and reservation counts concurrently and
// derives total capacity, total reserved, and the fill rate.
func (s *AdminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	var (
		upcoming []model.Event
		counts   model.StatusCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		upcoming, err = s.events.ListPublishedUpcoming(gctx, s.now())
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.reservations.CountByStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalCapacity := 0
	totalReserved := 0
	for _, e := range upcoming {
		totalCapacity += e.Capacity
		totalReserved += e.ReservedCount
	}

	fillRate := 0
	if totalCapacity > 0 {
		fillRate = int(math.Round(float64(totalReserved) / float64(totalCapacity) * 100))
	}

	return &model.AdminStats{
		UpcomingEventsCount:  len(upcoming),
		FillRatePercent:      fillRate,
		TotalCapacity:        totalCapacity,
		TotalReserved:        totalReserved,
		ReservationsByStatus: counts,
	}, nil
}
