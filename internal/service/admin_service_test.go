package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventup/eventup/internal/model"
)

func TestAdminService_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := func() time.Time { return testNow }

	t.Run("aggregates upcoming events and reservation counts", func(t *testing.T) {
		events := newFakeEventStore(
			model.Event{ID: "e1", Status: model.EventPublished, DateTime: testNow.Add(time.Hour), Capacity: 100, ReservedCount: 40},
			model.Event{ID: "e2", Status: model.EventPublished, DateTime: testNow.Add(2 * time.Hour), Capacity: 50, ReservedCount: 35},
			model.Event{ID: "past", Status: model.EventPublished, DateTime: testNow.Add(-time.Hour), Capacity: 500, ReservedCount: 500},
			model.Event{ID: "draft", Status: model.EventDraft, DateTime: testNow.Add(time.Hour), Capacity: 999},
		)
		reservations := newFakeReservationStore(
			model.Reservation{ID: "r1", Status: model.ReservationPending},
			model.Reservation{ID: "r2", Status: model.ReservationConfirmed},
			model.Reservation{ID: "r3", Status: model.ReservationConfirmed},
			model.Reservation{ID: "r4", Status: model.ReservationCancelled},
		)

		stats, err := NewAdminService(events, reservations, now).Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.UpcomingEventsCount, "past and draft events excluded")
		assert.Equal(t, 150, stats.TotalCapacity)
		assert.Equal(t, 75, stats.TotalReserved)
		assert.Equal(t, 50, stats.FillRatePercent)
		assert.Equal(t, model.StatusCounts{Pending: 1, Confirmed: 2, Cancelled: 1}, stats.ReservationsByStatus)
	})

	t.Run("fill rate rounds to nearest integer", func(t *testing.T) {
		events := newFakeEventStore(
			model.Event{ID: "e1", Status: model.EventPublished, DateTime: testNow.Add(time.Hour), Capacity: 3, ReservedCount: 1},
		)
		stats, err := NewAdminService(events, newFakeReservationStore(), now).Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 33, stats.FillRatePercent)
	})

	t.Run("zero capacity yields zero percent", func(t *testing.T) {
		stats, err := NewAdminService(newFakeEventStore(), newFakeReservationStore(), now).Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.FillRatePercent)
		assert.Equal(t, 0, stats.TotalCapacity)
	})
}
