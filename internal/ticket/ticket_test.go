package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventup/eventup/internal/model"
)

func sampleTicket() model.TicketData {
	confirmed := time.Date(2026, 5, 30, 9, 0, 0, 0, time.UTC)
	return model.TicketData{
		EventTitle:       "Go Meetup Lyon",
		EventDateTime:    time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
		EventLocation:    "Hôtel de Ville, Lyon",
		ParticipantName:  "Ana Duval",
		ParticipantEmail: "ana@example.com",
		ReservationID:    "3f2c9a10-5a7e-4d2b-9c41-8e5f6a7b8c9d",
		ConfirmedAt:      &confirmed,
	}
}

func TestRendererProducesPDF(t *testing.T) {
	t.Parallel()

	pdf, err := NewRenderer().Render(sampleTicket())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output must be a PDF document")
	assert.Greater(t, len(pdf), 500)
}

func TestRendererHandlesMissingConfirmation(t *testing.T) {
	t.Parallel()

	data := sampleTicket()
	data.ConfirmedAt = nil
	pdf, err := NewRenderer().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
