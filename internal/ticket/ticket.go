// Package ticket renders reservation confirmations as fixed-layout A5 PDF
// documents. Rendering is a pure function of the ticket projection.
package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/eventup/eventup/internal/model"
)

const dateLayout = "Mon, 02 Jan 2006 15:04 MST"

// Renderer produces PDF tickets.
type Renderer struct{}

// NewRenderer constructs a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds the ticket document. Any failure is a rendering fault, not
// business logic; eligibility is checked by the caller.
func (r *Renderer) Render(data model.TicketData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 9, "EventUP", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Confirmed reservation ticket", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 7, data.EventTitle, "", "L", false)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Date: "+data.EventDateTime.Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Location: "+data.EventLocation, "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Participant", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Name: "+data.ParticipantName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Email: "+data.ParticipantEmail, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(102, 102, 102)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Reservation #"+data.ReservationID, "", 1, "C", false, 0, "")
	if data.ConfirmedAt != nil {
		pdf.CellFormat(0, 5, "Confirmed on "+data.ConfirmedAt.UTC().Format(time.RFC1123), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, "This ticket is valid on presentation at the event entrance.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket: %w", err)
	}
	return buf.Bytes(), nil
}
