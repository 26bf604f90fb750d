package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"

	"github.com/phpdave11/gofpdf"
)

// BuildTicketReceipt renders a one-page PDF receipt for a ticket and
// returns the document bytes plus a download filename.
func BuildTicketReceipt(d *model.TicketDetails) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ticket Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS TICKET")
	pdf.Ln(12)

	route := "-"
	bus := "-"
	company := "-"
	if d.Schedule != nil {
		route = fmt.Sprintf("%s -> %s", nonEmpty(d.Schedule.DepartureStation.Name, "-"),
			nonEmpty(d.Schedule.ArrivalStation.Name, "-"))
		bus = nonEmpty(d.Schedule.Bus.LicensePlate, "-")
		company = nonEmpty(d.Schedule.Company.CompanyName, "-")
	}
	seat := "-"
	if d.Seat != nil {
		seat = fmt.Sprintf("%s (%s)", d.Seat.SeatNumber, d.Seat.SeatType)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket No  : TKT-%d", d.ID),
		fmt.Sprintf("Status     : %s", d.Status),
		fmt.Sprintf("Route      : %s", route),
		fmt.Sprintf("Departure  : %s", d.DepartureTime.Format("2006-01-02 15:04")),
		fmt.Sprintf("Arrival    : %s", d.ArrivalTime.Format("2006-01-02 15:04")),
		fmt.Sprintf("Seat       : %s", seat),
		fmt.Sprintf("Bus        : %s", bus),
		fmt.Sprintf("Operator   : %s", company),
		fmt.Sprintf("Price      : %.2f", d.Price),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	if len(d.Payments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Payments:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, p := range d.Payments {
			pdf.Cell(0, 6, fmt.Sprintf("%d) %s %.2f (%s)", i+1, p.PaymentMethod, p.Amount, p.Status))
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt is valid for one passenger on one seat. Please present it at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TICKET_%d.pdf", d.ID)
	return buf.Bytes(), filename, nil
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
