// Package receipt renders the printable summary of a paid reservation.
package receipt

import (
    "bytes"
    "errors"
    "fmt"
    "time"

    "github.com/jung-kurt/gofpdf"

    "github.com/iliyamo/reservas-express/internal/model"
)

// ErrNotPaid is returned for reservations that have not been paid yet.
var ErrNotPaid = errors.New("receipt: reservation is not paid")

// Render builds an A4 PDF with the reservation summary and the ticket link.
// issued is printed as the receipt date.
func Render(r model.Reservation, ticketURL string, issued time.Time) ([]byte, error) {
    if !r.Status.IsPaid() {
        return nil, ErrNotPaid
    }

    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.SetTitle(fmt.Sprintf("Reservation %s", r.ID), true)
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.AddPage()

    pdf.SetFont("Arial", "B", 16)
    pdf.Cell(190, 10, "Reservas Express")
    pdf.Ln(12)

    pdf.SetFont("Arial", "", 12)
    line := func(label, value string) {
        pdf.CellFormat(50, 8, tr(label), "", 0, "L", false, 0, "")
        pdf.CellFormat(140, 8, tr(value), "", 1, "L", false, 0, "")
    }
    line("Reservation", r.ID.String())
    line("Date", issued.Format("2006-01-02 15:04"))
    line("Email", r.Email)
    line("Category", string(r.Category))
    line("Quantity", fmt.Sprintf("%d", r.Quantity))
    if r.StartDate != "" || r.EndDate != "" {
        line("Dates", fmt.Sprintf("%s to %s", r.StartDay(), r.EndDay()))
    }
    line("Total", fmt.Sprintf("$%.2f", r.Total))
    line("Status", string(r.Status))

    if ticketURL != "" {
        pdf.Ln(6)
        pdf.SetFont("Arial", "U", 11)
        pdf.SetTextColor(0, 0, 200)
        pdf.CellFormat(190, 8, "Ticket", "", 1, "L", false, 0, ticketURL)
    }

    var buf bytes.Buffer
    if err := pdf.Output(&buf); err != nil {
        return nil, fmt.Errorf("receipt: render: %w", err)
    }
    return buf.Bytes(), nil
}
