package model

import (
    "bytes"
    "encoding/json"
    "fmt"
    "strings"
)

// Status is the lifecycle state of a reservation as reported by the
// reservation API.  Reservations are created PENDING and move to PAID
// once checkout succeeds.
type Status string

const (
    StatusPending Status = "PENDING"
    StatusPaid    Status = "PAID"
)

// IsPaid reports whether the reservation has already been paid for.
func (s Status) IsPaid() bool { return s == StatusPaid }

// ReservationID identifies a reservation.  The API may encode it as a
// JSON string or number; both decode to the same textual form.
type ReservationID string

// UnmarshalJSON accepts "abc", "42" and 42.
func (id *ReservationID) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    if bytes.Equal(b, []byte("null")) {
        *id = ""
        return nil
    }
    if len(b) > 0 && b[0] == '"' {
        var s string
        if err := json.Unmarshal(b, &s); err != nil {
            return err
        }
        *id = ReservationID(s)
        return nil
    }
    var n json.Number
    if err := json.Unmarshal(b, &n); err != nil {
        return fmt.Errorf("reservation id: %w", err)
    }
    *id = ReservationID(n.String())
    return nil
}

func (id ReservationID) String() string { return string(id) }

// Reservation is the read-only summary returned by GET /reservations/{id}.
// It is owned by the reservation API; this service only displays it and
// branches on Status.
type Reservation struct {
    ID        ReservationID `json:"id"`
    Email     string        `json:"email"`
    Category  Category      `json:"category"`
    Quantity  int           `json:"quantity"`
    Total     float64       `json:"total"`
    Status    Status        `json:"status"`
    StartDate string        `json:"startDate,omitempty"`
    EndDate   string        `json:"endDate,omitempty"`
}

// StartDay returns the calendar part of StartDate ("2025-01-02T00:00:00Z" -> "2025-01-02").
func (r Reservation) StartDay() string { return datePart(r.StartDate) }

// EndDay returns the calendar part of EndDate.
func (r Reservation) EndDay() string { return datePart(r.EndDate) }

func datePart(s string) string {
    if i := strings.IndexByte(s, 'T'); i >= 0 {
        return s[:i]
    }
    return s
}

// ReservationRequest is the body of POST /reservations.
type ReservationRequest struct {
    Email     string   `json:"email"`
    Category  Category `json:"category"`
    Quantity  int      `json:"quantity"`
    StartDate string   `json:"startDate"`
    EndDate   string   `json:"endDate"`
}
