// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationPaidQueue is the durable queue carrying ReservationPaidEvent.
const ReservationPaidQueue = "reservation.paid"

// ReservationPaidEvent is published when a checkout on this storefront ends
// Confirmed.  It carries the summary shown to the visitor so consumers can
// log or notify without calling the reservation API.
type ReservationPaidEvent struct {
    EventID       string  `json:"event_id"`
    ReservationID string  `json:"reservation_id"`
    SessionID     string  `json:"session_id"`
    Email         string  `json:"email"`
    Category      string  `json:"category"`
    Quantity      int     `json:"quantity"`
    Total         float64 `json:"total"`
    StartDate     string  `json:"start_date,omitempty"`
    EndDate       string  `json:"end_date,omitempty"`
    ConfirmedAt   string  `json:"confirmed_at"`
}
