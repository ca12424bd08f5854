package model

import "time"

// CheckoutAttempt is one payment submission as seen by this storefront.
// It is kept for support and auditing.  Card data is never part of it.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation the payment was submitted for.
//  SessionID     – storefront session that submitted it.
//  Outcome       – CONFIRMED or FAILED.
//  Message       – failure message shown to the visitor, empty on success.
//  CreatedAt     – submission timestamp.
type CheckoutAttempt struct {
    ID            uint64        // checkout_attempts.id
    ReservationID ReservationID // checkout_attempts.reservation_id
    SessionID     string        // checkout_attempts.session_id
    Outcome       string        // checkout_attempts.outcome
    Message       string        // checkout_attempts.message
    CreatedAt     time.Time     // checkout_attempts.created_at
}
