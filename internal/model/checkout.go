package model

// CheckoutRequest is the body of POST /checkout.  Card data is forwarded to
// the reservation API and never stored.
type CheckoutRequest struct {
    ReservationID ReservationID `json:"reservationId"`
    CardNumber    string        `json:"cardNumber"`
    CardHolder    string        `json:"cardHolder"`
    Expiration    string        `json:"expiration"`
    CVV           string        `json:"cvv"`
}

// CheckoutResult is the body returned by POST /checkout.  Both fields are
// optional on the wire.
type CheckoutResult struct {
    Status  Status `json:"status,omitempty"`
    Message string `json:"message,omitempty"`
}
