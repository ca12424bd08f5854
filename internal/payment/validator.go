// Package payment validates the simulated card form before a checkout is
// submitted to the reservation API.  Validation is purely syntactic: the
// expiration date is not compared against the current date, expired cards
// are left for the payment processor to reject.
package payment

import (
	"regexp"
	"strings"
)

// Field names a card form input.  The values match the JSON and form keys.
type Field string

const (
	FieldCardNumber Field = "cardNumber"
	FieldCardHolder Field = "cardHolder"
	FieldExpiration Field = "expiration"
	FieldCVV        Field = "cvv"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldCardNumber, FieldCardHolder, FieldExpiration, FieldCVV}

// Error messages returned by Validate.
const (
	MsgCardNumber = "card must have 16 digits"
	MsgCardHolder = "enter the cardholder name"
	MsgExpiration = "invalid format (MM/YY)"
	MsgCVV        = "invalid CVV"
)

var (
	cardNumberRe = regexp.MustCompile(`^[0-9]{16}$`)
	expirationRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvRe        = regexp.MustCompile(`^[0-9]{3}$`)
)

// FormInput holds the raw strings typed into the card form.
type FormInput struct {
	CardNumber string `json:"cardNumber" form:"cardNumber"`
	CardHolder string `json:"cardHolder" form:"cardHolder"`
	Expiration string `json:"expiration" form:"expiration"`
	CVV        string `json:"cvv" form:"cvv"`
}

// FormErrors maps an invalid field to its message.  A field without an
// entry is valid; an empty map means the whole form is valid.
type FormErrors map[Field]string

// Valid reports whether no field failed validation.
func (e FormErrors) Valid() bool { return len(e) == 0 }

// Get returns the message for f, or "" when f is valid.
func (e FormErrors) Get(f Field) string { return e[f] }

// Validate checks every field and accumulates the failures.  It never
// short-circuits and always returns a fresh map.
func Validate(in FormInput) FormErrors {
	errs := FormErrors{}
	if !cardNumberRe.MatchString(in.CardNumber) {
		errs[FieldCardNumber] = MsgCardNumber
	}
	if strings.TrimSpace(in.CardHolder) == "" {
		errs[FieldCardHolder] = MsgCardHolder
	}
	if !expirationRe.MatchString(in.Expiration) {
		errs[FieldExpiration] = MsgExpiration
	}
	if !cvvRe.MatchString(in.CVV) {
		errs[FieldCVV] = MsgCVV
	}
	return errs
}
