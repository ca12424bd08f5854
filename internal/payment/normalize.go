package payment

import "strings"

// Normalize applies the input masks of the card form: card number and CVV
// keep only digits, and the expiration is rebuilt as MM/YY when it holds
// three or four digits.  The card holder is left untouched.  Normalize does not
// validate; pass the result to Validate.
func Normalize(in FormInput) FormInput {
	out := in
	out.CardNumber = digits(in.CardNumber)
	out.CVV = digits(in.CVV)

	// longer inputs such as 12/2025 are kept as typed for Validate to reject
	exp := digits(in.Expiration)
	switch {
	case len(exp) > 4:
		exp = in.Expiration
	case len(exp) >= 3:
		exp = exp[:2] + "/" + exp[2:]
	}
	out.Expiration = exp
	return out
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
