package payment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservas-express/internal/payment"
)

func validInput() payment.FormInput {
	return payment.FormInput{
		CardNumber: "4111111111111111",
		CardHolder: "Ada Lovelace",
		Expiration: "12/29",
		CVV:        "123",
	}
}

func TestValidate_ValidFormHasNoErrors(t *testing.T) {
	errs := payment.Validate(validInput())
	require.Empty(t, errs)
	require.True(t, errs.Valid())
}

func TestValidate_CardNumber(t *testing.T) {
	cases := map[string]bool{
		"0000000000000000":    true,
		"9999999999999999":    true,
		"411111111111111":     false,
		"41111111111111111":   false,
		"4111 1111 1111 1111": false,
		"4111-1111-1111-111":  false,
		"411111111111111a":    false,
		" 4111111111111111":   false,
		"4111111111111111\n":  false,
		"":                    false,
		"٤١١١١١١١١١١١١١١١":    false,
	}
	for in, ok := range cases {
		form := validInput()
		form.CardNumber = in
		errs := payment.Validate(form)
		if ok {
			assert.NotContains(t, errs, payment.FieldCardNumber, "input %q", in)
		} else {
			assert.Equal(t, payment.MsgCardNumber, errs.Get(payment.FieldCardNumber), "input %q", in)
		}
	}
}

func TestValidate_CardHolder(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n", "    "} {
		form := validInput()
		form.CardHolder = in
		assert.Equal(t, payment.MsgCardHolder, payment.Validate(form).Get(payment.FieldCardHolder), "input %q", in)
	}

	// a non-blank holder never errors, whatever the other fields look like
	errs := payment.Validate(payment.FormInput{CardHolder: "  x  "})
	assert.NotContains(t, errs, payment.FieldCardHolder)
	assert.Len(t, errs, 3)
}

func TestValidate_Expiration(t *testing.T) {
	for _, in := range []string{"01/25", "12/99", "06/00", "01/20"} {
		form := validInput()
		form.Expiration = in
		assert.NotContains(t, payment.Validate(form), payment.FieldExpiration, "input %q", in)
	}
	for _, in := range []string{"13/25", "1/25", "00/99", "12-25", "12/2025", "", "12/", "/25", "12/2a", " 12/25"} {
		form := validInput()
		form.Expiration = in
		assert.Equal(t, payment.MsgExpiration, payment.Validate(form).Get(payment.FieldExpiration), "input %q", in)
	}
}

func TestValidate_CVV(t *testing.T) {
	for _, in := range []string{"000", "999", "042"} {
		form := validInput()
		form.CVV = in
		assert.NotContains(t, payment.Validate(form), payment.FieldCVV, "input %q", in)
	}
	for _, in := range []string{"12", "1234", "12a", "", "1 3"} {
		form := validInput()
		form.CVV = in
		assert.Equal(t, payment.MsgCVV, payment.Validate(form).Get(payment.FieldCVV), "input %q", in)
	}
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	errs := payment.Validate(payment.FormInput{
		CardNumber: "123",
		CardHolder: "   ",
		Expiration: "99/99",
		CVV:        "x",
	})
	require.Len(t, errs, 4)
	for _, f := range payment.Fields {
		assert.NotEmpty(t, errs.Get(f), "field %s", f)
	}
	assert.False(t, errs.Valid())
}

func TestValidate_ReturnsFreshMap(t *testing.T) {
	first := payment.Validate(payment.FormInput{})
	first[payment.FieldCVV] = "changed"
	second := payment.Validate(payment.FormInput{})
	assert.Equal(t, payment.MsgCVV, second.Get(payment.FieldCVV))
}

func TestNormalize(t *testing.T) {
	got := payment.Normalize(payment.FormInput{
		CardNumber: "4111 1111-1111 1111",
		CardHolder: " Ada ",
		Expiration: "1229",
		CVV:        "1a2b3",
	})
	assert.Equal(t, "4111111111111111", got.CardNumber)
	assert.Equal(t, " Ada ", got.CardHolder)
	assert.Equal(t, "12/29", got.Expiration)
	assert.Equal(t, "123", got.CVV)

	assert.Equal(t, "12/2", payment.Normalize(payment.FormInput{Expiration: "122"}).Expiration)
	assert.Equal(t, "12", payment.Normalize(payment.FormInput{Expiration: "12"}).Expiration)
	long := payment.Normalize(payment.FormInput{Expiration: "12/2025"})
	assert.Equal(t, "12/2025", long.Expiration)
	assert.Equal(t, payment.MsgExpiration, payment.Validate(long)[payment.FieldExpiration])
	assert.Empty(t, payment.Normalize(payment.FormInput{Expiration: "ab"}).Expiration)
}
