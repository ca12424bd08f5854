package view

import (
    "bytes"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/reservas-express/internal/model"
    "github.com/iliyamo/reservas-express/internal/payment"
)

func render(t *testing.T, page string, data interface{}) string {
    t.Helper()
    r, err := New()
    require.NoError(t, err)
    var buf bytes.Buffer
    require.NoError(t, r.Render(&buf, page, data, nil))
    return buf.String()
}

func TestRender_HomeWithItems(t *testing.T) {
    out := render(t, PageHome, HomeData{
        StartDate: "2025-03-01",
        EndDate:   "2025-03-03",
        Searched:  true,
        Items: []model.AvailabilityItem{
            {Category: model.CategoryBasic, Capacity: 10, Reserved: 10, Available: 0, Price: 20},
            {Category: model.CategoryVIP, Capacity: 5, Reserved: 1, Available: 4, Price: 60},
        },
    })
    assert.Contains(t, out, "VIP: $60.00 per ticket")
    assert.Contains(t, out, "4 of 5 available")
    assert.Contains(t, out, `action="/reservations"`)
}

func TestRender_CheckoutFieldErrors(t *testing.T) {
    out := render(t, PageCheckout, CheckoutData{
        Reservation: model.Reservation{ID: "7", Email: "a@b.c", Category: model.CategoryPlus, Quantity: 2, Total: 80},
        Form:        payment.FormInput{CardHolder: "Ana"},
        Errors:      payment.FormErrors{payment.FieldCardNumber: payment.MsgCardNumber},
        Notice:      "card declined",
    })
    assert.Contains(t, out, payment.MsgCardNumber)
    assert.NotContains(t, out, payment.MsgCVV)
    assert.Contains(t, out, "card declined")
    assert.Contains(t, out, "Pay $80.00")
    assert.Contains(t, out, `value="Ana"`)
}

func TestRender_ConfirmationTrimsDates(t *testing.T) {
    out := render(t, PageConfirmation, ConfirmationData{
        Reservation: model.Reservation{ID: "7", Status: model.StatusPaid, StartDate: "2025-03-01T00:00:00Z", EndDate: "2025-03-03T00:00:00Z"},
        TicketURL:   "https://api.example.com/reservations/7/ticket",
        ReceiptURL:  "/confirmation/receipt.pdf?reservationId=7",
    })
    assert.Contains(t, out, "2025-03-01 to 2025-03-03")
    assert.NotContains(t, out, "T00:00:00Z")
    assert.Contains(t, out, "https://api.example.com/reservations/7/ticket")
}

func TestRender_UnknownPage(t *testing.T) {
    r, err := New()
    require.NoError(t, err)
    assert.Error(t, r.Render(&bytes.Buffer{}, "nope", nil, nil))
}

func TestCheckoutData_ErrorListInFormOrder(t *testing.T) {
    d := CheckoutData{Errors: payment.FormErrors{
        payment.FieldCVV:        payment.MsgCVV,
        payment.FieldCardNumber: payment.MsgCardNumber,
    }}
    assert.Equal(t, []string{payment.MsgCardNumber, payment.MsgCVV}, d.ErrorList())
    assert.Empty(t, CheckoutData{}.ErrorList())
}

func TestRender_CheckoutButtonState(t *testing.T) {
    data := CheckoutData{Reservation: model.Reservation{ID: "7", Total: 10}, CanSubmit: true}
    assert.Contains(t, render(t, PageCheckout, data), `<button type="submit">Pay $10.00</button>`)

    data.CanSubmit = false
    assert.Contains(t, render(t, PageCheckout, data), `<button type="submit" disabled>Pay $10.00</button>`)
}
