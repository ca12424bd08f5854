package handler

import (
    "errors"
    "log"
    "net/http"
    "net/url"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/reservas-express/internal/checkout"
    "github.com/iliyamo/reservas-express/internal/middleware"
    "github.com/iliyamo/reservas-express/internal/payment"
    "github.com/iliyamo/reservas-express/internal/view"
)

// MsgPaymentInFlight is shown while another submission for the same
// reservation is still being processed.
const MsgPaymentInFlight = "a payment for this reservation is already in progress"

// CheckoutHandler serves the payment page of a reservation.
type CheckoutHandler struct {
    Flow *checkout.Service
}

// NewCheckoutHandler panics on a nil service.
func NewCheckoutHandler(flow *checkout.Service) *CheckoutHandler {
    if flow == nil {
        panic("nil checkout service passed to NewCheckoutHandler")
    }
    return &CheckoutHandler{Flow: flow}
}

func confirmationURL(id string) string {
    return "/confirmation?reservationId=" + url.QueryEscape(id)
}

// Page handles GET /checkout?reservationId=.
func (h *CheckoutHandler) Page(c echo.Context) error {
    st, err := h.Flow.Open(c.Request().Context(), middleware.SessionID(c), c.QueryParam("reservationId"))
    if err != nil {
        log.Printf("checkout-handler: open: %v", err)
        return renderError(c, http.StatusInternalServerError, checkout.MsgLoadFailed)
    }
    if st.IsTerminal() {
        return h.renderOutcome(c, st)
    }
    notice := st.Message()
    if st.Phase() == checkout.PhaseSubmitting {
        notice = MsgPaymentInFlight
    }
    return h.renderForm(c, http.StatusOK, st, payment.FormInput{}, notice)
}

// Pay handles POST /checkout/pay.  The card fields are normalized the way
// the form's input masks would, then validated by the checkout flow.
func (h *CheckoutHandler) Pay(c echo.Context) error {
    var in payment.FormInput
    if err := c.Bind(&in); err != nil {
        return renderError(c, http.StatusBadRequest, "invalid request body")
    }
    in = payment.Normalize(in)
    id := c.FormValue("reservationId")

    st, err := h.Flow.Pay(c.Request().Context(), middleware.SessionID(c), id, in)
    switch {
    case errors.Is(err, checkout.ErrPaymentInFlight):
        return h.renderForm(c, http.StatusConflict, st, in, MsgPaymentInFlight)
    case err != nil:
        log.Printf("checkout-handler: pay reservation=%s: %v", id, err)
        return renderError(c, http.StatusInternalServerError, checkout.MsgCheckoutFailed)
    }

    switch st.Phase() {
    case checkout.PhaseReady:
        status := http.StatusOK
        if !st.FieldErrors().Valid() {
            status = http.StatusUnprocessableEntity
        }
        return h.renderForm(c, status, st, in, "")
    case checkout.PhaseFailed:
        return h.renderForm(c, http.StatusPaymentRequired, st, in, st.Message())
    }
    return h.renderOutcome(c, st)
}

// renderOutcome handles the phases that never show the form.
func (h *CheckoutHandler) renderOutcome(c echo.Context, st checkout.State) error {
    switch st.Phase() {
    case checkout.PhaseInvalid:
        return renderError(c, http.StatusBadRequest, checkout.MsgInvalidReservation)
    case checkout.PhaseLoadError:
        status := http.StatusNotFound
        if st.Message() != checkout.MsgNotFound {
            status = http.StatusBadGateway
        }
        return renderError(c, status, st.Message())
    case checkout.PhaseConfirmed:
        return c.Redirect(http.StatusSeeOther, confirmationURL(st.ReservationID().String()))
    }
    log.Printf("checkout-handler: unexpected phase %s for reservation=%s", st.Phase(), st.ReservationID())
    return renderError(c, http.StatusInternalServerError, checkout.MsgUnexpectedState)
}

// renderForm shows the summary and card form.  The pay button is disabled
// while a submission is in flight.  The CVV is never echoed back.
func (h *CheckoutHandler) renderForm(c echo.Context, status int, st checkout.State, in payment.FormInput, notice string) error {
    r, _ := st.Reservation()
    if r.ID == "" {
        r.ID = st.ReservationID()
    }
    in.CVV = ""
    return c.Render(status, view.PageCheckout, view.CheckoutData{
        Reservation: r,
        Form:        in,
        Errors:      st.FieldErrors(),
        Notice:      notice,
        CanSubmit:   st.CanSubmit() && notice != MsgPaymentInFlight,
    })
}
