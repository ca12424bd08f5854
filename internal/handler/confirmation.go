package handler

import (
    "context"
    "errors"
    "fmt"
    "log"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/reservas-express/internal/apiclient"
    "github.com/iliyamo/reservas-express/internal/checkout"
    "github.com/iliyamo/reservas-express/internal/model"
    "github.com/iliyamo/reservas-express/internal/receipt"
    "github.com/iliyamo/reservas-express/internal/view"
)

// ReservationReader reads reservations and builds their ticket links.
type ReservationReader interface {
    GetReservation(ctx context.Context, id model.ReservationID) (model.Reservation, error)
    TicketURL(id model.ReservationID) string
}

// ConfirmationHandler serves the confirmation page and the receipt.
type ConfirmationHandler struct {
    API ReservationReader
    Now func() time.Time
}

// NewConfirmationHandler panics on a nil reader.
func NewConfirmationHandler(api ReservationReader) *ConfirmationHandler {
    if api == nil {
        panic("nil reservation reader passed to NewConfirmationHandler")
    }
    return &ConfirmationHandler{API: api, Now: time.Now}
}

// load fetches the reservation named by ?reservationId=.  On failure it
// has already written the error page and returns ok=false.
func (h *ConfirmationHandler) load(c echo.Context) (model.Reservation, bool, error) {
    id := strings.TrimSpace(c.QueryParam("reservationId"))
    if id == "" {
        return model.Reservation{}, false, renderError(c, http.StatusBadRequest, checkout.MsgInvalidReservation)
    }
    r, err := h.API.GetReservation(c.Request().Context(), model.ReservationID(id))
    if err != nil {
        if errors.Is(err, apiclient.ErrNotFound) {
            return r, false, renderError(c, http.StatusNotFound, checkout.MsgNotFound)
        }
        log.Printf("confirmation: load reservation=%s: %v", id, err)
        return r, false, renderError(c, http.StatusBadGateway, checkout.MsgLoadFailed)
    }
    if r.ID == "" {
        r.ID = model.ReservationID(id)
    }
    return r, true, nil
}

// Page handles GET /confirmation?reservationId=.  A reservation that is
// still PENDING is sent back to checkout.
func (h *ConfirmationHandler) Page(c echo.Context) error {
    r, ok, err := h.load(c)
    if !ok {
        return err
    }
    if !r.Status.IsPaid() {
        return c.Redirect(http.StatusSeeOther, "/checkout?reservationId="+url.QueryEscape(r.ID.String()))
    }
    return c.Render(http.StatusOK, view.PageConfirmation, view.ConfirmationData{
        Reservation: r,
        TicketURL:   h.API.TicketURL(r.ID),
        ReceiptURL:  "/confirmation/receipt.pdf?reservationId=" + url.QueryEscape(r.ID.String()),
    })
}

// Receipt handles GET /confirmation/receipt.pdf?reservationId=.
func (h *ConfirmationHandler) Receipt(c echo.Context) error {
    r, ok, err := h.load(c)
    if !ok {
        return err
    }
    now := time.Now
    if h.Now != nil {
        now = h.Now
    }
    pdf, err := receipt.Render(r, h.API.TicketURL(r.ID), now())
    if errors.Is(err, receipt.ErrNotPaid) {
        return renderError(c, http.StatusConflict, "the reservation has not been paid yet")
    }
    if err != nil {
        log.Printf("confirmation: receipt reservation=%s: %v", r.ID, err)
        return renderError(c, http.StatusInternalServerError, "could not build the receipt")
    }
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="reservation-%s.pdf"`, r.ID))
    return c.Blob(http.StatusOK, "application/pdf", pdf)
}
