package handler

import (
    "errors"
    "log"
    "net/http"
    "net/url"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/reservas-express/internal/apiclient"
    "github.com/iliyamo/reservas-express/internal/booking"
    "github.com/iliyamo/reservas-express/internal/view"
)

// StorefrontHandler serves the availability step: the date search and the
// creation of a PENDING reservation.
type StorefrontHandler struct {
    Booking *booking.Service
}

// NewStorefrontHandler panics on a nil service.
func NewStorefrontHandler(b *booking.Service) *StorefrontHandler {
    if b == nil {
        panic("nil booking service passed to NewStorefrontHandler")
    }
    return &StorefrontHandler{Booking: b}
}

// Home handles GET /.  Without dates it renders the empty search form;
// with startDate and endDate it lists availability per category.
func (h *StorefrontHandler) Home(c echo.Context) error {
    data := view.HomeData{
        StartDate: c.QueryParam("startDate"),
        EndDate:   c.QueryParam("endDate"),
    }
    if data.StartDate == "" && data.EndDate == "" {
        return c.Render(http.StatusOK, view.PageHome, data)
    }
    items, err := h.Booking.Search(c.Request().Context(), data.StartDate, data.EndDate)
    if err != nil {
        status, msg := bookingFailure(err)
        data.Error = msg
        return c.Render(status, view.PageHome, data)
    }
    data.Searched = true
    data.Items = items
    return c.Render(http.StatusOK, view.PageHome, data)
}

// CreateReservation handles POST /reservations and redirects to checkout.
// Rejected input re-renders the availability page with the values kept.
func (h *StorefrontHandler) CreateReservation(c echo.Context) error {
    var req booking.Request
    if err := c.Bind(&req); err != nil {
        return renderError(c, http.StatusBadRequest, "invalid request body")
    }
    ctx := c.Request().Context()
    r, err := h.Booking.Reserve(ctx, req)
    if err != nil {
        status, msg := bookingFailure(err)
        data := view.HomeData{
            StartDate: req.StartDate,
            EndDate:   req.EndDate,
            Category:  req.Category,
            Quantity:  req.Quantity,
            Email:     req.Email,
            Error:     msg,
        }
        // show the categories again so the visitor can correct the choice
        if items, serr := h.Booking.Search(ctx, req.StartDate, req.EndDate); serr == nil {
            data.Searched = true
            data.Items = items
        }
        return c.Render(status, view.PageHome, data)
    }
    return c.Redirect(http.StatusSeeOther, "/checkout?reservationId="+url.QueryEscape(r.ID.String()))
}

// bookingFailure maps a booking error to a status and a display message.
func bookingFailure(err error) (int, string) {
    if booking.IsValidationError(err) {
        return http.StatusBadRequest, err.Error()
    }
    log.Printf("storefront: %v", err)
    var apiErr *apiclient.APIError
    if errors.As(err, &apiErr) {
        return http.StatusBadGateway, apiErr.Message
    }
    if errors.Is(err, apiclient.ErrNoReservationID) {
        return http.StatusBadGateway, apiclient.MsgCreateFailed
    }
    return http.StatusBadGateway, "the reservation service is unavailable, try again later"
}
