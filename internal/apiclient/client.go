// Package apiclient wraps the external reservation API.  Availability,
// reservation state, payment authorization and tickets are all owned by
// that API; this package only moves JSON back and forth and turns non-2xx
// responses into *APIError values.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/reservas-express/internal/model"
)

// Fallback messages used when an error response carries no usable message.
const (
	MsgAvailabilityFailed = "failed to check availability"
	MsgCreateFailed       = "failed to create reservation"
	MsgNotFound           = "reservation not found"
	MsgCheckoutFailed     = "checkout failed"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// ErrNotFound is matched by errors returned for a missing reservation.
var ErrNotFound = errors.New("reservation not found")

// APIError is a non-2xx answer from the reservation API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reservation api: %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to the reservation API rooted at BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a Client with a bounded request timeout.  A trailing slash on
// baseURL is ignored.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Availability calls GET /availability for the given YYYY-MM-DD range.
func (c *Client) Availability(ctx context.Context, startDate, endDate string) ([]model.AvailabilityItem, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	var items []model.AvailabilityItem
	if err := c.do(ctx, http.MethodGet, "/availability?"+q.Encode(), nil, nil, &items, MsgAvailabilityFailed); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.AvailabilityItem{}
	}
	return items, nil
}

// CreateReservation calls POST /reservations.  The API wraps the created
// record as {"data": {...}}; an answer without data.id is reported as an
// error because nothing can be checked out without it.
func (c *Client) CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error) {
	var out struct {
		Data    *model.Reservation `json:"data"`
		Message string             `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/reservations", req, nil, &out, MsgCreateFailed); err != nil {
		return model.Reservation{}, err
	}
	if out.Data == nil || out.Data.ID == "" {
		return model.Reservation{}, ErrNoReservationID
	}
	return *out.Data, nil
}

// ErrNoReservationID is returned when a 2xx create answer lacks data.id.
var ErrNoReservationID = errors.New("reservation api: created reservation has no id")

// GetReservation calls GET /reservations/{id}.  Any non-2xx answer is
// reported as not found, wrapped so the status stays inspectable.
func (c *Client) GetReservation(ctx context.Context, id model.ReservationID) (model.Reservation, error) {
	var r model.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations/"+url.PathEscape(id.String()), nil, nil, &r, MsgNotFound)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return model.Reservation{}, fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return model.Reservation{}, err
	}
	return r, nil
}

// Checkout calls POST /checkout.  Each call carries a fresh Idempotency-Key
// so the API can recognise transport-level duplicates.
func (c *Client) Checkout(ctx context.Context, req model.CheckoutRequest) (model.CheckoutResult, error) {
	var res model.CheckoutResult
	hdr := http.Header{}
	hdr.Set("Idempotency-Key", uuid.NewString())
	if err := c.do(ctx, http.MethodPost, "/checkout", req, hdr, &res, MsgCheckoutFailed); err != nil {
		return model.CheckoutResult{}, err
	}
	return res, nil
}

// TicketURL is the download link of the ticket document.  It is never
// fetched here.
func (c *Client) TicketURL(id model.ReservationID) string {
	return c.BaseURL + "/reservations/" + url.PathEscape(id.String()) + "/ticket"
}

func (c *Client) do(ctx context.Context, method, path string, body any, hdr http.Header, out any, fallback string) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vals := range hdr {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: messageFrom(raw, fallback)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// messageFrom extracts {"message": "..."} from an error body.  Bodies that
// are not JSON objects, or whose message is missing or not a string, yield
// the fallback.
func messageFrom(raw []byte, fallback string) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	if m, ok := body["message"].(string); ok && m != "" {
		return m
	}
	return fallback
}
