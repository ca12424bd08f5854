// Package booking implements the availability step of the storefront:
// picking a date range, a category and a quantity, and creating the
// PENDING reservation that checkout will later pay.  Availability itself
// is computed by the reservation API; the checks here only bound what the
// visitor may ask for.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/reservas-express/internal/model"
)

const dateLayout = "2006-01-02"

var (
	ErrDatesRequired   = errors.New("select a start date and an end date")
	ErrInvalidDate     = errors.New("dates must use the YYYY-MM-DD format")
	ErrRangeOrder      = errors.New("the end date must be after the start date")
	ErrNoCategory      = errors.New("select a category")
	ErrUnknownCategory = errors.New("category is not offered for these dates")
	ErrSoldOut         = errors.New("no availability for these dates")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidEmail    = errors.New("enter a valid email")
)

// ValidateRange checks a YYYY-MM-DD range whose end is strictly after its start.
func ValidateRange(start, end string) error {
	if start == "" || end == "" {
		return ErrDatesRequired
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return ErrInvalidDate
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return ErrInvalidDate
	}
	if !e.After(s) {
		return ErrRangeOrder
	}
	return nil
}

// SelectQuantity bounds qty by what the API reports as still available.
func SelectQuantity(item model.AvailabilityItem, qty int) error {
	if !item.IsAvailable() {
		return ErrSoldOut
	}
	if qty < 1 || qty > item.Available {
		return fmt.Errorf("%w: must be between 1 and %d", ErrInvalidQuantity, item.Available)
	}
	return nil
}

// ValidateEmail only checks what the confirmation mail needs: something with an @.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// Total is the price shown before the reservation is created.  The API
// computes the amount actually charged.
func Total(item model.AvailabilityItem, qty int) float64 {
	return float64(qty) * item.Price
}

// Find returns the item for category c.
func Find(items []model.AvailabilityItem, c model.Category) (model.AvailabilityItem, bool) {
	for _, it := range items {
		if it.Category == c {
			return it, true
		}
	}
	return model.AvailabilityItem{}, false
}

// API is the part of the reservation API the availability step needs.
type API interface {
	Availability(ctx context.Context, startDate, endDate string) ([]model.AvailabilityItem, error)
	CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error)
}

// Service runs searches and creates reservations.
type Service struct {
	API API
}

func NewService(api API) *Service {
	if api == nil {
		panic("nil api passed to booking.NewService")
	}
	return &Service{API: api}
}

// Search validates the range and returns the availability per category,
// in the order the API sent it.
func (s *Service) Search(ctx context.Context, start, end string) ([]model.AvailabilityItem, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	return s.API.Availability(ctx, start, end)
}

// Request is what the visitor submits at the end of the availability step.
type Request struct {
	StartDate string         `form:"startDate"`
	EndDate   string         `form:"endDate"`
	Category  model.Category `form:"category"`
	Quantity  int            `form:"quantity"`
	Email     string         `form:"email"`
}

// Reserve checks the request against fresh availability and creates a
// PENDING reservation.  The returned reservation echoes the requested
// quantity as recorded by the API.
func (s *Service) Reserve(ctx context.Context, req Request) (model.Reservation, error) {
	if req.Category == "" {
		return model.Reservation{}, ErrNoCategory
	}
	items, err := s.Search(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return model.Reservation{}, err
	}
	item, ok := Find(items, req.Category)
	if !ok {
		return model.Reservation{}, ErrUnknownCategory
	}
	if err := SelectQuantity(item, req.Quantity); err != nil {
		return model.Reservation{}, err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return model.Reservation{}, err
	}
	return s.API.CreateReservation(ctx, model.ReservationRequest{
		Email:     strings.TrimSpace(req.Email),
		Category:  item.Category,
		Quantity:  req.Quantity,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
}

// IsValidationError reports whether err is one of the visitor input
// errors of this package, as opposed to an API or transport failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrDatesRequired, ErrInvalidDate, ErrRangeOrder, ErrNoCategory,
		ErrUnknownCategory, ErrSoldOut, ErrInvalidQuantity, ErrInvalidEmail,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
