package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/reservas-express/internal/model"
	"github.com/iliyamo/reservas-express/internal/payment"
	"github.com/iliyamo/reservas-express/internal/queue"
)

// ErrPaymentInFlight is returned by Pay while another submission for the
// same reservation has not resolved yet.
var ErrPaymentInFlight = errors.New("checkout: payment already in progress")

// ReservationAPI is the part of the reservation API a checkout needs.
type ReservationAPI interface {
	GetReservation(ctx context.Context, id model.ReservationID) (model.Reservation, error)
	Checkout(ctx context.Context, req model.CheckoutRequest) (model.CheckoutResult, error)
}

// Key identifies the checkout a session runs for one reservation.
type Key struct {
	SessionID     string
	ReservationID model.ReservationID
}

// Store keeps the current State of each checkout between requests.
type Store interface {
	Get(ctx context.Context, key Key) (State, bool, error)
	Put(ctx context.Context, key Key, s State) error
}

// Locker makes the Submitting phase exclusive per reservation.  Acquire
// reports ok=false when the lock is already held.
type Locker interface {
	Acquire(ctx context.Context, id model.ReservationID) (release func(), ok bool, err error)
}

// Publisher announces reservations paid through this storefront.
type Publisher interface {
	PublishReservationPaid(ctx context.Context, ev queue.ReservationPaidEvent) error
}

// Recorder keeps an audit trail of payment submissions.
type Recorder interface {
	Record(ctx context.Context, a model.CheckoutAttempt) error
}

// Service runs checkouts against the reservation API.  Store and Locker are
// required; Publisher and Recorder are optional.
type Service struct {
	API       ReservationAPI
	Store     Store
	Locker    Locker
	Publisher Publisher
	Recorder  Recorder
	Now       func() time.Time
}

// NewService wires a Service and panics on a missing required dependency.
func NewService(api ReservationAPI, store Store, locker Locker) *Service {
	if api == nil || store == nil || locker == nil {
		panic("nil dependency passed to checkout.NewService")
	}
	return &Service{API: api, Store: store, Locker: locker, Now: time.Now}
}

// Open loads the reservation and returns the resulting state.  A blank id
// returns the Invalid state without any lookup.  While a submission is in
// flight the stored Submitting state is returned as is.
func (s *Service) Open(ctx context.Context, sessionID, reservationID string) (State, error) {
	st := New(reservationID)
	if st.Phase() == PhaseInvalid {
		return st, nil
	}
	key := Key{SessionID: sessionID, ReservationID: st.ReservationID()}
	if cur, ok := s.load(ctx, key); ok && cur.Phase() == PhaseSubmitting && !s.stale(ctx, key) {
		return cur, nil
	}
	st, err := s.fetch(ctx, st)
	if err != nil {
		return st, err
	}
	s.save(ctx, key, st)
	return st, nil
}

// Pay submits the card form for the reservation.  Form errors come back as
// a Ready state carrying them; a reservation already Confirmed is returned
// without another checkout call.
func (s *Service) Pay(ctx context.Context, sessionID, reservationID string, in payment.FormInput) (State, error) {
	st := New(reservationID)
	if st.Phase() == PhaseInvalid {
		return st, nil
	}
	key := Key{SessionID: sessionID, ReservationID: st.ReservationID()}

	cur, ok := s.load(ctx, key)
	if ok && cur.Phase() == PhaseSubmitting && s.stale(ctx, key) {
		ok = false
	}
	if !ok || cur.Phase() == PhaseLoading || cur.Phase() == PhaseLoadError {
		var err error
		if cur, err = s.fetch(ctx, st); err != nil {
			return cur, err
		}
		s.save(ctx, key, cur)
	}
	switch cur.Phase() {
	case PhaseConfirmed, PhaseLoadError:
		return cur, nil
	case PhaseSubmitting:
		return cur, ErrPaymentInFlight
	}

	next, err := cur.Submit(in)
	if err != nil {
		return cur, err
	}
	if next.Phase() != PhaseSubmitting {
		s.save(ctx, key, next)
		return next, nil
	}

	release, acquired, err := s.Locker.Acquire(ctx, key.ReservationID)
	if err != nil {
		return cur, fmt.Errorf("checkout: acquire submit lock: %w", err)
	}
	if !acquired {
		return cur, ErrPaymentInFlight
	}
	defer release()

	s.save(ctx, key, next)
	res, callErr := s.API.Checkout(ctx, model.CheckoutRequest{
		ReservationID: key.ReservationID,
		CardNumber:    in.CardNumber,
		CardHolder:    in.CardHolder,
		Expiration:    in.Expiration,
		CVV:           in.CVV,
	})
	if callErr != nil {
		log.Printf("checkout: submit reservation=%s: %v", key.ReservationID, callErr)
	}
	final, err := next.Resolve(res, callErr)
	if err != nil {
		return next, err
	}
	s.save(ctx, key, final)
	s.record(ctx, key, final)
	if final.Phase() == PhaseConfirmed {
		s.publish(ctx, key, final)
	}
	return final, nil
}

func (s *Service) fetch(ctx context.Context, st State) (State, error) {
	r, err := s.API.GetReservation(ctx, st.ReservationID())
	if err != nil {
		log.Printf("checkout: load reservation=%s: %v", st.ReservationID(), err)
		return st.LoadFailed(err)
	}
	return st.Loaded(r)
}

func (s *Service) load(ctx context.Context, key Key) (State, bool) {
	st, ok, err := s.Store.Get(ctx, key)
	if err != nil {
		log.Printf("checkout: store get reservation=%s: %v", key.ReservationID, err)
		return State{}, false
	}
	return st, ok
}

// stale reports whether a stored Submitting state has no submission
// behind it: the submit lock is free, so the outcome was never saved (a
// failed store write or a crash during the checkout call).  The lock is
// released again at once.
func (s *Service) stale(ctx context.Context, key Key) bool {
	release, acquired, err := s.Locker.Acquire(ctx, key.ReservationID)
	if err != nil || !acquired {
		return false
	}
	release()
	log.Printf("checkout: stale submitting state reservation=%s session=%s; reloading", key.ReservationID, key.SessionID)
	return true
}

// save stores st.  Invalid and LoadError states are never stored: both are
// rebuilt from the request on every visit.
func (s *Service) save(ctx context.Context, key Key, st State) {
	if st.Phase() == PhaseInvalid || st.Phase() == PhaseLoadError {
		return
	}
	if err := s.Store.Put(ctx, key, st); err != nil {
		log.Printf("checkout: store put reservation=%s phase=%s: %v", key.ReservationID, st.Phase(), err)
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) record(ctx context.Context, key Key, st State) {
	if s.Recorder == nil {
		return
	}
	a := model.CheckoutAttempt{
		ReservationID: key.ReservationID,
		SessionID:     key.SessionID,
		Outcome:       string(st.Phase()),
		Message:       st.Message(),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.Recorder.Record(ctx, a); err != nil {
		log.Printf("checkout: record attempt reservation=%s: %v", key.ReservationID, err)
	}
}

func (s *Service) publish(ctx context.Context, key Key, st State) {
	if s.Publisher == nil {
		return
	}
	r, _ := st.Reservation()
	ev := queue.ReservationPaidEvent{
		EventID:       uuid.NewString(),
		ReservationID: key.ReservationID.String(),
		SessionID:     key.SessionID,
		Email:         r.Email,
		Category:      string(r.Category),
		Quantity:      r.Quantity,
		Total:         r.Total,
		StartDate:     r.StartDay(),
		EndDate:       r.EndDay(),
		ConfirmedAt:   s.now().UTC().Format(time.RFC3339),
	}
	if err := s.Publisher.PublishReservationPaid(ctx, ev); err != nil {
		log.Printf("checkout: publish reservation=%s: %v", key.ReservationID, err)
	}
}
