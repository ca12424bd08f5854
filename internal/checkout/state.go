// Package checkout drives the payment of a single reservation.  The flow
// is one immutable State value; every transition is a method returning a
// new State, so combinations such as a submitting form that still carries
// field errors cannot be built.
package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/reservas-express/internal/apiclient"
	"github.com/iliyamo/reservas-express/internal/model"
	"github.com/iliyamo/reservas-express/internal/payment"
)

// Phase is the position of a checkout in its lifecycle.
type Phase string

const (
	PhaseInvalid    Phase = "INVALID"    // no reservation id was supplied
	PhaseLoading    Phase = "LOADING"    // reservation lookup pending
	PhaseReady      Phase = "READY"      // summary loaded, waiting for card data
	PhaseSubmitting Phase = "SUBMITTING" // one checkout call in flight
	PhaseConfirmed  Phase = "CONFIRMED"
	PhaseFailed     Phase = "FAILED"     // last submission failed, retry allowed
	PhaseLoadError  Phase = "LOAD_ERROR" // reservation could not be loaded
)

// Display messages.
const (
	MsgInvalidReservation = "invalid reservation"
	MsgNotFound           = "reservation not found"
	MsgLoadFailed         = "could not load the reservation"
	MsgCheckoutFailed     = "checkout failed"
	MsgUnexpectedState    = "unexpected payment state"
)

// transitions lists, per phase, the phases it may move to.  Failed may go
// back to Ready when a retry carries an invalid form.
var transitions = map[Phase][]Phase{
	PhaseInvalid:    {},
	PhaseLoading:    {PhaseReady, PhaseConfirmed, PhaseLoadError},
	PhaseReady:      {PhaseReady, PhaseSubmitting},
	PhaseSubmitting: {PhaseConfirmed, PhaseFailed},
	PhaseFailed:     {PhaseReady, PhaseSubmitting},
	PhaseConfirmed:  {},
	PhaseLoadError:  {},
}

// ErrIllegalTransition is returned when a transition is attempted from a
// phase that does not allow it.  The state is returned unchanged.
var ErrIllegalTransition = errors.New("checkout: illegal transition")

func canTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// State is a snapshot of one checkout.  The zero value is the Invalid state.
type State struct {
	phase       Phase
	id          model.ReservationID
	reservation *model.Reservation
	fieldErrors payment.FormErrors
	message     string
}

// New starts a checkout for the given reservation id.  A blank id yields an
// Invalid state that never leaves its phase and never triggers a lookup.
func New(reservationID string) State {
	id := strings.TrimSpace(reservationID)
	if id == "" {
		return State{phase: PhaseInvalid, message: MsgInvalidReservation}
	}
	return State{phase: PhaseLoading, id: model.ReservationID(id)}
}

func (s State) Phase() Phase {
	if s.phase == "" {
		return PhaseInvalid
	}
	return s.phase
}

func (s State) ReservationID() model.ReservationID { return s.id }

// Reservation returns the loaded summary, if any.
func (s State) Reservation() (model.Reservation, bool) {
	if s.reservation == nil {
		return model.Reservation{}, false
	}
	return *s.reservation, true
}

// FieldErrors returns a copy of the form errors of the last rejected
// submission.  Only Ready states carry them.
func (s State) FieldErrors() payment.FormErrors {
	out := make(payment.FormErrors, len(s.fieldErrors))
	for k, v := range s.fieldErrors {
		out[k] = v
	}
	return out
}

// Message is the text shown for Invalid, Failed and LoadError states.
func (s State) Message() string { return s.message }

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool { return len(transitions[s.Phase()]) == 0 }

// CanSubmit reports whether the pay action is enabled.
func (s State) CanSubmit() bool { return canTransition(s.Phase(), PhaseSubmitting) }

func (s State) illegal(to Phase) error {
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Phase(), to)
}

// Loaded records the fetched reservation.  A PAID reservation goes straight
// to Confirmed so that it is never paid twice.
func (s State) Loaded(r model.Reservation) (State, error) {
	next := PhaseReady
	if r.Status.IsPaid() {
		next = PhaseConfirmed
	}
	if !canTransition(s.Phase(), next) {
		return s, s.illegal(next)
	}
	return State{phase: next, id: s.id, reservation: &r}, nil
}

// LoadFailed records a failed lookup.
func (s State) LoadFailed(err error) (State, error) {
	if !canTransition(s.Phase(), PhaseLoadError) {
		return s, s.illegal(PhaseLoadError)
	}
	msg := MsgLoadFailed
	if errors.Is(err, apiclient.ErrNotFound) {
		msg = MsgNotFound
	}
	return State{phase: PhaseLoadError, id: s.id, message: msg}, nil
}

// Submit gates the pay action on the card form.  An invalid form keeps the
// checkout Ready with the field errors attached and no call is made; a
// valid one moves it to Submitting.  Card data is not kept in the state.
func (s State) Submit(in payment.FormInput) (State, error) {
	errs := payment.Validate(in)
	if !errs.Valid() {
		if !canTransition(s.Phase(), PhaseReady) {
			return s, s.illegal(PhaseReady)
		}
		return State{phase: PhaseReady, id: s.id, reservation: s.reservation, fieldErrors: errs}, nil
	}
	if !canTransition(s.Phase(), PhaseSubmitting) {
		return s, s.illegal(PhaseSubmitting)
	}
	return State{phase: PhaseSubmitting, id: s.id, reservation: s.reservation}, nil
}

// Resolve applies the outcome of the checkout call.
func (s State) Resolve(res model.CheckoutResult, callErr error) (State, error) {
	if callErr == nil && IsPaymentSuccess(res) {
		if !canTransition(s.Phase(), PhaseConfirmed) {
			return s, s.illegal(PhaseConfirmed)
		}
		return State{phase: PhaseConfirmed, id: s.id, reservation: s.reservation}, nil
	}
	if !canTransition(s.Phase(), PhaseFailed) {
		return s, s.illegal(PhaseFailed)
	}
	return State{phase: PhaseFailed, id: s.id, reservation: s.reservation, message: failureMessage(res, callErr)}, nil
}

func failureMessage(res model.CheckoutResult, callErr error) string {
	if callErr != nil {
		var apiErr *apiclient.APIError
		if errors.As(callErr, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgCheckoutFailed
	}
	if res.Message != "" {
		return res.Message
	}
	return MsgUnexpectedState
}

type snapshot struct {
	Phase       Phase               `json:"phase"`
	ID          model.ReservationID `json:"reservationId,omitempty"`
	Reservation *model.Reservation  `json:"reservation,omitempty"`
	FieldErrors payment.FormErrors  `json:"fieldErrors,omitempty"`
	Message     string              `json:"message,omitempty"`
}

// MarshalJSON encodes the state for a session store.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Phase:       s.Phase(),
		ID:          s.id,
		Reservation: s.reservation,
		FieldErrors: s.fieldErrors,
		Message:     s.message,
	})
}

// UnmarshalJSON decodes a stored state, rejecting unknown phases.
func (s *State) UnmarshalJSON(b []byte) error {
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return err
	}
	if _, ok := transitions[snap.Phase]; !ok {
		return fmt.Errorf("checkout: unknown phase %q", snap.Phase)
	}
	fe := snap.FieldErrors
	if snap.Phase != PhaseReady {
		fe = nil
	}
	*s = State{phase: snap.Phase, id: snap.ID, reservation: snap.Reservation, fieldErrors: fe, message: snap.Message}
	return nil
}
