// Package repository holds the persistence adapters of the storefront: the
// MySQL audit log of checkout attempts, and the Redis-backed checkout
// session store and submit lock.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/reservas-express/internal/model"
)

// CheckoutAttemptRepo persists the audit trail of payment submissions.
type CheckoutAttemptRepo struct{ DB *sql.DB }

func NewCheckoutAttemptRepo(db *sql.DB) *CheckoutAttemptRepo { return &CheckoutAttemptRepo{DB: db} }

// Record inserts one attempt.  It satisfies checkout.Recorder.
func (r *CheckoutAttemptRepo) Record(ctx context.Context, a model.CheckoutAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO checkout_attempts (reservation_id, session_id, outcome, message, created_at) VALUES (?,?,?,?,?)",
		a.ReservationID.String(), a.SessionID, a.Outcome, truncate(a.Message, 255), a.CreatedAt.UTC())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
