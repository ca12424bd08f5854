package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/reservas-express/internal/checkout"
)

// CheckoutSessionRepo stores checkout states in Redis, one key per session
// and reservation, expiring with the session.
type CheckoutSessionRepo struct {
	RDB    *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewCheckoutSessionRepo(rdb *redis.Client, ttl time.Duration) *CheckoutSessionRepo {
	return &CheckoutSessionRepo{RDB: rdb, Prefix: "sf:checkout", TTL: ttl}
}

func (r *CheckoutSessionRepo) key(k checkout.Key) string {
	return r.Prefix + ":" + k.SessionID + ":" + k.ReservationID.String()
}

// Get returns the stored state; ok is false when none exists.
func (r *CheckoutSessionRepo) Get(ctx context.Context, k checkout.Key) (checkout.State, bool, error) {
	b, err := r.RDB.Get(ctx, r.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return checkout.State{}, false, nil
	}
	if err != nil {
		return checkout.State{}, false, err
	}
	var st checkout.State
	if err := json.Unmarshal(b, &st); err != nil {
		return checkout.State{}, false, err
	}
	return st, true, nil
}

// Put stores the state and refreshes its expiry.
func (r *CheckoutSessionRepo) Put(ctx context.Context, k checkout.Key, st checkout.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, r.key(k), b, r.TTL).Err()
}
