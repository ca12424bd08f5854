package repository

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/reservas-express/internal/model"
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SubmitLock is a Redis lock per reservation guarding payment submission.
// TTL bounds how long a crashed holder can block a reservation.
type SubmitLock struct {
	RDB    *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewSubmitLock(rdb *redis.Client, ttl time.Duration) *SubmitLock {
	return &SubmitLock{RDB: rdb, Prefix: "sf:submit", TTL: ttl}
}

// Acquire takes the lock with SET NX PX.  It satisfies checkout.Locker.
func (l *SubmitLock) Acquire(ctx context.Context, id model.ReservationID) (func(), bool, error) {
	key := l.Prefix + ":" + id.String()
	token := uuid.NewString()
	ok, err := l.RDB.SetNX(ctx, key, token, l.TTL).Result()
	if err != nil {
		return func() {}, false, err
	}
	if !ok {
		return func() {}, false, nil
	}
	return func() {
		// the request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.RDB, []string{key}, token).Err(); err != nil {
			log.Printf("submit-lock: release %s: %v", key, err)
		}
	}, true, nil
}
