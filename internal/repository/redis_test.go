package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/reservas-express/internal/checkout"
	"github.com/iliyamo/reservas-express/internal/model"
	"github.com/iliyamo/reservas-express/internal/payment"
	"github.com/iliyamo/reservas-express/internal/repository"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSubmitLock_Exclusive(t *testing.T) {
	mr, rdb := setupRedis(t)
	lock := repository.NewSubmitLock(rdb, 30*time.Second)
	ctx := context.Background()

	release, ok, err := lock.Acquire(ctx, "r-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("sf:submit:r-1"))
	assert.Equal(t, 30*time.Second, mr.TTL("sf:submit:r-1"))

	_, ok, err = lock.Acquire(ctx, "r-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// other reservations are independent
	releaseOther, ok, err := lock.Acquire(ctx, "r-2")
	require.NoError(t, err)
	assert.True(t, ok)
	releaseOther()

	release()
	assert.False(t, mr.Exists("sf:submit:r-1"))

	release2, ok, err := lock.Acquire(ctx, "r-1")
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}

func TestSubmitLock_ExpiredReleaseKeepsNewHolder(t *testing.T) {
	mr, rdb := setupRedis(t)
	lock := repository.NewSubmitLock(rdb, time.Second)
	ctx := context.Background()

	release1, ok, err := lock.Acquire(ctx, "r-1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists("sf:submit:r-1"))

	release2, ok, err := lock.Acquire(ctx, "r-1")
	require.NoError(t, err)
	require.True(t, ok)
	holder, err := mr.Get("sf:submit:r-1")
	require.NoError(t, err)

	release1()
	got, err := mr.Get("sf:submit:r-1")
	require.NoError(t, err)
	assert.Equal(t, holder, got)

	release2()
	assert.False(t, mr.Exists("sf:submit:r-1"))
}

func TestSubmitLock_RedisDown(t *testing.T) {
	mr, rdb := setupRedis(t)
	mr.Close()
	_, ok, err := repository.NewSubmitLock(rdb, time.Second).Acquire(context.Background(), "r-1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCheckoutSessionRepo_MissingKey(t *testing.T) {
	_, rdb := setupRedis(t)
	repo := repository.NewCheckoutSessionRepo(rdb, time.Hour)

	_, ok, err := repo.Get(context.Background(), checkout.Key{SessionID: "s1", ReservationID: "r-1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckoutSessionRepo_RoundTrip(t *testing.T) {
	mr, rdb := setupRedis(t)
	repo := repository.NewCheckoutSessionRepo(rdb, time.Hour)
	ctx := context.Background()
	key := checkout.Key{SessionID: "s1", ReservationID: "r-1"}

	r := model.Reservation{ID: "r-1", Email: "ana@example.com", Category: model.CategoryVIP, Quantity: 3, Total: 180, Status: model.StatusPending}
	loaded, err := checkout.New("r-1").Loaded(r)
	require.NoError(t, err)
	withErrors, err := loaded.Submit(payment.FormInput{CardNumber: "1"})
	require.NoError(t, err)
	require.NoError(t, repo.Put(ctx, key, withErrors))

	assert.Equal(t, time.Hour, mr.TTL("sf:checkout:s1:r-1"))

	got, ok, err := repo.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, checkout.PhaseReady, got.Phase())
	assert.Equal(t, withErrors.FieldErrors(), got.FieldErrors())
	gr, ok := got.Reservation()
	require.True(t, ok)
	assert.Equal(t, r, gr)

	// other sessions do not see it
	_, ok, err = repo.Get(ctx, checkout.Key{SessionID: "s2", ReservationID: "r-1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckoutSessionRepo_CorruptValue(t *testing.T) {
	mr, rdb := setupRedis(t)
	repo := repository.NewCheckoutSessionRepo(rdb, time.Hour)
	require.NoError(t, mr.Set("sf:checkout:s1:r-1", "{not json"))

	_, ok, err := repo.Get(context.Background(), checkout.Key{SessionID: "s1", ReservationID: "r-1"})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestService_WithRedisStoreAndLock(t *testing.T) {
	_, rdb := setupRedis(t)
	api := &stubAPI{status: model.StatusPending}
	svc := checkout.NewService(api, repository.NewCheckoutSessionRepo(rdb, time.Hour), repository.NewSubmitLock(rdb, 30*time.Second))

	st, err := svc.Open(context.Background(), "s1", "r-1")
	require.NoError(t, err)
	assert.Equal(t, checkout.PhaseReady, st.Phase())

	st, err = svc.Pay(context.Background(), "s1", "r-1", payment.FormInput{
		CardNumber: "4111111111111111", CardHolder: "Ana", Expiration: "12/28", CVV: "123",
	})
	require.NoError(t, err)
	assert.Equal(t, checkout.PhaseConfirmed, st.Phase())

	st, err = svc.Open(context.Background(), "s1", "r-1")
	require.NoError(t, err)
	assert.Equal(t, checkout.PhaseConfirmed, st.Phase())
	assert.Equal(t, 1, api.checkouts)
}

type stubAPI struct {
	status    model.Status
	checkouts int
}

func (s *stubAPI) GetReservation(_ context.Context, id model.ReservationID) (model.Reservation, error) {
	return model.Reservation{ID: id, Quantity: 1, Total: 60, Category: model.CategoryVIP, Status: s.status}, nil
}

func (s *stubAPI) Checkout(context.Context, model.CheckoutRequest) (model.CheckoutResult, error) {
	s.checkouts++
	s.status = model.StatusPaid
	return model.CheckoutResult{Status: model.StatusPaid}, nil
}
