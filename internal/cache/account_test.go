package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
)

func testAccount() domain.Account {
	return domain.Account{
		Number:     "A1",
		HolderName: "Alice",
		Balance:    "500.00",
		CreatedAt:  time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewAccountCache(client, time.Minute)
	ctx := context.Background()
	want := testAccount()

	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet(Key("A1")).SetVal(string(data))
	mock.ExpectGet(Key("A2")).RedisNil()
	mock.ExpectGet(Key("A3")).SetErr(errors.New("connection refused"))
	mock.ExpectGet(Key("A4")).SetVal("{not json")

	got, ok := c.Get(ctx, "A1")
	require.True(t, ok)
	require.Equal(t, want, got)

	for _, number := range []string{"A2", "A3", "A4"} {
		got, ok := c.Get(ctx, number)
		require.False(t, ok, number)
		require.Empty(t, got, number)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAndDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewAccountCache(client, time.Minute)
	ctx := context.Background()
	a := testAccount()

	data, err := json.Marshal(a)
	require.NoError(t, err)

	mock.ExpectSet(Key(a.Number), string(data), time.Minute).SetVal("OK")
	mock.ExpectDel(Key(a.Number)).SetVal(1)
	mock.ExpectDel(Key("A2")).SetErr(errors.New("connection refused"))

	c.Set(ctx, a)
	c.Delete(ctx, a.Number)
	c.Delete(ctx, "A2")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewAccountCache(client, time.Minute)
	ctx := context.Background()

	for i := 0; i < TripAfter; i++ {
		mock.ExpectGet(Key("A1")).SetErr(errors.New("connection refused"))
	}

	for i := 0; i < TripAfter; i++ {
		_, ok := c.Get(ctx, "A1")
		require.False(t, ok)
	}

	require.Equal(t, gobreaker.StateOpen, c.State())

	// Open breaker short-circuits: no further redis commands are issued.
	_, ok := c.Get(ctx, "A1")
	require.False(t, ok)
	c.Delete(ctx, "A1")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMissesDoNotTripBreaker(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewAccountCache(client, time.Minute)
	ctx := context.Background()

	for i := 0; i < TripAfter+1; i++ {
		mock.ExpectGet(Key("A1")).RedisNil()
	}

	for i := 0; i < TripAfter+1; i++ {
		_, ok := c.Get(ctx, "A1")
		require.False(t, ok)
	}

	require.Equal(t, gobreaker.StateClosed, c.State())
	require.NoError(t, mock.ExpectationsWereMet())
}
