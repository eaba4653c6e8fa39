// Package cache provides a redis backed read-through cache of accounts.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/go-petr/pet-ledger/internal/domain"
)

const keyPrefix = "petledger:account:"

const (
	// TripAfter is the number of consecutive redis failures that opens the breaker.
	TripAfter = 5
	// OpenTimeout is how long the breaker stays open before probing redis again.
	OpenTimeout = 30 * time.Second
)

// AccountCache stores account snapshots as JSON under their number.
//
// Cache failures are logged and treated as misses; the database stays the source of truth.
// While the breaker is open redis is not called at all.
type AccountCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
}

// NewAccountCache creates an AccountCache backed by the provided redis client.
// A zero ttl keeps keys until they are deleted.
func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	st := gobreaker.Settings{Name: "account-cache", Timeout: OpenTimeout}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= TripAfter
	}

	return &AccountCache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

// do runs fn through the breaker.
func (c *AccountCache) do(fn func() error) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	return err
}

// State reports the breaker state.
func (c *AccountCache) State() gobreaker.State {
	return c.breaker.State()
}

func logFailure(ctx context.Context, err error, number, msg string) {
	l := zerolog.Ctx(ctx)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		l.Debug().Err(err).Str("account", number).Msg(msg)
		return
	}

	l.Warn().Err(err).Str("account", number).Msg(msg)
}

// Key returns the redis key of the account.
func Key(number string) string {
	return keyPrefix + number
}

// Get returns the cached account, if any.
func (c *AccountCache) Get(ctx context.Context, number string) (domain.Account, bool) {
	var (
		data  string
		found bool
	)

	err := c.do(func() error {
		var err error

		data, err = c.client.Get(ctx, Key(number)).Result()

		switch {
		case errors.Is(err, redis.Nil):
			return nil
		case err != nil:
			return err
		}

		found = true

		return nil
	})
	if err != nil {
		logFailure(ctx, err, number, "account cache read failed")
		return domain.Account{}, false
	}

	if !found {
		return domain.Account{}, false
	}

	var a domain.Account
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("account", number).Msg("account cache entry is corrupt")
		return domain.Account{}, false
	}

	return a, true
}

// Set stores the account snapshot.
func (c *AccountCache) Set(ctx context.Context, a domain.Account) {
	data, err := json.Marshal(a)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("account", a.Number).Msg("account cache marshal failed")
		return
	}

	err = c.do(func() error {
		return c.client.Set(ctx, Key(a.Number), string(data), c.ttl).Err()
	})
	if err != nil {
		logFailure(ctx, err, a.Number, "account cache write failed")
	}
}

// Delete drops the cached account.
func (c *AccountCache) Delete(ctx context.Context, number string) {
	err := c.do(func() error {
		return c.client.Del(ctx, Key(number)).Err()
	})
	if err != nil {
		logFailure(ctx, err, number, "account cache delete failed")
	}
}
