// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// DefaultLowBalanceThreshold is the balance below which an account is reported as low.
var DefaultLowBalanceThreshold = decimal.NewFromInt(100)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, number, holderName string) (domain.Account, error)
	Get(ctx context.Context, number string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Search(ctx context.Context, query string) ([]domain.Account, error)
	Rename(ctx context.Context, number, holderName string) (domain.Account, error)
}

// Deleter removes an account together with its ledger entries.
type Deleter interface {
	DeleteAccount(ctx context.Context, number string) error
}

// Cache keeps account snapshots between reads.
type Cache interface {
	Get(ctx context.Context, number string) (domain.Account, bool)
	Set(ctx context.Context, a domain.Account)
	Delete(ctx context.Context, number string)
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (domain.Account, bool) { return domain.Account{}, false }
func (nopCache) Set(context.Context, domain.Account)                {}
func (nopCache) Delete(context.Context, string)                     {}

// Service facilitates account service layer logic.
type Service struct {
	repo       Repo
	deleter    Deleter
	cache      Cache
	lowBalance decimal.Decimal
}

// New returns account service struct to manage account bussines logic.
// A nil cache disables caching.
func New(ar Repo, d Deleter, c Cache, lowBalance decimal.Decimal) *Service {
	if c == nil {
		c = nopCache{}
	}

	return &Service{
		repo:       ar,
		deleter:    d,
		cache:      c,
		lowBalance: lowBalance,
	}
}

// Create creates and returns an account with zero balance.
func (s *Service) Create(ctx context.Context, number, holderName string) (domain.Account, error) {
	number = strings.TrimSpace(number)
	holderName = strings.TrimSpace(holderName)

	if number == "" {
		return domain.Account{}, domain.ErrEmptyAccountNumber
	}

	if holderName == "" {
		return domain.Account{}, domain.ErrEmptyHolderName
	}

	account, err := s.repo.Create(ctx, number, holderName)
	if err != nil {
		return account, err
	}

	zerolog.Ctx(ctx).Info().Str("account", account.Number).Msg("account created")

	return account, nil
}

// Get returns the account with the given number.
func (s *Service) Get(ctx context.Context, number string) (domain.Account, error) {
	if account, ok := s.cache.Get(ctx, number); ok {
		return account, nil
	}

	account, err := s.repo.Get(ctx, number)
	if err != nil {
		return account, err
	}

	s.cache.Set(ctx, account)

	return account, nil
}

// Refresh reads the account from the repository, bypassing the cache, and
// replaces the cached snapshot with it.
func (s *Service) Refresh(ctx context.Context, number string) (domain.Account, error) {
	account, err := s.repo.Get(ctx, number)
	if err != nil {
		return account, err
	}

	s.cache.Set(ctx, account)

	return account, nil
}

// List returns all accounts ordered by number.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.repo.List(ctx)
}

// Search returns accounts whose number or holder name contains the query, ignoring case.
// An empty query lists all accounts.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Account, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx)
	}

	return s.repo.Search(ctx, query)
}

// Rename changes the holder name of the account.
func (s *Service) Rename(ctx context.Context, number, holderName string) (domain.Account, error) {
	holderName = strings.TrimSpace(holderName)
	if holderName == "" {
		return domain.Account{}, domain.ErrEmptyHolderName
	}

	account, err := s.repo.Rename(ctx, number, holderName)
	if err != nil {
		return account, err
	}

	s.cache.Delete(ctx, number)

	return account, nil
}

// Delete removes the account and all its entries. Deleting a missing account succeeds.
func (s *Service) Delete(ctx context.Context, number string) error {
	if err := s.deleter.DeleteAccount(ctx, number); err != nil {
		return err
	}

	s.cache.Delete(ctx, number)
	zerolog.Ctx(ctx).Info().Str("account", number).Msg("account deleted")

	return nil
}

// Invalidate drops the cached snapshot of the account after its balance changed.
func (s *Service) Invalidate(ctx context.Context, number string) {
	s.cache.Delete(ctx, number)
}

// IsLowBalance reports whether the account balance is below the low balance threshold.
func (s *Service) IsLowBalance(a domain.Account) bool {
	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		return false
	}

	return balance.LessThan(s.lowBalance)
}
