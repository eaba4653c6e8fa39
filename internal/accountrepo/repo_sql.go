// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// RepoSQL facilitates account repository layer logic.
type RepoSQL struct {
	db dbpkg.SQLInterface
}

// NewRepoSQL returns account RepoSQL.
func NewRepoSQL(db dbpkg.SQLInterface) *RepoSQL {
	return &RepoSQL{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a     domain.Account
		cents int64
	)

	err := row.Scan(
		&a.Number,
		&a.HolderName,
		&cents,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}

	a.Balance = moneypkg.Format(cents)
	a.CreatedAt = a.CreatedAt.UTC()

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE number = $2
RETURNING number, holder_name, balance, created_at
`

// AddBalance changes the account's balance by the signed amount of cents and returns the changed account.
func (r *RepoSQL) AddBalance(ctx context.Context, number string, cents int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, addBalanceQuery, cents, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		if dbpkg.ConstraintViolated(err, "accounts_balance_check") {
			return a, domain.ErrInsufficientFunds
		}

		l.Error().Err(err).Str("account", number).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const createQuery = `
INSERT INTO
    accounts (number, holder_name, balance, created_at)
VALUES
    ($1, $2, 0, $3)
RETURNING number, holder_name, balance, created_at
`

// Create creates the account with zero balance and then returns it.
func (r *RepoSQL) Create(ctx context.Context, number, holderName string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, createQuery, number, holderName, dbpkg.Now()))
	if err != nil {
		if dbpkg.ConstraintViolated(err, "accounts_pkey", "accounts.number") {
			return a, domain.ErrDuplicateAccount
		}

		l.Error().Err(err).Str("account", number).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const deleteQuery = `
DELETE FROM accounts
WHERE number = $1
`

// Delete removes the account with the given number. Deleting a missing account is not an error.
func (r *RepoSQL) Delete(ctx context.Context, number string) error {
	if _, err := r.db.ExecContext(ctx, deleteQuery, number); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("account", number).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const getQuery = `
SELECT
	number, holder_name, balance, created_at
FROM accounts
WHERE number = $1
`

// Get returns the account with the given number.
func (r *RepoSQL) Get(ctx context.Context, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Str("account", number).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT
	number, holder_name, balance, created_at
FROM accounts
ORDER BY number
`

// List returns all accounts ordered by number.
func (r *RepoSQL) List(ctx context.Context) ([]domain.Account, error) {
	return r.query(ctx, listQuery)
}

const searchQuery = `
SELECT
	number, holder_name, balance, created_at
FROM accounts
WHERE LOWER(number) LIKE $1 ESCAPE '\' OR LOWER(holder_name) LIKE $1 ESCAPE '\'
ORDER BY number
`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns the accounts whose number or holder name contains substr, ignoring case.
func (r *RepoSQL) Search(ctx context.Context, substr string) ([]domain.Account, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(substr)) + "%"
	return r.query(ctx, searchQuery, pattern)
}

const renameQuery = `
UPDATE accounts
SET holder_name = $1
WHERE number = $2
RETURNING number, holder_name, balance, created_at
`

// Rename changes the holder name of the account and returns the changed account.
func (r *RepoSQL) Rename(ctx context.Context, number, holderName string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, renameQuery, holderName, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Str("account", number).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

func (r *RepoSQL) query(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
