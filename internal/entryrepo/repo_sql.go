// Package entryrepo manages repository layer of ledger entries.
package entryrepo

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// RepoSQL facilitates entry repository layer logic.
type RepoSQL struct {
	db dbpkg.SQLInterface
}

// NewRepoSQL returns entry RepoSQL.
func NewRepoSQL(db dbpkg.SQLInterface) *RepoSQL {
	return &RepoSQL{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var (
		e     domain.Entry
		cents int64
	)

	err := row.Scan(
		&e.ID,
		&e.AccountNumber,
		&e.Kind,
		&cents,
		&e.Counterparty,
		&e.CreatedAt,
	)
	if err != nil {
		return domain.Entry{}, err
	}

	if !e.Kind.Valid() {
		return domain.Entry{}, domain.ErrUnknownEntryKind
	}

	e.Amount = moneypkg.Format(cents)
	e.CreatedAt = e.CreatedAt.UTC()

	return e, nil
}

const createQuery = `
INSERT INTO
    transactions (account_number, kind, amount, counterparty, created_at)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, account_number, kind, amount, counterparty, created_at
`

// Create appends the entry and then returns it.
func (r *RepoSQL) Create(ctx context.Context, arg domain.CreateEntryParams) (domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountNumber,
		string(arg.Kind),
		arg.AmountCents,
		arg.Counterparty,
		arg.CreatedAt,
	)

	e, err := scanEntry(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		switch {
		case dbpkg.ConstraintViolated(err, "transactions_account_number_fkey", "FOREIGN KEY"):
			return e, domain.ErrAccountNotFound
		case dbpkg.ConstraintViolated(err, "transactions_amount_check"):
			return e, domain.ErrInvalidAmount
		}

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const deleteByAccountQuery = `
DELETE FROM transactions
WHERE account_number = $1
`

// DeleteByAccount removes all entries of the given account.
func (r *RepoSQL) DeleteByAccount(ctx context.Context, number string) error {
	if _, err := r.db.ExecContext(ctx, deleteByAccountQuery, number); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("account", number).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const listByAccountQuery = `
SELECT id, account_number, kind, amount, counterparty, created_at FROM transactions
WHERE account_number = $1
ORDER BY id DESC
`

// ListByAccount returns the entries of the given account, newest first.
func (r *RepoSQL) ListByAccount(ctx context.Context, number string) ([]domain.Entry, error) {
	return r.query(ctx, listByAccountQuery, number)
}

const listBetweenQuery = `
SELECT id, account_number, kind, amount, counterparty, created_at FROM transactions
WHERE created_at >= $1 AND created_at < $2
ORDER BY id
`

// ListBetween returns the entries of all accounts created within [from, to), oldest first.
func (r *RepoSQL) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Entry, error) {
	return r.query(ctx, listBetweenQuery, from.UTC(), to.UTC())
}

func (r *RepoSQL) query(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Entry{}

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
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
