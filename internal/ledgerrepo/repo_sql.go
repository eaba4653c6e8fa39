// Package ledgerrepo manages the transactional repository layer of balance changes.
package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/entryrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoSQL performs balance changes and their ledger entries within db transactions.
type RepoSQL struct {
	conn *sql.DB
	now  func() time.Time
}

// NewRepoSQL returns ledger RepoSQL with connection to start transactions.
func NewRepoSQL(conn *sql.DB) *RepoSQL {
	return &RepoSQL{
		conn: conn,
		now:  dbpkg.Now,
	}
}

// txRepos holds the repositories bound to a single transaction.
type txRepos struct {
	accounts *accountrepo.RepoSQL
	entries  *entryrepo.RepoSQL
}

// execTx executes fn within a database transaction and commits only if fn succeeds.
func (r *RepoSQL) execTx(ctx context.Context, fn func(q txRepos) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Msg("rollback failed")
		}
	}()

	q := txRepos{
		accounts: accountrepo.NewRepoSQL(tx),
		entries:  entryrepo.NewRepoSQL(tx),
	}

	if err := fn(q); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// Deposit adds cents to the account balance and records a Deposit entry.
func (r *RepoSQL) Deposit(ctx context.Context, number string, cents int64) (domain.MovementResult, error) {
	return r.move(ctx, number, cents, domain.KindDeposit)
}

// Withdraw takes cents from the account balance and records a Withdraw entry.
//
// The balance check constraint is evaluated by the update itself, so concurrent
// withdrawals can never overdraw the account.
func (r *RepoSQL) Withdraw(ctx context.Context, number string, cents int64) (domain.MovementResult, error) {
	return r.move(ctx, number, cents, domain.KindWithdraw)
}

func (r *RepoSQL) move(ctx context.Context, number string, cents int64, kind domain.EntryKind) (domain.MovementResult, error) {
	var result domain.MovementResult

	delta := cents
	if kind == domain.KindWithdraw {
		delta = -cents
	}

	err := r.execTx(ctx, func(q txRepos) error {
		var err error

		result.Account, err = q.accounts.AddBalance(ctx, number, delta)
		if err != nil {
			return err
		}

		result.Entry, err = q.entries.Create(ctx, domain.CreateEntryParams{
			AccountNumber: number,
			Kind:          kind,
			AmountCents:   cents,
			CreatedAt:     r.now(),
		})

		return err
	})
	if err != nil {
		return domain.MovementResult{}, err
	}

	return result, nil
}

// Transfer moves cents between two accounts.
//
// Both balance updates and the TransferOut/TransferIn entries are written within a
// single db transaction; the entries share one timestamp.
func (r *RepoSQL) Transfer(ctx context.Context, from, to string, cents int64) (domain.TransferTxResult, error) {
	var result domain.TransferTxResult

	err := r.execTx(ctx, func(q txRepos) error {
		var err error

		// To avoid deadlocks execute statements in consistent account order
		if from < to {
			result.FromAccount, result.ToAccount, err = addBalances(ctx, q.accounts, from, -cents, to, cents)
		} else {
			result.ToAccount, result.FromAccount, err = addBalances(ctx, q.accounts, to, cents, from, -cents)
		}

		if err != nil {
			return err
		}

		now := r.now()

		result.FromEntry, err = q.entries.Create(ctx, domain.CreateEntryParams{
			AccountNumber: from,
			Kind:          domain.KindTransferOut,
			AmountCents:   cents,
			Counterparty:  to,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		result.ToEntry, err = q.entries.Create(ctx, domain.CreateEntryParams{
			AccountNumber: to,
			Kind:          domain.KindTransferIn,
			AmountCents:   cents,
			Counterparty:  from,
			CreatedAt:     now,
		})

		return err
	})
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	return result, nil
}

func addBalances(ctx context.Context, r *accountrepo.RepoSQL, number1 string, cents1 int64, number2 string, cents2 int64) (domain.Account, domain.Account, error) {
	account1, err := r.AddBalance(ctx, number1, cents1)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	account2, err := r.AddBalance(ctx, number2, cents2)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	return account1, account2, nil
}

// DeleteAccount removes the account together with all its entries.
// Deleting a missing account is a no-op.
func (r *RepoSQL) DeleteAccount(ctx context.Context, number string) error {
	return r.execTx(ctx, func(q txRepos) error {
		if err := q.entries.DeleteByAccount(ctx, number); err != nil {
			return err
		}

		return q.accounts.Delete(ctx, number)
	})
}
