package ledgerrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/entryrepo"
	"github.com/go-petr/pet-ledger/internal/ledgerrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

type fixture struct {
	ledger   *ledgerrepo.RepoSQL
	accounts *accountrepo.RepoSQL
	entries  *entryrepo.RepoSQL
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := dbpkg.SetupTestDB(t)

	return fixture{
		ledger:   ledgerrepo.NewRepoSQL(db),
		accounts: accountrepo.NewRepoSQL(db),
		entries:  entryrepo.NewRepoSQL(db),
	}
}

func (f fixture) seedAccount(t *testing.T, number string, cents int64) domain.Account {
	t.Helper()

	ctx := context.Background()

	a, err := f.accounts.Create(ctx, number, randompkg.HolderName())
	require.NoError(t, err)

	if cents > 0 {
		a, err = f.accounts.AddBalance(ctx, number, cents)
		require.NoError(t, err)
	}

	return a
}

func (f fixture) balance(t *testing.T, number string) string {
	t.Helper()

	a, err := f.accounts.Get(context.Background(), number)
	require.NoError(t, err)

	return a.Balance
}

func TestDepositWithdraw(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	account := f.seedAccount(t, "A1", 0)

	res, err := f.ledger.Deposit(ctx, account.Number, 50_000)
	require.NoError(t, err)
	require.Equal(t, "500.00", res.Account.Balance)
	require.Equal(t, domain.KindDeposit, res.Entry.Kind)
	require.Equal(t, "500.00", res.Entry.Amount)
	require.Equal(t, account.Number, res.Entry.AccountNumber)

	res, err = f.ledger.Withdraw(ctx, account.Number, 50_000)
	require.NoError(t, err)
	require.Equal(t, "0.00", res.Account.Balance)
	require.Equal(t, domain.KindWithdraw, res.Entry.Kind)

	entries, err := f.entries.ListByAccount(ctx, account.Number)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	account := f.seedAccount(t, "A1", 10_000)

	res, err := f.ledger.Withdraw(ctx, account.Number, 10_001)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.Empty(t, res)
	require.Equal(t, "100.00", f.balance(t, account.Number))

	entries, err := f.entries.ListByAccount(ctx, account.Number)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDepositAccountNotFound(t *testing.T) {
	f := setup(t)

	_, err := f.ledger.Deposit(context.Background(), "missing", 100)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTransfer(t *testing.T) {
	testCases := []struct {
		name      string
		from, to  string
		cents     int64
		wantErr   error
		wantFrom  string
		wantTo    string
		wantCount int
	}{
		{name: "OK", from: "A1", to: "A2", cents: 20_000, wantFrom: "300.00", wantTo: "300.00", wantCount: 1},
		{name: "OKReverseOrder", from: "A2", to: "A1", cents: 5_000, wantFrom: "50.00", wantTo: "550.00", wantCount: 1},
		{name: "InsufficientFunds", from: "A2", to: "A1", cents: 10_001, wantErr: domain.ErrInsufficientFunds, wantFrom: "100.00", wantTo: "500.00"},
		{name: "ToNotFound", from: "A1", to: "Z9", cents: 100, wantErr: domain.ErrAccountNotFound, wantFrom: "500.00"},
		{name: "ToNotFoundLockedFirst", from: "A2", to: "A0", cents: 100, wantErr: domain.ErrAccountNotFound, wantFrom: "100.00"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := setup(t)
			ctx := context.Background()
			f.seedAccount(t, "A1", 50_000)
			f.seedAccount(t, "A2", 10_000)

			res, err := f.ledger.Transfer(ctx, tc.from, tc.to, tc.cents)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, res)

				// Nothing of a failed transfer may persist.
				require.Equal(t, tc.wantFrom, f.balance(t, tc.from))
				if tc.wantTo != "" {
					require.Equal(t, tc.wantTo, f.balance(t, tc.to))
				}

				entries, err := f.entries.ListByAccount(ctx, tc.from)
				require.NoError(t, err)
				require.Empty(t, entries)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.from, res.FromAccount.Number)
			require.Equal(t, tc.to, res.ToAccount.Number)
			require.Equal(t, tc.wantFrom, res.FromAccount.Balance)
			require.Equal(t, tc.wantTo, res.ToAccount.Balance)

			require.Equal(t, domain.KindTransferOut, res.FromEntry.Kind)
			require.Equal(t, domain.KindTransferIn, res.ToEntry.Kind)
			require.Equal(t, res.FromEntry.Amount, res.ToEntry.Amount)
			require.True(t, res.FromEntry.CreatedAt.Equal(res.ToEntry.CreatedAt))
			require.Equal(t, tc.to, res.FromEntry.Counterparty)
			require.Equal(t, tc.from, res.ToEntry.Counterparty)

			require.Equal(t, tc.wantFrom, f.balance(t, tc.from))
			require.Equal(t, tc.wantTo, f.balance(t, tc.to))

			fromEntries, err := f.entries.ListByAccount(ctx, tc.from)
			require.NoError(t, err)
			require.Len(t, fromEntries, tc.wantCount)

			toEntries, err := f.entries.ListByAccount(ctx, tc.to)
			require.NoError(t, err)
			require.Len(t, toEntries, tc.wantCount)
		})
	}
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	account := f.seedAccount(t, "A1", 1_000)

	const n = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.ledger.Withdraw(ctx, account.Number, 100)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()

				return
			}

			if !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Errorf("Withdraw returned unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	require.Equal(t, 10, succeeded)
	require.Equal(t, "0.00", f.balance(t, account.Number))
}

func TestDeleteAccount(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedAccount(t, "A1", 50_000)
	f.seedAccount(t, "A2", 0)

	_, err := f.ledger.Transfer(ctx, "A1", "A2", 100)
	require.NoError(t, err)

	require.NoError(t, f.ledger.DeleteAccount(ctx, "A1"))

	_, err = f.accounts.Get(ctx, "A1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	entries, err := f.entries.ListByAccount(ctx, "A1")
	require.NoError(t, err)
	require.Empty(t, entries)

	entries, err = f.entries.ListByAccount(ctx, "A2")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, f.ledger.DeleteAccount(ctx, "A1"))
}

func TestTransferRollsBackOnEntryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	columns := []string{"number", "holder_name", "balance", "created_at"}
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE accounts").
		WithArgs(int64(-100), "A1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("A1", "Alice", int64(400), now))
	mock.ExpectQuery("UPDATE accounts").
		WithArgs(int64(100), "A2").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("A2", "Bob", int64(100), now))
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	res, err := ledgerrepo.NewRepoSQL(db).Transfer(context.Background(), "A1", "A2", 100)
	require.ErrorIs(t, err, errorspkg.ErrInternal)
	require.Empty(t, res)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE accounts").
		WithArgs(int64(100), "A1").
		WillReturnRows(sqlmock.NewRows([]string{"number", "holder_name", "balance", "created_at"}).
			AddRow("A1", "Alice", int64(100), now))
	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_number", "kind", "amount", "counterparty", "created_at"}).
			AddRow(int64(1), "A1", "Deposit", int64(100), "", now))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, err = ledgerrepo.NewRepoSQL(db).Deposit(context.Background(), "A1", 100)
	require.ErrorIs(t, err, errorspkg.ErrInternal)

	require.NoError(t, mock.ExpectationsWereMet())
}
