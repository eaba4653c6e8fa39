package menu_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/app"
	"github.com/go-petr/pet-ledger/internal/fraud"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/menu"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

func run(t *testing.T, a *app.App, script ...string) string {
	t.Helper()

	var out bytes.Buffer

	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	m := menu.New(in, &out, a.Accounts, a.Ledger, a.Entries)

	require.NoError(t, m.Run(context.Background()))

	return out.String()
}

func setupApp(t *testing.T, strategy, maxAmount string) *app.App {
	t.Helper()

	config := integrationtest.Config()
	config.FraudStrategy = strategy
	config.FraudMaxAmount = maxAmount

	a, err := app.New(dbpkg.SetupTestDB(t), config, nil)
	require.NoError(t, err)

	return a
}

func TestRunSession(t *testing.T) {
	a := setupApp(t, fraud.StrategyNone, "")

	out := run(t, a,
		"1", "A1", "Alice",
		"1", "A1", "Alice",
		"1", "", "Nobody",
		"2", "A1",
		"1", "500",
		"2", "600",
		"1", "abc",
		"3", "A2", "10",
		"0",
		"1", "A2", "Bob",
		"2", "A1",
		"3", "A2", "450",
		"4",
		"0",
		"3",
		"4", "bob",
		"4", "zzz",
		"5", "2000-01-01", "2999-12-31",
		"5", "yesterday", "today",
		"5", "2024-02-01", "2024-01-01",
		"6", "A2", "1", "Robert",
		"6", "A2", "2", "A2",
		"2", "A2",
		"9",
		"0",
	)

	for _, want := range []string{
		"Welcome to the Bank App!",
		"Account A1 for Alice created successfully!",
		"Error: Account already exists.",
		"Error: Invalid input: account number is required.",
		"Transaction successful. New balance: 500.00",
		"Error: Insufficient funds.",
		"Error: Invalid input: amount must be a positive number with at most two decimal places.",
		"Error: Account not found.",
		"Account A2 for Bob created successfully!",
		"Transaction successful. New balance: 50.00",
		"Warning: low balance!",
		"TransferOut",
		"Bob",
		"No matching accounts found.",
		"TransferIn",
		"Error: Invalid input: dates must be formatted as YYYY-MM-DD.",
		"Error: Invalid input: end date is before start date.",
		"Account name updated successfully!",
		"Account and related transactions deleted successfully!",
		`Unknown option "9".`,
		"Goodbye!",
	} {
		require.Contains(t, out, want)
	}

	accounts, err := a.Accounts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "A1", accounts[0].Number)
	require.Equal(t, "50.00", accounts[0].Balance)
}

func TestRunFlaggedTransaction(t *testing.T) {
	a := setupApp(t, fraud.StrategyThreshold, "1000")

	out := run(t, a,
		"1", "A1", "Alice",
		"2", "A1",
		"1", "5000",
		"1", "250",
		"0",
		"0",
	)

	require.Contains(t, out, "Error: Transaction flagged as potentially FRAUDULENT and was not executed.")
	require.Contains(t, out, "Transaction successful. New balance: 250.00")
}

func TestRunEndOfInput(t *testing.T) {
	a := setupApp(t, fraud.StrategyNone, "")

	out := run(t, a, "2")

	require.Contains(t, out, "Account number: ")
	require.NotContains(t, out, "Goodbye!")
}
