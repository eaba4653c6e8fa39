package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/fraud"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

func testConfig() configpkg.Config {
	return configpkg.Config{
		FraudStrategy:       fraud.StrategyNone,
		FraudMaxAmount:      "1000",
		FraudZThreshold:     fraud.DefaultZThreshold,
		FraudSampleSize:     fraud.DefaultSampleSize,
		FraudSeed:           fraud.DefaultSeed,
		LowBalanceThreshold: "100",
	}
}

func TestNewScorer(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		strategy string
		maxAmt   string
		amount   string
		want     fraud.Verdict
		wantErr  bool
	}{
		{name: "None", strategy: fraud.StrategyNone, amount: "1000000", want: fraud.Normal},
		{name: "ThresholdBelow", strategy: fraud.StrategyThreshold, maxAmt: "1000", amount: "1000", want: fraud.Normal},
		{name: "ThresholdAbove", strategy: fraud.StrategyThreshold, maxAmt: "1000", amount: "1000.01", want: fraud.Anomalous},
		{name: "ThresholdInvalid", strategy: fraud.StrategyThreshold, maxAmt: "lots", wantErr: true},
		{name: "ZScore", strategy: fraud.StrategyZScore, amount: "1000000", want: fraud.Anomalous},
		{name: "Unknown", strategy: "magic", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := testConfig()
			config.FraudStrategy = tc.strategy
			config.FraudMaxAmount = tc.maxAmt

			scorer, err := NewScorer(config)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			got, err := scorer.Score(ctx, decimal.RequireFromString(tc.amount))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	conn := dbpkg.SetupTestDB(t)

	a, err := New(conn, testConfig(), nil)
	require.NoError(t, err)

	account, err := a.Accounts.Create(ctx, "A1", "Alice")
	require.NoError(t, err)
	require.True(t, a.Accounts.IsLowBalance(account))

	res, err := a.Ledger.Deposit(ctx, "A1", "150")
	require.NoError(t, err)
	require.Equal(t, "150.00", res.Account.Balance)
	require.False(t, a.Accounts.IsLowBalance(res.Account))

	history, err := a.Entries.History(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, domain.KindDeposit, history[0].Kind)

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewInvalidLowBalance(t *testing.T) {
	config := testConfig()
	config.LowBalanceThreshold = "low"

	_, err := New(dbpkg.SetupTestDB(t), config, nil)
	require.Error(t, err)
}

func TestNewRedisClientDisabled(t *testing.T) {
	rdb, err := NewRedisClient(context.Background(), configpkg.Config{})
	require.NoError(t, err)
	require.Nil(t, rdb)
}
