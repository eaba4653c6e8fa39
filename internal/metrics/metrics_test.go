package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
)

func TestObserve(t *testing.T) {
	m := NewLedger(prometheus.NewRegistry())

	m.Observe(OpDeposit, 500, nil)
	m.Observe(OpDeposit, 20, nil)
	m.Observe(OpWithdraw, 10, domain.ErrInsufficientFunds)
	m.Observe(OpTransfer, 9999, domain.ErrAnomalyFlagged)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues(OpDeposit, "ok")))
	require.Equal(t, 520.0, testutil.ToFloat64(m.Volume.WithLabelValues(OpDeposit)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues(OpWithdraw, "insufficient_funds")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.Volume.WithLabelValues(OpWithdraw)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.FraudFlags.WithLabelValues(OpTransfer)))
}

func TestObserveNil(t *testing.T) {
	var m *Ledger
	m.Observe(OpDeposit, 1, nil)
}

func TestResult(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{err: nil, want: "ok"},
		{err: domain.ErrInvalidAmount, want: "invalid_input"},
		{err: domain.ErrSameAccount, want: "invalid_input"},
		{err: domain.ErrAccountNotFound, want: "not_found"},
		{err: domain.ErrInsufficientFunds, want: "insufficient_funds"},
		{err: domain.ErrDuplicateAccount, want: "duplicate"},
		{err: domain.ErrAnomalyFlagged, want: "flagged"},
		{err: errors.New("boom"), want: "internal"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, Result(tc.err))
	}
}
