// Package metrics holds the prometheus collectors of the ledger.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Ledger operation names used as label values.
const (
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
)

// Ledger counts ledger operations by outcome.
type Ledger struct {
	Operations *prometheus.CounterVec
	FraudFlags *prometheus.CounterVec
	Volume     *prometheus.CounterVec
}

// NewLedger creates the ledger collectors and registers them with reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petledger_operations_total",
				Help: "Number of ledger operations by operation and result",
			},
			[]string{"op", "result"},
		),
		FraudFlags: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petledger_fraud_flags_total",
				Help: "Number of operations rejected by the anomaly scorer",
			},
			[]string{"op"},
		),
		Volume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petledger_volume_total",
				Help: "Sum of successfully moved amounts by operation",
			},
			[]string{"op"},
		),
	}

	reg.MustRegister(m.Operations, m.FraudFlags, m.Volume)

	return m
}

// Observe records the outcome of op. amount is added to the volume only on success.
func (m *Ledger) Observe(op string, amount float64, err error) {
	if m == nil {
		return
	}

	result := Result(err)
	m.Operations.WithLabelValues(op, result).Inc()

	switch result {
	case "ok":
		m.Volume.WithLabelValues(op).Add(amount)
	case "flagged":
		m.FraudFlags.WithLabelValues(op).Inc()
	}
}

// Result maps err onto a low cardinality result label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAnomalyFlagged):
		return "flagged"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrDuplicateAccount):
		return "duplicate"
	}

	return "internal"
}
