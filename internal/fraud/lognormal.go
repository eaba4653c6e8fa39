package fraud

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Parameters of the synthetic "normal transaction" distribution.
const (
	DefaultMu         = 4.0
	DefaultSigma      = 0.5
	DefaultSampleSize = 10_000
	DefaultSeed       = 42
	DefaultZThreshold = 3.0
)

// LogNormalParams configures the synthetic sample the model is fit on.
type LogNormalParams struct {
	Mu         float64
	Sigma      float64
	SampleSize int
	Seed       int64
	ZThreshold float64
}

// LogNormalModel flags amounts that are unusually large compared to a synthetic
// log-normal sample of ordinary transactions.
//
// The model is fit once when constructed and never changes afterwards, so it is
// safe for concurrent use.
type LogNormalModel struct {
	mean       float64
	std        float64
	zThreshold float64
}

// NewLogNormalModel draws the synthetic sample and fits the model on it.
func NewLogNormalModel(p LogNormalParams) (*LogNormalModel, error) {
	if p.SampleSize == 0 {
		p.SampleSize = DefaultSampleSize
	}

	if p.ZThreshold == 0 {
		p.ZThreshold = DefaultZThreshold
	}

	if p.SampleSize < 2 {
		return nil, errors.New("sample size must be at least 2")
	}

	if p.Sigma <= 0 || p.ZThreshold < 0 {
		return nil, errors.New("sigma and z threshold must be positive")
	}

	rnd := rand.New(rand.NewSource(p.Seed))

	// The log of a log-normal amount is normal, so the model is fit in log space.
	logs := make([]float64, p.SampleSize)
	for i := range logs {
		logs[i] = p.Mu + p.Sigma*rnd.NormFloat64()
	}

	mean, std := stat.MeanStdDev(logs, nil)
	if std == 0 {
		return nil, errors.New("degenerate sample")
	}

	return &LogNormalModel{
		mean:       mean,
		std:        std,
		zThreshold: p.ZThreshold,
	}, nil
}

// ZScore returns the log-space z-score of amount.
func (m *LogNormalModel) ZScore(amount decimal.Decimal) float64 {
	return (math.Log(amount.InexactFloat64()) - m.mean) / m.std
}

// Cutoff returns the smallest amount the model flags.
func (m *LogNormalModel) Cutoff() decimal.Decimal {
	return decimal.NewFromFloat(math.Exp(m.mean + m.zThreshold*m.std))
}

// Score returns Anomalous when the amount lies above the upper z threshold.
func (m *LogNormalModel) Score(_ context.Context, amount decimal.Decimal) (Verdict, error) {
	if !amount.IsPositive() {
		return Normal, nil
	}

	if m.ZScore(amount) > m.zThreshold {
		return Anomalous, nil
	}

	return Normal, nil
}
