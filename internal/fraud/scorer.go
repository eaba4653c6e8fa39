// Package fraud provides the anomaly scorers that gate every balance change.
package fraud

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Verdict is the classification of a proposed amount.
type Verdict int

// All verdicts.
const (
	Normal Verdict = iota
	Anomalous
)

func (v Verdict) String() string {
	if v == Anomalous {
		return "anomalous"
	}

	return "normal"
}

// Scorer classifies a proposed transaction amount.
//
// Scorers see only the amount, never the account, the kind of the operation or its time.
type Scorer interface {
	Score(ctx context.Context, amount decimal.Decimal) (Verdict, error)
}

// Strategy names accepted by New.
const (
	StrategyNone      = "none"
	StrategyThreshold = "threshold"
	StrategyZScore    = "zscore"
)

// Options configures the scorer built by New.
type Options struct {
	Strategy   string
	MaxAmount  decimal.Decimal
	ZThreshold float64
	SampleSize int
	Seed       int64
}

// New builds the scorer selected by opts.Strategy.
func New(opts Options) (Scorer, error) {
	switch opts.Strategy {
	case "", StrategyNone:
		return AllowAll{}, nil
	case StrategyThreshold:
		return NewThreshold(opts.MaxAmount)
	case StrategyZScore:
		return NewLogNormalModel(LogNormalParams{
			Mu:         DefaultMu,
			Sigma:      DefaultSigma,
			SampleSize: opts.SampleSize,
			Seed:       opts.Seed,
			ZThreshold: opts.ZThreshold,
		})
	}

	return nil, fmt.Errorf("unknown fraud strategy %q", opts.Strategy)
}

// AllowAll never flags anything.
type AllowAll struct{}

// Score always returns Normal.
func (AllowAll) Score(context.Context, decimal.Decimal) (Verdict, error) {
	return Normal, nil
}

// Threshold flags every amount above a fixed maximum.
type Threshold struct {
	max decimal.Decimal
}

// NewThreshold returns a Threshold scorer; max must be positive.
func NewThreshold(max decimal.Decimal) (*Threshold, error) {
	if !max.IsPositive() {
		return nil, fmt.Errorf("threshold must be positive, got %s", max)
	}

	return &Threshold{max: max}, nil
}

// Score returns Anomalous when amount exceeds the maximum.
func (t *Threshold) Score(_ context.Context, amount decimal.Decimal) (Verdict, error) {
	if amount.GreaterThan(t.max) {
		return Anomalous, nil
	}

	return Normal, nil
}
