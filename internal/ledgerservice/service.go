// Package ledgerservice manages business logic layer of deposits, withdrawals and transfers.
package ledgerservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/fraud"
	"github.com/go-petr/pet-ledger/internal/metrics"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Deposit(ctx context.Context, number string, cents int64) (domain.MovementResult, error)
	Withdraw(ctx context.Context, number string, cents int64) (domain.MovementResult, error)
	Transfer(ctx context.Context, from, to string, cents int64) (domain.TransferTxResult, error)
}

// AccountService provides the account operations needed by ledger service layer.
//
// Balance checks use Refresh, which reads the repository and never a cached snapshot.
type AccountService interface {
	Get(ctx context.Context, number string) (domain.Account, error)
	Refresh(ctx context.Context, number string) (domain.Account, error)
	Invalidate(ctx context.Context, number string)
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
	scorer         fraud.Scorer
	metrics        *metrics.Ledger
}

// New returns ledger service struct to manage balance changes.
// A nil scorer lets every amount through; nil metrics are not recorded.
func New(lr Repo, as AccountService, scorer fraud.Scorer, m *metrics.Ledger) *Service {
	if scorer == nil {
		scorer = fraud.AllowAll{}
	}

	return &Service{
		repo:           lr,
		accountService: as,
		scorer:         scorer,
		metrics:        m,
	}
}

// validAmount parses the amount and runs it through the scorer.
func (s *Service) validAmount(ctx context.Context, amount string) (decimal.Decimal, int64, error) {
	l := zerolog.Ctx(ctx)

	d, err := moneypkg.Parse(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return decimal.Zero, 0, domain.ErrInvalidAmount
	}

	cents, err := moneypkg.ToCents(d)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return decimal.Zero, 0, domain.ErrInvalidAmount
	}

	verdict, err := s.scorer.Score(ctx, d)
	if err != nil {
		l.Error().Err(err).Send()
		return decimal.Zero, 0, errorspkg.ErrInternal
	}

	if verdict == fraud.Anomalous {
		l.Warn().Str("amount", d.StringFixed(moneypkg.Scale)).Msg("amount flagged by anomaly scorer")
		return decimal.Zero, 0, domain.ErrAnomalyFlagged
	}

	return d, cents, nil
}

// sufficientBalance fails with ErrInsufficientFunds when the account holds less than amount.
func sufficientBalance(account domain.Account, amount decimal.Decimal) error {
	balance, err := decimal.NewFromString(account.Balance)
	if err != nil {
		return errorspkg.ErrInternal
	}

	if balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// Deposit adds amount to the account balance.
func (s *Service) Deposit(ctx context.Context, number, amount string) (res domain.MovementResult, err error) {
	var d decimal.Decimal

	defer func() { s.metrics.Observe(metrics.OpDeposit, d.InexactFloat64(), err) }()

	d, cents, err := s.validAmount(ctx, amount)
	if err != nil {
		return domain.MovementResult{}, err
	}

	if _, err = s.accountService.Get(ctx, number); err != nil {
		return domain.MovementResult{}, err
	}

	res, err = s.repo.Deposit(ctx, number, cents)
	if err != nil {
		return domain.MovementResult{}, err
	}

	s.accountService.Invalidate(ctx, number)

	return res, nil
}

// Withdraw takes amount from the account balance.
func (s *Service) Withdraw(ctx context.Context, number, amount string) (res domain.MovementResult, err error) {
	var d decimal.Decimal

	defer func() { s.metrics.Observe(metrics.OpWithdraw, d.InexactFloat64(), err) }()

	d, cents, err := s.validAmount(ctx, amount)
	if err != nil {
		return domain.MovementResult{}, err
	}

	account, err := s.accountService.Refresh(ctx, number)
	if err != nil {
		return domain.MovementResult{}, err
	}

	if err = sufficientBalance(account, d); err != nil {
		return domain.MovementResult{}, err
	}

	res, err = s.repo.Withdraw(ctx, number, cents)
	if err != nil {
		return domain.MovementResult{}, err
	}

	s.accountService.Invalidate(ctx, number)

	return res, nil
}

// Transfer checks if transfer request is valid and then executes transfer.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (res domain.TransferTxResult, err error) {
	var d decimal.Decimal

	defer func() { s.metrics.Observe(metrics.OpTransfer, d.InexactFloat64(), err) }()

	d, cents, err := s.validAmount(ctx, arg.Amount)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	if arg.FromAccountNumber == arg.ToAccountNumber {
		return domain.TransferTxResult{}, domain.ErrSameAccount
	}

	fromAccount, err := s.accountService.Refresh(ctx, arg.FromAccountNumber)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	if _, err = s.accountService.Get(ctx, arg.ToAccountNumber); err != nil {
		return domain.TransferTxResult{}, err
	}

	if err = sufficientBalance(fromAccount, d); err != nil {
		return domain.TransferTxResult{}, err
	}

	res, err = s.repo.Transfer(ctx, arg.FromAccountNumber, arg.ToAccountNumber, cents)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	s.accountService.Invalidate(ctx, arg.FromAccountNumber)
	s.accountService.Invalidate(ctx, arg.ToAccountNumber)

	zerolog.Ctx(ctx).Info().
		Str("from", arg.FromAccountNumber).
		Str("to", arg.ToAccountNumber).
		Str("amount", res.FromEntry.Amount).
		Msg("transfer completed")

	return res, nil
}
