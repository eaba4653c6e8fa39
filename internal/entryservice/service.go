// Package entryservice manages business logic layer of ledger entries.
package entryservice

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// DateLayout is the layout of report dates.
const DateLayout = "2006-01-02"

// Repo provides data access layer interface needed by entry service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package entryservice
type Repo interface {
	ListByAccount(ctx context.Context, number string) ([]domain.Entry, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Entry, error)
}

// AccountService provides the account operations needed by entry service layer.
type AccountService interface {
	Get(ctx context.Context, number string) (domain.Account, error)
}

// Service facilitates entry service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
}

// New returns entry service struct to manage entry bussines logic.
func New(er Repo, as AccountService) *Service {
	return &Service{
		repo:           er,
		accountService: as,
	}
}

// History returns the entries of the account, newest first.
func (s *Service) History(ctx context.Context, number string) ([]domain.Entry, error) {
	if _, err := s.accountService.Get(ctx, number); err != nil {
		return nil, err
	}

	return s.repo.ListByAccount(ctx, number)
}

// Report returns the entries of all accounts created on the calendar days from start to end inclusive.
func (s *Service) Report(ctx context.Context, start, end time.Time) ([]domain.Entry, error) {
	from := truncateDay(start)
	to := truncateDay(end)

	if to.Before(from) {
		return nil, domain.ErrInvalidDateRange
	}

	return s.repo.ListBetween(ctx, from, to.AddDate(0, 0, 1))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"Type", "Amount", "Date"}

// WriteCSV writes the entries as CSV rows of kind, amount and RFC 3339 timestamp.
func WriteCSV(w io.Writer, entries []domain.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, e := range entries {
		if err := cw.Write([]string{string(e.Kind), e.Amount, e.CreatedAt.UTC().Format(time.RFC3339)}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
