package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidDateRange indicates that the report range ends before it starts.
	ErrInvalidDateRange = fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	// ErrInvalidDate indicates a report date that is not formatted as YYYY-MM-DD.
	ErrInvalidDate = fmt.Errorf("%w: dates must be formatted as YYYY-MM-DD", ErrInvalidInput)
	// ErrUnknownEntryKind indicates a stored entry kind the app does not know.
	ErrUnknownEntryKind = errors.New("unknown entry kind")
)

// EntryKind tells what kind of balance change an entry records.
type EntryKind string

// All entry kinds.
const (
	KindDeposit     EntryKind = "Deposit"
	KindWithdraw    EntryKind = "Withdraw"
	KindTransferOut EntryKind = "TransferOut"
	KindTransferIn  EntryKind = "TransferIn"
)

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdraw, KindTransferOut, KindTransferIn:
		return true
	}

	return false
}

// Entry holds a single balance change of an account.
type Entry struct {
	ID            int64     `json:"id"`
	AccountNumber string    `json:"account_number"`
	Kind          EntryKind `json:"kind"`
	Amount        string    `json:"amount"` // always positive, Kind gives the direction
	Counterparty  string    `json:"counterparty,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateEntryParams is the input data to append an entry.
type CreateEntryParams struct {
	AccountNumber string
	Kind          EntryKind
	AmountCents   int64
	Counterparty  string
	CreatedAt     time.Time
}
