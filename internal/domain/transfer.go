package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a positive number with at most two decimal places", ErrInvalidInput)
	// ErrSameAccount indicates a transfer from an account to itself.
	ErrSameAccount = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidInput)
	// ErrInsufficientFunds indicates that the account does not have sufficient balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAnomalyFlagged indicates that the amount was flagged as potentially fraudulent.
	ErrAnomalyFlagged = errors.New("transaction flagged as potentially fraudulent")
)

// MovementResult is the result of a deposit or a withdrawal.
type MovementResult struct {
	Account Account `json:"account"`
	Entry   Entry   `json:"entry"`
}

// CreateTransferParams is the input data for the transfer transaction.
type CreateTransferParams struct {
	FromAccountNumber string `json:"from_account"`
	ToAccountNumber   string `json:"to_account"`
	Amount            string `json:"amount"`
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	FromAccount Account `json:"from_account"`
	ToAccount   Account `json:"to_account"`
	FromEntry   Entry   `json:"from_entry"`
	ToEntry     Entry   `json:"to_entry"`
}
