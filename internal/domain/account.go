// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput indicates that the request failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyAccountNumber indicates a missing account number.
	ErrEmptyAccountNumber = fmt.Errorf("%w: account number is required", ErrInvalidInput)
	// ErrEmptyHolderName indicates a missing holder name.
	ErrEmptyHolderName = fmt.Errorf("%w: holder name is required", ErrInvalidInput)
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount indicates that the account with the given number already exists.
	ErrDuplicateAccount = errors.New("account already exists")
)

// Account holds the holder and the balance of a bank account.
type Account struct {
	Number     string    `json:"number"`
	HolderName string    `json:"holder_name"`
	Balance    string    `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}
