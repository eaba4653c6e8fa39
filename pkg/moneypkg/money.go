// Package moneypkg provides conversions between decimal amounts and the minor units stored in the db.
package moneypkg

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits money amounts keep.
const Scale = 2

var (
	// ErrMalformed indicates that the amount is not a decimal number.
	ErrMalformed = errors.New("malformed amount")
	// ErrNotPositive indicates that the amount is zero or negative.
	ErrNotPositive = errors.New("amount must be positive")
	// ErrTooPrecise indicates that the amount has more than Scale fractional digits.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
	// ErrTooLarge indicates that the amount does not fit into minor units.
	ErrTooLarge = errors.New("amount is too large")
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Parse parses s as a positive amount with at most Scale fractional digits.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrMalformed
	}

	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}

	if !d.Equal(d.Truncate(Scale)) {
		return decimal.Zero, ErrTooPrecise
	}

	return d, nil
}

// ToCents converts a decimal amount into minor units.
func ToCents(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Truncate(Scale)) {
		return 0, ErrTooPrecise
	}

	shifted := d.Shift(Scale)
	if shifted.Abs().GreaterThan(maxCents) {
		return 0, ErrTooLarge
	}

	return shifted.IntPart(), nil
}

// ParseCents parses s with Parse and converts it to minor units.
func ParseCents(s string) (int64, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}

	return ToCents(d)
}

// FromCents returns the decimal value of the given minor units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Scale)
}

// Format renders minor units as a fixed two decimal string.
func Format(cents int64) string {
	return FromCents(cents).StringFixed(Scale)
}

// ValidAmount validates whether the field holds a positive amount with at most two decimal places.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := ParseCents(s)

	return err == nil
}
