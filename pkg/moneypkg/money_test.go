package moneypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "Integer", input: "500", want: 50_000},
		{name: "TwoDecimals", input: "12.34", want: 1234},
		{name: "OneDecimal", input: "0.5", want: 50},
		{name: "TrailingZeros", input: "1.500", want: 150},
		{name: "Malformed", input: "!@#$", wantErr: ErrMalformed},
		{name: "Empty", input: "", wantErr: ErrMalformed},
		{name: "Zero", input: "0", wantErr: ErrNotPositive},
		{name: "Negative", input: "-100", wantErr: ErrNotPositive},
		{name: "TooPrecise", input: "1.001", wantErr: ErrTooPrecise},
		{name: "TooLarge", input: "100000000000000000000", wantErr: ErrTooLarge},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCents(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "0.00", Format(0))
	require.Equal(t, "500.00", Format(50_000))
	require.Equal(t, "12.34", Format(1234))
	require.Equal(t, "-0.05", Format(-5))
}

func TestRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("987.65")

	cents, err := ToCents(d)
	require.NoError(t, err)
	require.True(t, d.Equal(FromCents(cents)))
}
