package httperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

func TestStatus(t *testing.T) {
	testCases := []struct {
		err       error
		wantCode  int
		wantError string
	}{
		{err: domain.ErrEmptyHolderName, wantCode: http.StatusBadRequest, wantError: domain.ErrEmptyHolderName.Error()},
		{err: domain.ErrInvalidAmount, wantCode: http.StatusBadRequest, wantError: domain.ErrInvalidAmount.Error()},
		{err: domain.ErrInsufficientFunds, wantCode: http.StatusBadRequest, wantError: domain.ErrInsufficientFunds.Error()},
		{err: domain.ErrAccountNotFound, wantCode: http.StatusNotFound, wantError: domain.ErrAccountNotFound.Error()},
		{err: domain.ErrDuplicateAccount, wantCode: http.StatusConflict, wantError: domain.ErrDuplicateAccount.Error()},
		{err: domain.ErrAnomalyFlagged, wantCode: http.StatusUnprocessableEntity, wantError: domain.ErrAnomalyFlagged.Error()},
		{err: errorspkg.ErrInternal, wantCode: http.StatusInternalServerError, wantError: errorspkg.ErrInternal.Error()},
		{err: errors.New("pq: connection reset"), wantCode: http.StatusInternalServerError, wantError: errorspkg.ErrInternal.Error()},
	}

	for _, tc := range testCases {
		code, res := Status(tc.err)
		if code != tc.wantCode {
			t.Errorf("Status(%v) code = %d, want %d", tc.err, code, tc.wantCode)
		}

		if res.Error != tc.wantError {
			t.Errorf("Status(%v) error = %q, want %q", tc.err, res.Error, tc.wantError)
		}
	}
}
