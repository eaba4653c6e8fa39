// Package httperr maps ledger errors onto http responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Status maps a service error onto the response status and body.
// Unknown errors are hidden behind errorspkg.ErrInternal.
func Status(err error) (int, web.Response) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, web.Error(err)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, web.Error(err)
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, web.Error(err)
	case errors.Is(err, domain.ErrDuplicateAccount):
		return http.StatusConflict, web.Error(err)
	case errors.Is(err, domain.ErrAnomalyFlagged):
		return http.StatusUnprocessableEntity, web.Error(err)
	}

	return http.StatusInternalServerError, web.Error(errorspkg.ErrInternal)
}
