package web

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRequest is reported when the request cannot be decoded.
var ErrInvalidRequest = errors.New("invalid request")

// BindErrorMsg returns the message reported for a failed request binding.
func BindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return GetErrorMsg(ve[0])
	}

	return ErrInvalidRequest.Error()
}
