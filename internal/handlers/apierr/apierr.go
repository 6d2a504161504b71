// Package apierr maps service errors onto HTTP errors.
package apierr

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/service"
)

// FromService converts err into a huma error. msg is used for failures the caller cannot fix.
func FromService(err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return huma.NewError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, service.ErrNotFound):
		return huma.NewError(http.StatusNotFound, "not found", err)
	case errors.Is(err, service.ErrEmailTaken):
		return huma.NewError(http.StatusConflict, "email already registered", err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return huma.NewError(http.StatusUnauthorized, "invalid credentials", err)
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}
