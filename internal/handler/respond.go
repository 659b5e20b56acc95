package handler

import (
	"errors"
	"net/http"

	"fruitables-shop/internal/service"

	"github.com/labstack/echo/v4"
)

// respondError maps service sentinels to a user-facing JSON failure; anything
// unrecognized flows to echo's error handler and surfaces as a generic 500.
func respondError(c echo.Context, err error) error {
	status := 0
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMerchandiseMissing),
		errors.Is(err, service.ErrPaymentFailed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountDisabled):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrSignatureInvalid):
		status = http.StatusBadRequest
	default:
		return err
	}

	return c.JSON(status, map[string]interface{}{
		"success": false,
		"message": err.Error(),
	})
}
