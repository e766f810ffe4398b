package util

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/patentvault/go-anchor-wallet/internal/api/httperrors"
	"github.com/patentvault/go-anchor-wallet/internal/types"
)

// Validatable is implemented by all request and response payload types.
type Validatable interface {
	Validate() error
}

// BindAndValidateBody binds the request body to v and runs its validation,
// translating both bind and validation failures into public 400 errors.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	if err := c.Bind(v); err != nil {
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPayload, "Failed to parse request body", err)
	}

	if err := v.Validate(); err != nil {
		return httperrors.NewHTTPErrorWithInternal(http.StatusBadRequest, types.PublicHTTPErrorTypeValidation, err.Error(), err)
	}

	return nil
}

// ValidateAndReturn validates the response payload before writing it, so a
// handler can never emit a response violating its own contract.
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(); err != nil {
		return err
	}

	return c.JSON(code, v)
}
