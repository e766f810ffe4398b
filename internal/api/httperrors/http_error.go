package httperrors

import (
	"fmt"

	"github.com/patentvault/go-anchor-wallet/internal/types"
)

// HTTPError carries the public error payload plus an optional internal cause
// that is logged but never serialized.
type HTTPError struct {
	types.PublicHTTPError
	Internal error
}

func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  code,
			Type:  errorType,
			Title: title,
		},
	}
}

func NewHTTPErrorWithInternal(code int, errorType, title string, internal error) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Internal = internal
	return e
}

func NewHTTPErrorWithDetail(code int, errorType, title, detail string) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Detail = detail
	return e
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s: %v", e.Code, e.Type, e.Title, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}
