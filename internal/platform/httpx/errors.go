// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("configuration error")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Anything unrecognised becomes a 500 that still carries the underlying message.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", Detail(err))
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Bad Request", Detail(err))
	case errors.Is(err, ErrConfiguration):
		Problem(w, http.StatusInternalServerError, "Configuration Error", Detail(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

// DetailError carries a client-facing message next to a sentinel kind.
type DetailError struct {
	Kind    error
	Message string
}

func (e *DetailError) Error() string { return e.Message }

func (e *DetailError) Unwrap() error { return e.Kind }

// Errorf builds a DetailError whose message is shown verbatim in the response.
func Errorf(kind error, message string) error {
	return &DetailError{Kind: kind, Message: message}
}

// Detail returns the client-facing message for err.
func Detail(err error) string {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
