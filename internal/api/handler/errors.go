package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/tourney/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeInvalidOutcome       = apierr.CodeInvalidOutcome
	CodeUnknownDrawPolicy    = apierr.CodeUnknownDrawPolicy
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodeTournamentNotFound   = apierr.CodeTournamentNotFound
	CodeMatchNotFound        = apierr.CodeMatchNotFound
	CodeBackupNotFound       = apierr.CodeBackupNotFound
	CodeDrawsNotAllowed      = apierr.CodeDrawsNotAllowed
	CodeResetInProgress      = apierr.CodeResetInProgress
	CodeTournamentInProgress = apierr.CodeTournamentInProgress
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}

// decode reads a JSON request body into v
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("Invalid request body")
	}
	return nil
}
