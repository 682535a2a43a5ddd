package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidOutcome       = "INVALID_OUTCOME"
	CodeInvalidPlayerName    = "INVALID_PLAYER_NAME"
	CodeUnknownDrawPolicy    = "UNKNOWN_DRAW_POLICY"
	CodeInvalidSettings      = "INVALID_SETTINGS"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeAuthDisabled         = "AUTH_DISABLED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeTournamentNotFound   = "TOURNAMENT_NOT_FOUND"
	CodeMatchNotFound        = "MATCH_NOT_FOUND"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeBackupNotFound       = "BACKUP_NOT_FOUND"
	CodeNoOpenMatch          = "NO_OPEN_MATCH"
	CodeDrawsNotAllowed      = "DRAWS_NOT_ALLOWED"
	CodeResetInProgress      = "RESET_IN_PROGRESS"
	CodeCannotUndo           = "CANNOT_UNDO"
	CodePlayerExists         = "PLAYER_EXISTS"
	CodeTournamentExists     = "TOURNAMENT_EXISTS"
	CodeTournamentInProgress = "TOURNAMENT_IN_PROGRESS"
	CodeInsufficientPlayers  = "INSUFFICIENT_PLAYERS"
	CodeTournamentEnded      = "TOURNAMENT_ENDED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Domain errors keep their
// full message so wrapped detail reaches the caller.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	mapped := func(status int, code string) *httpError {
		return &httpError{status, APIError{code, err.Error()}}
	}

	switch {
	// Not found
	case errors.Is(err, model.ErrTournamentNotFound):
		return mapped(http.StatusNotFound, CodeTournamentNotFound)
	case errors.Is(err, model.ErrMatchNotFound):
		return mapped(http.StatusNotFound, CodeMatchNotFound)
	case errors.Is(err, model.ErrPlayerNotFound):
		return mapped(http.StatusNotFound, CodePlayerNotFound)
	case errors.Is(err, model.ErrBackupNotFound):
		return mapped(http.StatusNotFound, CodeBackupNotFound)
	case errors.Is(err, model.ErrNoOpenMatch):
		return mapped(http.StatusNotFound, CodeNoOpenMatch)

	// Invalid input
	case errors.Is(err, model.ErrInvalidOutcome):
		return mapped(http.StatusBadRequest, CodeInvalidOutcome)
	case errors.Is(err, model.ErrInvalidPlayerName):
		return mapped(http.StatusBadRequest, CodeInvalidPlayerName)
	case errors.Is(err, model.ErrUnknownDrawPolicy):
		return mapped(http.StatusBadRequest, CodeUnknownDrawPolicy)
	case errors.Is(err, model.ErrInvalidSettings),
		errors.Is(err, model.ErrInvalidFormat):
		return mapped(http.StatusBadRequest, CodeInvalidSettings)
	case errors.Is(err, model.ErrInvalidTitle):
		return mapped(http.StatusBadRequest, CodeInvalidRequest)

	// Policy and conflicts
	case errors.Is(err, model.ErrDrawsNotAllowed):
		return mapped(http.StatusConflict, CodeDrawsNotAllowed)
	case errors.Is(err, model.ErrResetInProgress):
		return mapped(http.StatusConflict, CodeResetInProgress)
	case errors.Is(err, model.ErrCannotUndo):
		return mapped(http.StatusConflict, CodeCannotUndo)
	case errors.Is(err, model.ErrPlayerExists):
		return mapped(http.StatusConflict, CodePlayerExists)
	case errors.Is(err, model.ErrTournamentExists):
		return mapped(http.StatusConflict, CodeTournamentExists)
	case errors.Is(err, model.ErrTournamentInProgress):
		return mapped(http.StatusConflict, CodeTournamentInProgress)
	case errors.Is(err, model.ErrInsufficientPlayers):
		return mapped(http.StatusConflict, CodeInsufficientPlayers)
	case errors.Is(err, model.ErrTournamentEnded):
		return mapped(http.StatusConflict, CodeTournamentEnded)

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid operator key"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrAuthDisabled):
		return &httpError{http.StatusNotFound, APIError{CodeAuthDisabled, "Operator auth is not configured"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
