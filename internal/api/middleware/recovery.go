package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/tourney/internal/api/apierr"
	"github.com/mcoot/tourney/internal/middleware"
)

// Recovery turns a panicking command into an INTERNAL_ERROR reply. The
// connection is closed afterwards since the handler may have left it mid-write.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		w.Header().Set("Connection", "close")
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
