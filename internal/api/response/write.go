package response

import (
	"encoding/json"
	"net/http"
)

var encodeFailure = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}` + "\n")

// JSON encodes data and writes it with status. Tournament state changes on
// every result, so replies are never cached. A value that fails to encode
// becomes a 500 rather than a truncated body.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")

	if data == nil {
		w.WriteHeader(status)
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodeFailure)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// NoContent acknowledges a command that has nothing to return
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}
