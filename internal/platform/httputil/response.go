// Package httputil holds the JSON response helpers shared by the API handlers.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as the response body with the given status. A value
// that cannot be encoded is answered with a 500 and logged.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	by, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		by, _ = json.Marshal(ErrorBody{Error: "Internal server error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(by, '\n')); err != nil {
		slog.Debug("write response", slog.String("error", err.Error()))
	}
}

// WriteError writes message as an ErrorBody with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Error: message})
}
