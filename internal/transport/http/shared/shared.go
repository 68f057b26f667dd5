// Package shared centralizes JSON response writing so every handler emits
// the same envelope.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "territory/pkg/domainerrors"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the stable error envelope: a machine code plus a
// human-readable message.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError translates a coded domain error into its HTTP response.
// Uncoded errors map to 500 with a generic message so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.HTTPStatus(code), ErrorBody{
		Error:   string(code),
		Message: dErrors.MessageOf(err),
	})
}
