// Package http is the JSON API layer: routing, request decoding and the
// mapping from service errors to status codes.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/divvyhq/divvy/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError translates a service error into a status code. Anything
// unclassified is a 500 with the detail kept out of the response body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case service.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case service.KindConflict:
		status = http.StatusConflict
		message = err.Error()
	case service.KindPermission:
		status = http.StatusForbidden
		message = err.Error()
	default:
		slog.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

// decode parses a JSON request body, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return service.Validationf("invalid request body: %v", err)
	}
	return nil
}
