package api

import (
	"encoding/json"
	"net/http"

	"log/slog"
)

// writeJSON encodes v with the given status. Encoding failures are
// logged but not surfaced; headers have already been written.
func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write json response", slog.Any("err", err))
	}
}
