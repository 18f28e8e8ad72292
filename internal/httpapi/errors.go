package httpapi

import (
	"log/slog"
	"net/http"
)

// writeInternalError logs the cause and writes the opaque 500 envelope the
// façade contract promises callers (§6/§7) — internal error detail never
// reaches the HTTP response body.
func writeInternalError(w http.ResponseWriter, log *slog.Logger, err error) {
	log.Error("federation operation failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}
