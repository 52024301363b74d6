package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/garnizeh/folio/internal/admin"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError renders err as {"code","error","fields"} with the status its
// code maps to.
func writeError(w http.ResponseWriter, err error) {
	ae := admin.Normalize(err)
	writeJSON(w, ae, ae.Code.HTTPStatus())
}
