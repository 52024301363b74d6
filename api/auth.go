package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/folio/internal/admin"
)

type AuthHandler struct {
	gateway *admin.Gateway
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(g *admin.Gateway) *AuthHandler {
	return &AuthHandler{gateway: g}
}

type signinRequest struct {
	Password string `json:"password"`
}

// Signin lets the admin UI check a password before storing it client-side.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, &admin.Error{Code: admin.CodeValidationFailed, Message: "invalid request", Cause: err})
		return
	}
	if err := h.gateway.Authorize(req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// Status reports the active backend and whether it accepts writes.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.gateway.Status(r.Context(), credential(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, st, http.StatusOK)
}
