package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/presyohub/presyo/internal/auth"
)

type Handler struct {
	auth *auth.Service
}

func New(authService *auth.Service) *Handler {
	return &Handler{auth: authService}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeDetail(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, map[string]string{"detail": detail})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleGoogleAuth verifies a Google ID token and signs the user in.
func (h *Handler) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Token) == "" {
		h.writeDetail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.auth.Authenticate(r.Context(), body.Token)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			h.writeDetail(w, authErr.Status, authErr.Detail)
			return
		}
		slog.Error("authentication failed", "err", err)
		h.writeDetail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"user":   result.User,
		"token":  result.Token,
	})
}
