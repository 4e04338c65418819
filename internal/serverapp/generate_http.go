package serverapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"agentpulse/internal/auth"
	"agentpulse/internal/generate"
	"agentpulse/internal/model"
)

// generateRequest is the caller-supplied profile snapshot. activityMode is
// accepted for compatibility with existing clients but not used by the
// engine.
type generateRequest struct {
	AccountCreatedAt string `json:"accountCreatedAt"`
	Timezone         string `json:"timezone"`
	ActivityMode     string `json:"activityMode"`
	CurrentScore     *int   `json:"currentScore"`
}

type generateHandler struct {
	engine *generate.Engine
}

// Generate handles POST /api/actions/generate. The response status mirrors
// the engine's three-way outcome so the UI can message each case.
func (h *generateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "no user")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	createdAt, err := time.Parse(time.RFC3339, req.AccountCreatedAt)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "accountCreatedAt must be RFC3339")
		return
	}

	result, err := h.engine.Generate(r.Context(), model.UserState{
		UserID:           userID,
		AccountCreatedAt: createdAt,
		Timezone:         req.Timezone,
		CurrentScore:     req.CurrentScore,
	})
	if errors.Is(err, generate.ErrInvalidUser) || errors.Is(err, generate.ErrBadTimezone) {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "generate actions: "+err.Error())
		return
	}

	switch result.Outcome {
	case generate.OutcomeCreated:
		writeJSON(w, http.StatusCreated, map[string]any{
			"status":  string(result.Outcome),
			"count":   len(result.Actions),
			"actions": result.Actions,
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"status": string(result.Outcome),
		})
	}
}
