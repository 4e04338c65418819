package action

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"agentpulse/internal/auth"
	"agentpulse/internal/model"
)

// Handler exposes the daily-action surface the task-management UI consumes:
// today's list and status changes. Generation itself lives in serverapp.
type Handler struct {
	repo            Repo
	defaultTimezone string
	now             func() time.Time
}

func NewHandler(repo Repo, defaultTimezone string) *Handler {
	return &Handler{repo: repo, defaultTimezone: defaultTimezone, now: time.Now}
}

// SetNow overrides the clock. Tests only.
func (h *Handler) SetNow(now func() time.Time) {
	h.now = now
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// Today handles GET /api/actions/today.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "no user")
		return
	}

	tz := strings.TrimSpace(r.URL.Query().Get("timezone"))
	if tz == "" {
		tz = h.defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid timezone")
		return
	}
	today := h.now().In(loc).Format("2006-01-02")

	actions, err := h.repo.ListForDay(r.Context(), userID, today)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list actions: "+err.Error())
		return
	}
	if actions == nil {
		actions = []model.DailyAction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"actionDate": today,
		"actions":    actions,
	})
}

// Status handles POST /api/actions/{id}/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "no user")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/actions/")
	id := strings.TrimSuffix(rest, "/status")
	if id == "" || id == rest || strings.Contains(id, "/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	var body struct {
		Status model.ActionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !model.ValidStatus(body.Status) {
		writeErr(w, http.StatusBadRequest, "invalid status")
		return
	}

	existing, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "action not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "load action: "+err.Error())
		return
	}
	if existing.UserID != userID {
		// Not yours; don't reveal that it exists.
		writeErr(w, http.StatusNotFound, "action not found")
		return
	}

	updated, err := h.repo.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "update status: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
