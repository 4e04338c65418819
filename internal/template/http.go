package template

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"agentpulse/internal/model"
)

// Handler exposes admin CRUD over the catalog.
type Handler struct {
	repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// Root handles GET (list) and POST (create) on /api/templates.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Sub handles PUT and DELETE on /api/templates/{id}.
func (h *Handler) Sub(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/templates/")
	if id == "" || strings.Contains(id, "/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.deactivate(w, r, id)
	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{}
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("active"))) {
	case "true", "1", "yes":
		active := true
		filter.Active = &active
	case "false", "0", "no":
		active := false
		filter.Active = &active
	}
	if tt := strings.TrimSpace(r.URL.Query().Get("triggerType")); tt != "" {
		filter.TriggerType = model.TriggerType(tt)
	}

	templates, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list templates: "+err.Error())
		return
	}
	if templates == nil {
		templates = []model.TaskTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var t model.TaskTemplate
	if err := decodeJSON(r, &t); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validateTemplate(&t); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.repo.Create(r.Context(), t)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "create template: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	var t model.TaskTemplate
	if err := decodeJSON(r, &t); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	t.ID = id
	if err := validateTemplate(&t); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.repo.Update(r.Context(), t)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "template not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "update template: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request, id string) {
	err := h.repo.Deactivate(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "template not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "deactivate template: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func validateTemplate(t *model.TaskTemplate) error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("title is required")
	}
	switch t.TriggerType {
	case model.TriggerPulseScoreRange, model.TriggerDayOfWeek, model.TriggerAccountDayExact:
		if strings.TrimSpace(t.TriggerValue) == "" {
			return errors.New("triggerValue is required for this trigger type")
		}
	case model.TriggerInitiative:
		switch t.SubCategory {
		case model.CadenceMonthly, model.CadenceQuarterly, model.CadenceSemiAnnually, model.CadenceAnnually:
		default:
			return errors.New("initiative templates need a valid subCategory")
		}
	default:
		return errors.New("unknown triggerType")
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	if t.PulseImpact == 0 {
		t.PulseImpact = 0.1
	}
	return nil
}
