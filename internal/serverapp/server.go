// Package serverapp wires repositories, the generation engine, auth, and
// middleware into one http.Handler.
package serverapp

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"

	"agentpulse/internal/action"
	"agentpulse/internal/auth"
	"agentpulse/internal/config"
	"agentpulse/internal/crm"
	"agentpulse/internal/generate"
	"agentpulse/internal/httpmw"
	"agentpulse/internal/pulse"
	"agentpulse/internal/store"
	"agentpulse/internal/template"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger

	// Overrides for tests; when nil they are built from Config.
	Templates template.Repo
	Actions   action.Repo
	Scores    pulse.ScoreProvider
	CRM       crm.Syncer
	Clock     generate.Clock
}

// App is the assembled application. Handler serves it; the repos are exposed
// for the ops CLI.
type App struct {
	Handler   http.Handler
	Templates template.Repo
	Actions   action.Repo
	Engine    *generate.Engine
	DB        *sql.DB
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	var db *sql.DB
	templates := opts.Templates
	actions := opts.Actions
	if templates == nil || actions == nil {
		if cfg.Storage.Driver == "" {
			if templates == nil {
				templates = template.NewMemoryRepo()
			}
			if actions == nil {
				actions = action.NewMemoryRepo()
			}
		} else {
			var err error
			db, err = store.Open(cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return nil, err
			}
			if err := store.Migrate(db); err != nil {
				db.Close()
				return nil, err
			}
			if templates == nil {
				templates = template.NewSQLRepo(db)
			}
			if actions == nil {
				actions = action.NewSQLRepo(db)
			}
		}
	}

	scores := opts.Scores
	if scores == nil {
		scores = pulse.Fixed(cfg.Generation.DefaultScore)
	}

	syncer := opts.CRM
	if syncer == nil {
		if cfg.CRM.Enabled {
			syncer = crm.NewClient(cfg.CRM.BaseURL, cfg.CRM.APIKey, cfg.CRM.Timeout())
		} else {
			syncer = crm.Noop{}
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = generate.RealClock{}
	}

	engine := &generate.Engine{
		Templates:       templates,
		Actions:         actions,
		Scores:          scores,
		CRM:             syncer,
		Clock:           clock,
		Logger:          logger,
		DefaultTimezone: cfg.Generation.DefaultTimezone,
	}

	mux := http.NewServeMux()
	rr := &RouteRegistry{}
	authmw := auth.New([]byte(cfg.Auth.JWTSecret))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "agentpulse",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := templates.List(r.Context(), template.ListFilter{}); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "template storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "agentpulse",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	gen := &generateHandler{engine: engine}
	handle(mux, rr, http.MethodPost, "/api/actions/generate",
		"Generate today's daily actions for the authenticated user",
		authmw.RequireAPI(http.HandlerFunc(gen.Generate)))

	actionHandler := action.NewHandler(actions, cfg.Generation.DefaultTimezone)
	actionHandler.SetNow(clock.Now)
	handle(mux, rr, http.MethodGet, "/api/actions/today",
		"List today's actions", authmw.RequireAPI(http.HandlerFunc(actionHandler.Today)))
	handle(mux, rr, http.MethodPost, "/api/actions/",
		"Update an action's status", authmw.RequireAPI(http.HandlerFunc(actionHandler.Status)))

	templateHandler := template.NewHandler(templates)
	handle(mux, rr, "GET/POST", "/api/templates",
		"List or create templates", authmw.RequireAPI(http.HandlerFunc(templateHandler.Root)))
	handle(mux, rr, "PUT/DELETE", "/api/templates/",
		"Update or deactivate a template", authmw.RequireAPI(http.HandlerFunc(templateHandler.Sub)))

	ps := &pulseHandler{scores: scores}
	handle(mux, rr, http.MethodGet, "/api/pulse/status",
		"Current PULSE score and band", authmw.RequireAPI(http.HandlerFunc(ps.Status)))

	if cfg.Auth.DevMode {
		tokenHandler := &devTokenHandler{secret: []byte(cfg.Auth.JWTSecret), ttl: cfg.Auth.TokenTTL()}
		handle(mux, rr, http.MethodPost, "/api/auth/token",
			"Mint a token (dev mode only)", http.HandlerFunc(tokenHandler.Token))
	}

	mux.HandleFunc("/_/admin/routes.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
	})

	handler := httpmw.Chain(
		c.Handler(mux),
		httpmw.WithAccessLog(logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
	)

	return &App{
		Handler:   handler,
		Templates: templates,
		Actions:   actions,
		Engine:    engine,
		DB:        db,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

type pulseHandler struct {
	scores pulse.ScoreProvider
}

func (h *pulseHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "no user")
		return
	}
	score, err := h.scores.Score(r.Context(), userID)
	if err != nil {
		score = pulse.DefaultScore
	}
	score = pulse.Clamp(score)
	writeJSON(w, http.StatusOK, map[string]any{
		"score": score,
		"band":  pulse.StatusFor(score),
	})
}

type devTokenHandler struct {
	secret []byte
	ttl    time.Duration
}

func (h *devTokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.UserID) == "" {
		writeErr(w, http.StatusBadRequest, "userId is required")
		return
	}
	token, err := auth.GenerateToken(h.secret, body.UserID, h.ttl)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "mint token: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}
