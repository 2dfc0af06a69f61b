package main

import (
	"net/http"

	"github.com/kota-mizu/skill-builder/internal/catalog"
	"github.com/kota-mizu/skill-builder/internal/config"
	"github.com/kota-mizu/skill-builder/internal/handlers"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/kota-mizu/skill-builder/internal/middleware"
	"github.com/kota-mizu/skill-builder/internal/services"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	db      *gorm.DB
	log     *logger.Logger

	suggestions *services.SuggestionService
	catalog     *catalog.Catalog
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, cfg *config.Config, cat *catalog.Catalog, log *logger.Logger) *App {
	app := &App{
		mux:         http.NewServeMux(),
		db:          db,
		log:         log,
		suggestions: services.NewSuggestionService(db, cfg.App.GenerateDelay),
		catalog:     cat,
	}
	app.setupRoutes()
	app.handler = middleware.Chain(app.mux,
		middleware.Logging(log),
		middleware.Recover(log),
		middleware.Prefs(cfg.App.Lang),
	)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health
	// ─────────────────────────────────────────────────────────────────────────
	hh := handlers.NewHealthHandler(a.db)
	a.mux.HandleFunc("GET /health", hh.Live)
	a.mux.HandleFunc("GET /healthz", hh.Ready)

	// ─────────────────────────────────────────────────────────────────────────
	// JSON API
	// ─────────────────────────────────────────────────────────────────────────
	gh := handlers.NewGenerateHandler(a.suggestions, a.log)
	a.mux.HandleFunc("POST /api/generate", gh.Generate)
	a.mux.HandleFunc("GET /api/projects", gh.Recent)

	// ─────────────────────────────────────────────────────────────────────────
	// Wizard pages
	// ─────────────────────────────────────────────────────────────────────────
	wh := handlers.NewWizardHandler(a.suggestions, a.catalog, a.log)
	a.mux.HandleFunc("GET /{$}", wh.Index)
	a.mux.HandleFunc("POST /wizard/toggle", wh.Toggle)
	a.mux.HandleFunc("POST /wizard/next", wh.Next)
	a.mux.HandleFunc("POST /wizard/generate", wh.Generate)
	a.mux.HandleFunc("POST /wizard/restart", wh.Restart)
}
