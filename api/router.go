package api

import (
	"net/http"
	"opsdesk_server/api/middleware"
	"opsdesk_server/config"
	"opsdesk_server/database"
	"opsdesk_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App() chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel(config.GetLogLevel())
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	db := database.GetInstance()
	cfg := config.GetConfig()

	sm := services.NewServiceManager(standardLogger, cfg, db)
	mw := middleware.NewMiddleware(cfg, mwLogger, sm.Auth, sm.Cache)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(10 * 1024 * 1024))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(gecho.Handlers.CreateLoggingMiddleware(mwLogger))
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)

	// Rate limiting (after RealIP so limits key on the client address)
	r.Use(mw.RateLimitMiddleware())

	NewRouterManager(standardLogger, cfg, sm, mw).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the OpsDesk API"),
			gecho.Send(),
		)
	})

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
