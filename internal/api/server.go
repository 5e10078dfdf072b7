// Package api provides the gitswitchd HTTP API: the account command
// surface plus the websocket event stream.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/gitswitch/internal/api/handler"
	mw "github.com/edvin/gitswitch/internal/api/middleware"
	"github.com/edvin/gitswitch/internal/events"
	"github.com/edvin/gitswitch/internal/registry"
)

type Server struct {
	router chi.Router
	logger zerolog.Logger
	reg    *registry.Registry
	hub    *events.Hub
}

func NewServer(logger zerolog.Logger, reg *registry.Registry, hub *events.Hub) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		reg:    reg,
		hub:    hub,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/v1", func(r chi.Router) {
		account := handler.NewAccount(s.reg, s.hub)
		r.Get("/accounts", account.List)
		r.Post("/accounts", account.Create)
		r.Delete("/accounts", account.DeleteAll)
		r.Get("/accounts/current", account.Current)
		r.Delete("/accounts/{email}", account.Delete)
		r.Post("/accounts/{email}/activate", account.Activate)
		r.Get("/accounts/{email}/ssh-key", account.SSHKey)

		ev := handler.NewEvents(s.hub)
		r.Get("/events", ev.Connect)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
