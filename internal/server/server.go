// Package server exposes the engine over a read-only JSON API. Every
// endpoint is a GET; state changes only happen through the CLI and the
// scheduler.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"PEAScout/internal/backtest"
	"PEAScout/internal/fetcher"
	"PEAScout/internal/scoring"
	"PEAScout/internal/store"
	"PEAScout/internal/universe"
)

// Deps are the engine components the API reads from.
type Deps struct {
	Scorer    *scoring.Scorer
	Runner    *backtest.Runner
	Fetcher   fetcher.Fetcher
	Store     store.Store
	Catalog   *universe.Catalog
	Benchmark string

	ScoringParams  scoring.Params
	BacktestParams backtest.Params
}

// Server wraps the HTTP listener and routing.
type Server struct {
	server *http.Server
	router *mux.Router
	deps   Deps
}

// New builds the server on addr. Routes are fixed at construction.
func New(addr string, deps Deps) *Server {
	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
	}
	s.routes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(requestIDMiddleware)
	s.router.Use(loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(jsonMiddleware)
	api.HandleFunc("/recommendations", s.handleRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/backtest", s.handleBacktest).Methods(http.MethodGet)
	api.HandleFunc("/heat", s.handleHeat).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
