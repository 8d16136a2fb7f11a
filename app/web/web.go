// Package web implements read-only JSON API over the project state with on-demand sweeps
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/invflow/app/ctrlgroup"
	"github.com/umputun/invflow/app/intent"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/journal"
	"github.com/umputun/invflow/app/poller"
)

//go:generate moq -out mocks/project.go -pkg mocks -skip-ensure -fmt goimports . Project
//go:generate moq -out mocks/sweeper.go -pkg mocks -skip-ensure -fmt goimports . Sweeper

// Project gives access to iteration records and their bookkeeping, i.e. project.Project
type Project interface {
	List() ([]string, error)
	Iteration(name string) (*iteration.Iteration, error)
	History(ctx context.Context, name string) ([]journal.Entry, error)
	Intents() []intent.Intent
	ControlGroups() (ctrlgroup.Ledger, error)
}

// Sweeper checks outstanding jobs of an iteration, i.e. poller.Poller
type Sweeper interface {
	Sweep(ctx context.Context, name string) (poller.Report, error)
}

// Config holds server configuration
type Config struct {
	Project      Project
	Sweeper      Sweeper // optional, sweep endpoint disabled if nil
	Version      string
	PasswordHash string  // bcrypt hash for basic auth, empty to disable
	SweepLimit   float64 // sweep requests per second, 1 if not set
}

// Server serves the API
type Server struct {
	project      Project
	sweeper      Sweeper
	version      string
	passwordHash string
	sweepLimiter *limiter.Limiter
}

// New makes server for cfg
func New(cfg Config) (*Server, error) {
	if cfg.Project == nil {
		return nil, errors.New("web server initialization failed: project is required")
	}
	rate := cfg.SweepLimit
	if rate <= 0 {
		rate = 1
	}
	lmt := tollbooth.NewLimiter(rate, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	return &Server{project: cfg.Project, sweeper: cfg.Sweeper, version: cfg.Version,
		passwordHash: cfg.PasswordHash, sweepLimiter: lmt}, nil
}

// Run starts the web server and stops it on ctx cancellation
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute, // sweeps wait for the backend
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(100),
		rest.AppInfo("invflow", "umputun", s.version),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024),
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	if s.passwordHash != "" {
		log.Printf("[INFO] authentication enabled for api")
		router.Use(s.authMiddleware)
	}

	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /iterations", s.handleIterations)
		api.HandleFunc("GET /iterations/{name}", s.handleIteration)
		api.HandleFunc("GET /iterations/{name}/history", s.handleHistory)
		api.HandleFunc("GET /history", s.handleHistory)
		api.HandleFunc("GET /intents", s.handleIntents)
		api.HandleFunc("GET /control-groups", s.handleControlGroups)
		if s.sweeper != nil {
			api.With(tollbooth.HTTPMiddleware(s.sweepLimiter)).HandleFunc("POST /iterations/{name}/sweep", s.handleSweep)
		}
	})

	return router
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeErr maps error classes to response codes
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, iteration.ErrNotFound):
		s.writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, poller.ErrRunning):
		s.writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, iteration.ErrBackendUnavailable):
		s.writeJSONError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("[ERROR] %v", err)
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
