// Package api serves clone method synthesis over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/config"
	"github.com/dhamidi/entitygen/format"
	"github.com/dhamidi/entitygen/java/codebase"
	"github.com/dhamidi/entitygen/java/source"
)

var log = commonlog.GetLogger("entitygen.api")

type Server struct {
	codebase *codebase.Codebase
	config   *config.Config
	router   *chi.Mux
}

func NewServer(cb *codebase.Codebase, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{codebase: cb, config: cfg}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/v1/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/classes/{name}", s.handleGetClass)
		r.Post("/methods", s.handleCreateMethod)
		r.Post("/matches", s.handleMatches)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"classes":    len(s.codebase.AllClasses()),
		"generation": s.codebase.Generation(),
	})
}

func (s *Server) handleGetClass(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap := s.codebase.Snapshot()
	cls := snap.ResolveType(name)
	if cls == nil {
		respondError(w, http.StatusNotFound, "class not found", nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := format.NewJSONModelEncoder(w).WithAccessors(snap).Encode(cls); err != nil {
		log.Errorf("encode %s: %s", cls.Name, err)
	}
}

func (s *Server) handleCreateMethod(w http.ResponseWriter, r *http.Request) {
	var req MethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	strict := s.config.Strict
	if req.Matched != nil {
		strict = *req.Matched
	}
	snap := s.codebase.Snapshot()
	creq, err := req.toRequest(snap, strict)
	if err != nil {
		respondFailure(w, err)
		return
	}

	engine := clone.NewEngine(snap, nil, s.config.EngineOptions())
	var res *clone.Result
	if req.Write {
		res, err = engine.Apply(r.Context(), creq, s.codebase)
	} else {
		res, err = engine.Generate(r.Context(), creq)
	}
	if err != nil {
		respondFailure(w, err)
		return
	}

	status := http.StatusOK
	if req.Write {
		status = http.StatusCreated
	}
	respondJSON(w, status, newMethodResponse(res, req.Write))
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	var req MethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.At == "" && req.Method == "" {
		req.Method = "explain"
	}

	snap := s.codebase.Snapshot()
	creq, err := req.toRequest(snap, false)
	if err != nil {
		respondFailure(w, err)
		return
	}
	res, err := clone.NewEngine(snap, nil, s.config.EngineOptions()).Generate(r.Context(), creq)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newMatchesResponse(res))
}

// statusFor maps synthesis failures to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, errNoMethod):
		return http.StatusBadRequest
	case errors.Is(err, clone.ErrUnresolvableTarget), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, clone.ErrStaleModel), errors.Is(err, codebase.ErrNotInSource):
		return http.StatusConflict
	case errors.Is(err, clone.ErrMalformedHierarchy),
		errors.Is(err, clone.ErrNoExpectedType),
		errors.Is(err, source.ErrNoCall):
		return http.StatusUnprocessableEntity
	}
	return http.StatusUnprocessableEntity
}

func respondFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	log.Infof("request failed with %d: %s", status, err)
	respondError(w, status, http.StatusText(status), err)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("encode response: %s", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
