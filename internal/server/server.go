// Package server exposes the scanner, the context assembler and the saved
// settings as a local JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/harrison/ctxgen/internal/history"
	"github.com/harrison/ctxgen/internal/logger"
	"github.com/harrison/ctxgen/internal/store"
)

// Server is the HTTP adapter over the ctxgen operations. Every request
// reads the saved rules and instructions afresh; nothing is cached between
// requests.
type Server struct {
	Rules        *store.RulesStore
	Instructions *store.InstructionsStore

	// History is optional. When nil, contexts are not recorded and
	// GET /api/history returns an empty list.
	History     *history.Store
	HistoryKeep int

	Log logger.Logger
}

// Handler returns the routed API wrapped in request ID and access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"time":    time.Now().UTC().Format(time.RFC3339Nano),
			"history": s.History != nil,
		})
	})

	// Files
	mux.HandleFunc("POST /api/browse-directory", s.handleBrowse)
	mux.HandleFunc("POST /api/read-file", s.handleReadFile)
	mux.HandleFunc("POST /api/get-line-count", s.handleLineCount)

	// Context
	mux.HandleFunc("POST /api/get-context", s.handleGetContext)
	mux.HandleFunc("POST /api/preview", s.handlePreview)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	// Settings
	mux.HandleFunc("GET /api/exclusions", s.handleExclusionsGet)
	mux.HandleFunc("POST /api/exclusions", s.handleExclusionsSet)
	mux.HandleFunc("GET /api/custom-instructions", s.handleInstructionsGet)
	mux.HandleFunc("POST /api/custom-instructions", s.handleInstructionsSet)

	return withRequestID(withAccessLog(s.logger(), mux))
}

func (s *Server) logger() logger.Logger {
	if s.Log == nil {
		return logger.NewNoOpLogger()
	}
	return s.Log
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully. A readTimeout of zero leaves reads unbounded.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log := s.logger()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.LogInfo("listening: http://" + addr)
	log.LogInfo("health: http://" + addr + "/health")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		log.LogWarn("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.LogInfo("server stopped")
	return nil
}
