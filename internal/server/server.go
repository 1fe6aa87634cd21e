// Package server exposes the aggregation engine over HTTP and WebSocket.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"whale-intel/internal/observability"
	"whale-intel/internal/server/handler"
	"whale-intel/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Status    *handler.StatusHandler
	Whales    *handler.WhaleHandler
	Sentiment *handler.SentimentHandler
	Score     *handler.ScoreHandler
	Snapshots *handler.SnapshotHandler
}

// Server is the HTTP + WebSocket API server for the aggregation engine.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up logging, metrics and CORS middleware and attaches the
// WebSocket hub.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	route := func(pattern, endpoint string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, instrument(endpoint, fn))
	}

	route("GET /api/health", "health", handlers.Health.HealthCheck)
	route("GET /api/status", "status", handlers.Status.GetStatus)

	route("GET /api/whales/leaderboard", "leaderboard", handlers.Whales.Leaderboard)
	route("GET /api/whales/entities", "entities", handlers.Whales.Entities)
	route("GET /api/whales/{address}/activity", "activity", handlers.Whales.Activity)

	route("GET /api/tokens/{symbol}/sentiment", "sentiment", handlers.Sentiment.GetSentiment)
	route("GET /api/tokens/{symbol}/score", "score", handlers.Score.GetScore)
	route("GET /api/tokens/{symbol}/snapshots", "snapshots", handlers.Snapshots.ListSnapshots)
	route("GET /api/tokens/{symbol}/snapshots/latest", "snapshot_latest", handlers.Snapshots.LatestSnapshot)

	mux.Handle("GET /metrics", observability.Handler())

	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = loggingMiddleware(logger)(h)
	h = corsMiddleware(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Printf("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Printf("shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// statusRecorder captures the response status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records per-endpoint request metrics around a handler.
func instrument(endpoint string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		fn(rec, r)
		observability.RecordHTTPRequest(endpoint, strconv.Itoa(rec.status), time.Since(started).Seconds())
	}
}

// loggingMiddleware logs one line per request with method, path, status and
// duration.
func loggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			started := time.Now()
			next.ServeHTTP(rec, r)
			logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(started))
		})
	}
}

// corsMiddleware returns middleware that sets CORS headers for the allowed
// origins. If no origins are specified, it defaults to allowing all origins.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				allowed := len(allowedOrigins) == 0 // allow all if none specified
				for _, o := range allowedOrigins {
					if strings.EqualFold(o, "*") || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}

				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
			}

			// Handle preflight requests.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
