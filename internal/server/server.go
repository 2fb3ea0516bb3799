package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Cleo-11/OceanX/docs"
	"github.com/Cleo-11/OceanX/internal/database"
	"github.com/Cleo-11/OceanX/internal/handler"
	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/metrics"
)

// Config holds HTTP server settings
type Config struct {
	Port              int
	APIKey            string
	TrustedProxies    []string
	RequestsPerMinute float64
	Burst             int
	MaxBodyBytes      int64
	Signer            string // claim signer address reported by /version
	ReadinessChecks   []handler.ReadinessCheck
}

type Server struct {
	httpServer *http.Server
}

// NewServer wires the claim API, health and metrics endpoints. The admin
// reads, the realtime gateway at /ws and the event stream at /events are
// mounted when given.
func NewServer(cfg Config, dbPool database.Pool, claimService handler.ClaimService, audit *handler.AuditHandler, realtime, events http.Handler) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()
	limiter := NewIPRateLimiter(cfg.RequestsPerMinute, cfg.Burst, cfg.TrustedProxies)

	r.Use(SecurityHeadersMiddleware())

	// Long-lived connections hijack or flush the writer, so they sit outside
	// the instrumented group
	if realtime != nil {
		r.Handle(PathRealtime, realtime)
	}
	if events != nil {
		r.Get(PathEvents, events.ServeHTTP)
	}

	claims := handler.NewClaimHandler(claimService)

	r.Group(func(r chi.Router) {
		r.Use(RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
		r.Use(metrics.Middleware)
		r.Use(loggingMiddleware)

		// Health check routes (unversioned)
		r.Get("/healthz", handler.HandleHealthz())
		r.Get("/readyz", handler.HandleReadyz(dbPool, cfg.ReadinessChecks...))
		r.Get("/version", handler.HandleVersion(cfg.Signer))

		// Metrics endpoint (public, for Prometheus scraping)
		r.Handle("/metrics", promhttp.Handler())

		r.Route("/api/v1/claims", func(r chi.Router) {
			r.Use(limiter.Middleware)

			r.Post("/", claims.HandleIssue)
			r.Get("/ceiling", claims.HandleGetCeiling)
			r.Post("/verify", claims.HandleVerify)
			r.With(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector)).
				Post("/confirm", claims.HandleConfirm)
		})

		if audit != nil {
			r.Route("/api/v1/admin", func(r chi.Router) {
				r.Use(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector))

				r.Get("/attempts/flagged", audit.HandleListFlagged)
				r.Get("/attempts/{attemptId}", audit.HandleGetAttempt)
				r.Get("/events", audit.HandleListEvents)
			})
		}

		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		for _, p := range QuietPaths {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
