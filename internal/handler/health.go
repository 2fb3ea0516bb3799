package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Cleo-11/OceanX/internal/database"
)

const readinessTimeout = 2 * time.Second

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Component string `json:"component,omitempty"`
}

// ReadinessCheck is a dependency probed by /readyz besides the database
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports ready once the database and every extra check respond
// @Summary Readiness check
// @Description Returns OK if the database and the admission store are reachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(dbPool database.Pool, checks ...ReadinessCheck) http.HandlerFunc {
	all := append([]ReadinessCheck{{Name: "database", Check: dbPool.Ping}}, checks...)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for _, c := range all {
			if err := c.Check(ctx); err != nil {
				slog.Error("Readiness check failed", "component", c.Name, "error", err)
				respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
					Status:    "unavailable",
					Message:   c.Name + " connection failed",
					Component: c.Name,
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
