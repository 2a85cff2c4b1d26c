package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/probe/backend/internal/api/handlers"
	"github.com/wonny/probe/backend/internal/observability/metrics"
	"github.com/wonny/probe/backend/pkg/config"
	"github.com/wonny/probe/backend/pkg/logger"
)

// ServiceName is reported by /health and used as the metrics label
const ServiceName = "probe-api"

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
//
// m may be nil when metrics are disabled.
func NewRouter(cfg *config.Config, flagHandler *handlers.FlagHandler, m *metrics.Metrics, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	if m != nil {
		r.Use(m.Middleware)
	}
	// innermost, so the recovered 500 reaches logging and metrics
	r.Use(recoveryMiddleware(log))

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	// Evaluation endpoints share one token bucket
	scored := r.NewRoute().Subrouter()
	if cfg.RateLimit.Enabled {
		scored.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)))
	}

	scored.HandleFunc("/upload", flagHandler.Upload).Methods(http.MethodPost)
	scored.HandleFunc("/api/v1/flags/evaluate", flagHandler.Evaluate).Methods(http.MethodPost)

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": ServiceName,
	})
}
