package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/ems/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMonitoringHandler serves /healthz and /metrics.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, db DBPinger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthz", NewHealthChecker(db, log))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))

	return mux
}

// StartMonitoringServer runs the monitoring endpoints on port until ctx is done.
// It shares the API server timeouts.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	db DBPinger,
	port string,
	httpCfg config.HTTPConfig,
) error {
	httpCfg.Port = port

	return New("monitoring", httpCfg, NewMonitoringHandler(log, reg, db), log).Run(ctx)
}
