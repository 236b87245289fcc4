package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/ems/internal/config"
	"github.com/UnknownOlympus/ems/internal/lib/logger/sl"
	"github.com/UnknownOlympus/ems/internal/metrics"
	"github.com/UnknownOlympus/ems/internal/repository"
	"github.com/UnknownOlympus/ems/internal/repository/sqlite"
	"github.com/UnknownOlympus/ems/internal/server"
	"github.com/UnknownOlympus/ems/internal/services/employees"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// store bundles the selected backend with the hooks main needs from it.
type store struct {
	repo   repository.EmployeeRepoIface
	pinger server.DBPinger
	closer io.Closer
}

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	servers := 2

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	storage, err := openStore(cfg, appMetrics)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if closeErr := storage.closer.Close(); closeErr != nil {
			logger.Error("Failed to close storage", sl.Err(closeErr))
		}
	}()

	staff := employees.NewStaff(logger, storage.repo, appMetrics)
	api := server.New("api", cfg.HTTP, server.NewRouter(logger, staff, appMetrics), logger)

	wgr.Add(servers)

	go func() {
		defer wgr.Done()
		if runErr := server.StartMonitoringServer(
			ctx, logger, reg, storage.pinger, cfg.Monitoring.Port, cfg.HTTP); runErr != nil {
			logger.ErrorContext(ctx, "Monitoring server failed", sl.Err(runErr))
		}
	}()

	go func() {
		defer wgr.Done()
		if runErr := api.Run(ctx); runErr != nil {
			logger.ErrorContext(ctx, "API server failed", sl.Err(runErr))
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "storage", cfg.Storage.Driver)

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

func openStore(cfg *config.Config, appMetrics *metrics.Metrics) (*store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		dtb, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return &store{
			repo:   sqlite.NewEmployeeRepository(dtb, appMetrics),
			pinger: server.PingFunc(dtb.PingContext),
			closer: dtb,
		}, nil
	default:
		pool, err := repository.NewDatabase(
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &store{
			repo:   repository.NewEmployeeRepository(pool, appMetrics),
			pinger: pool,
			closer: closerFunc(pool.Close),
		}, nil
	}
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
