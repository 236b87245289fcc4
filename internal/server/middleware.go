package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/ems/internal/metrics"
	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.written {
		rec.status = code
		rec.written = true
		rec.ResponseWriter.WriteHeader(code)
	}
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.written {
		rec.WriteHeader(http.StatusOK)
	}
	return rec.ResponseWriter.Write(b)
}

func recoveryMiddleware(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			rec := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			defer func() {
				if rcv := recover(); rcv != nil {
					log.ErrorContext(req.Context(), "Recovered from panic", "panic", rcv, "path", req.URL.Path)
					// the response is already committed, nothing more can be sent
					if rec.written {
						return
					}
					writeError(log, rec, req, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(rec, req)
		})
	}
}

func loggingMiddleware(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(rec, req)

			log.InfoContext(req.Context(), "Request handled",
				"method", req.Method,
				"path", req.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// metricsMiddleware must be installed with Router.Use so the matched route is available.
func metricsMiddleware(appMetrics *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(rec, req)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			appMetrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(rec.status)).Inc()
			appMetrics.HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// corsMiddleware allows every origin and answers preflight requests on any path.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")

		if req.Method == http.MethodOptions {
			writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			writer.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(writer, req)
	})
}
