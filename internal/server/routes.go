package server

import (
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/ems/internal/metrics"
	"github.com/gorilla/mux"
)

const basePath = "/api/employees"

// NewRouter builds the API handler serving the employee routes under /api/employees.
//
// CORS, logging and recovery wrap the router itself so preflight requests and unmatched paths
// pass through them. Request metrics are recorded per matched route template.
func NewRouter(log *slog.Logger, service EmployeeService, appMetrics *metrics.Metrics) http.Handler {
	handler := NewEmployeeHandler(log, service)

	router := mux.NewRouter()
	router.Use(metricsMiddleware(appMetrics))

	router.HandleFunc(basePath, handler.create).Methods(http.MethodPost)
	router.HandleFunc(basePath, handler.list).Methods(http.MethodGet)
	router.HandleFunc(basePath+"/{id}", handler.get).Methods(http.MethodGet)
	router.HandleFunc(basePath+"/{id}", handler.update).Methods(http.MethodPut)
	router.HandleFunc(basePath+"/{id}", handler.remove).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		writeError(log, writer, req, http.StatusNotFound, "no handler for "+req.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		writeError(log, writer, req, http.StatusMethodNotAllowed, "method "+req.Method+" is not supported")
	})

	var wrapped http.Handler = router
	wrapped = corsMiddleware(wrapped)
	wrapped = loggingMiddleware(log)(wrapped)
	wrapped = recoveryMiddleware(log)(wrapped)

	return wrapped
}
