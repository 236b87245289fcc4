package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/ems/internal/lib/logger/sl"
)

// ErrorBody is written for every non-2xx response produced by the API.
type ErrorBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

func writeJSON(log *slog.Logger, writer http.ResponseWriter, req *http.Request, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.ErrorContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}

func writeError(log *slog.Logger, writer http.ResponseWriter, req *http.Request, status int, message string) {
	writeJSON(log, writer, req, status, ErrorBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      req.URL.Path,
	})
}

func writeText(log *slog.Logger, writer http.ResponseWriter, req *http.Request, status int, text string) {
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer.WriteHeader(status)
	if _, err := writer.Write([]byte(text)); err != nil {
		log.ErrorContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}
