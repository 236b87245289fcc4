package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/ems/internal/lib/logger/sl"
	"github.com/UnknownOlympus/ems/internal/models"
	"github.com/UnknownOlympus/ems/internal/services/employees"
	"github.com/gorilla/mux"
)

const deletedMessage = "Successfully deleted the employee"

var (
	errBodyRequired      = errors.New("request body is required")
	errFirstNameRequired = errors.New("firstName is required")
	errLastNameRequired  = errors.New("lastName is required")
	errTrailingData      = errors.New("unexpected data after request body")
)

// employeePayload is the request body of create and update. Pointers tell absent or null
// names apart from empty ones.
type employeePayload struct {
	ID        *int64  `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (p *employeePayload) toRecord() (models.EmployeeRecord, error) {
	if p == nil {
		return models.EmployeeRecord{}, errBodyRequired
	}
	if p.FirstName == nil {
		return models.EmployeeRecord{}, errFirstNameRequired
	}
	if p.LastName == nil {
		return models.EmployeeRecord{}, errLastNameRequired
	}

	record := models.EmployeeRecord{ID: p.ID, FirstName: *p.FirstName, LastName: *p.LastName}
	if p.Email != nil {
		record.Email = *p.Email
	}

	return record, nil
}

// EmployeeService is the set of employee operations exposed over HTTP.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, record models.EmployeeRecord) (models.EmployeeRecord, error)
	GetEmployeeByID(ctx context.Context, identifier int64) (models.EmployeeRecord, error)
	GetAllEmployees(ctx context.Context) ([]models.EmployeeRecord, error)
	UpdateEmployee(ctx context.Context, identifier int64, record models.EmployeeRecord) (models.EmployeeRecord, error)
	DeleteEmployee(ctx context.Context, identifier int64) error
}

type EmployeeHandler struct {
	log     *slog.Logger
	service EmployeeService
}

func NewEmployeeHandler(log *slog.Logger, service EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{log: log, service: service}
}

func (h *EmployeeHandler) create(writer http.ResponseWriter, req *http.Request) {
	record, ok := h.decode(writer, req)
	if !ok {
		return
	}

	created, err := h.service.CreateEmployee(req.Context(), record)
	if err != nil {
		h.fail(writer, req, err)
		return
	}

	writeJSON(h.log, writer, req, http.StatusCreated, created)
}

func (h *EmployeeHandler) get(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	record, err := h.service.GetEmployeeByID(req.Context(), identifier)
	if err != nil {
		h.fail(writer, req, err)
		return
	}

	writeJSON(h.log, writer, req, http.StatusOK, record)
}

func (h *EmployeeHandler) list(writer http.ResponseWriter, req *http.Request) {
	records, err := h.service.GetAllEmployees(req.Context())
	if err != nil {
		h.fail(writer, req, err)
		return
	}
	if records == nil {
		records = []models.EmployeeRecord{}
	}

	writeJSON(h.log, writer, req, http.StatusOK, records)
}

func (h *EmployeeHandler) update(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}
	record, ok := h.decode(writer, req)
	if !ok {
		return
	}

	updated, err := h.service.UpdateEmployee(req.Context(), identifier, record)
	if err != nil {
		h.fail(writer, req, err)
		return
	}

	writeJSON(h.log, writer, req, http.StatusOK, updated)
}

func (h *EmployeeHandler) remove(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	if err := h.service.DeleteEmployee(req.Context(), identifier); err != nil {
		h.fail(writer, req, err)
		return
	}

	writeText(h.log, writer, req, http.StatusOK, deletedMessage)
}

// pathID reads the {id} route variable. Only unsigned positive base-10 integers are accepted.
func (h *EmployeeHandler) pathID(writer http.ResponseWriter, req *http.Request) (int64, bool) {
	raw := mux.Vars(req)["id"]

	identifier, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || identifier <= 0 || strings.HasPrefix(raw, "+") {
		writeError(h.log, writer, req, http.StatusBadRequest, "invalid employee id: "+strconv.Quote(raw))
		return 0, false
	}

	return identifier, true
}

func (h *EmployeeHandler) decode(writer http.ResponseWriter, req *http.Request) (models.EmployeeRecord, bool) {
	var payload *employeePayload

	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(&payload); err != nil {
		h.log.DebugContext(req.Context(), "Rejected request body", sl.Err(err))
		writeError(h.log, writer, req, http.StatusBadRequest, "malformed request body")
		return models.EmployeeRecord{}, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeError(h.log, writer, req, http.StatusBadRequest, errTrailingData.Error())
		return models.EmployeeRecord{}, false
	}

	record, err := payload.toRecord()
	if err != nil {
		writeError(h.log, writer, req, http.StatusBadRequest, err.Error())
		return models.EmployeeRecord{}, false
	}

	return record, true
}

func (h *EmployeeHandler) fail(writer http.ResponseWriter, req *http.Request, err error) {
	var notFound *employees.NotFoundError
	if errors.As(err, &notFound) {
		writeError(h.log, writer, req, http.StatusNotFound, notFound.Error())
		return
	}

	h.log.ErrorContext(req.Context(), "Request failed", "method", req.Method, "path", req.URL.Path, sl.Err(err))
	writeError(h.log, writer, req, http.StatusInternalServerError, "internal server error")
}
