package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/service"
	"schedule-reconciler/internal/sheets"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

// Handler holds the services behind the HTTP API.
type Handler struct {
	Employees    *service.EmployeeService
	Plans        *service.ScheduleBaseService
	Adjustments  *service.ScheduleAdjustmentService
	Holidays     *service.NonWorkingDayService
	Reports      *service.ReportService
	Generator    *service.PlanGenerator
	Importer     *service.PlanImporter
	Stats        *service.MonthlyStatService
	Sink         service.ReportSink
	SinkPath     string
	TemplatePath string
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	employees, err := h.Employees.ListEmployees(activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if !decodeBody(w, r, &req) {
		return
	}
	employee, err := h.Employees.CreateEmployee(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	employee, err := h.Employees.GetEmployee(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.EmployeeInput
	if !decodeBody(w, r, &req) {
		return
	}
	employee, err := h.Employees.UpdateEmployee(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Employees.DeleteEmployee(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BASE PLAN
// =============================================================================

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := queryID(w, r, "employee_id")
	if !ok {
		return
	}
	rows, err := h.Plans.ListPlans(employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req service.PlanInput
	if !decodeBody(w, r, &req) {
		return
	}
	row, err := h.Plans.CreatePlan(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	row, err := h.Plans.GetPlan(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.PlanInput
	if !decodeBody(w, r, &req) {
		return
	}
	row, err := h.Plans.UpdatePlan(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Plans.DeletePlan(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GeneratePlans(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := h.Generator.Generate(r.Context(), req.Year, time.Month(req.Month), req.EmployeeIDs...)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Created: created})
}

// SetPlanPeriod writes one absence code over a date range.
func (h *Handler) SetPlanPeriod(w http.ResponseWriter, r *http.Request) {
	var in service.PeriodInput
	if !decodeBody(w, r, &in) {
		return
	}
	days, err := h.Plans.SetPeriod(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PeriodResponse{Days: days})
}

// ImportPlans accepts a multipart upload in the "file" field; optional
// "year" and "month" form values resolve day-number headers.
func (h *Handler) ImportPlans(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file", err)
		return
	}
	defer file.Close()

	var opts service.ImportOptions
	if v := r.FormValue("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		opts.Year = year
	}
	if v := r.FormValue("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return
		}
		opts.Month = time.Month(month)
	}

	result, err := h.Importer.Import(r.Context(), file, header.Filename, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := queryID(w, r, "employee_id")
	if !ok {
		return
	}
	rows, err := h.Adjustments.ListAdjustments(employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req service.AdjustmentInput
	if !decodeBody(w, r, &req) {
		return
	}
	adj, err := h.Adjustments.CreateAdjustment(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, adj)
}

func (h *Handler) GetAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	adj, err := h.Adjustments.GetAdjustment(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adj)
}

func (h *Handler) UpdateAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.AdjustmentInput
	if !decodeBody(w, r, &req) {
		return
	}
	adj, err := h.Adjustments.UpdateAdjustment(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adj)
}

func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Adjustments.DeleteAdjustment(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(r.URL.Query().Get("year"))
	month, err2 := strconv.Atoi(r.URL.Query().Get("month"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "year and month query parameters are required", nil)
		return
	}
	days, err := h.Holidays.GetNonWorkingDaysForMonth(year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// LoadHolidays stores a production calendar JSON posted as the body.
func (h *Handler) LoadHolidays(w http.ResponseWriter, r *http.Request) {
	n, err := h.Holidays.LoadFromReader(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, HolidaysResponse{Loaded: n})
}

// =============================================================================
// REPORTS
// =============================================================================

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	year, month, ok := reportMonth(w, r)
	if !ok {
		return
	}
	report, err := h.Reports.BuildReport(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// GetReportStats returns the summaries stored by the last sync of the month.
func (h *Handler) GetReportStats(w http.ResponseWriter, r *http.Request) {
	year, month, ok := reportMonth(w, r)
	if !ok {
		return
	}
	stats, err := h.Stats.GetMonth(year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Employees.GetEmployee(id); err != nil {
		writeServiceError(w, err)
		return
	}
	stats, err := h.Stats.GetEmployeeHistory(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	year, month, ok := reportMonth(w, r)
	if !ok {
		return
	}
	report, err := h.Reports.BuildReport(r.Context(), year, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	data, err := sheets.Bytes(report, h.TemplatePath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%04d-%02d.xlsx"`, year, int(month)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) SyncReport(w http.ResponseWriter, r *http.Request) {
	year, month, ok := reportMonth(w, r)
	if !ok {
		return
	}
	if h.Sink == nil {
		writeError(w, http.StatusServiceUnavailable, "Report sink is not configured", nil)
		return
	}
	runID, err := h.Reports.Sync(r.Context(), year, month, h.Sink)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{RunID: runID, Path: h.SinkPath})
}

func (h *Handler) GetEmployeeDay(w http.ResponseWriter, r *http.Request) {
	year, month, ok := reportMonth(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 1 || day > domain.DaysIn(year, month) {
		writeError(w, http.StatusBadRequest, "Invalid day", err)
		return
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	cell, err := h.Reports.ResolveEmployeeDay(r.Context(), id, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dayDTO(id, date, cell))
}

// =============================================================================
// HELPERS
// =============================================================================

func reportMonth(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, 0, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 0)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return uint(id), true
}

// queryID returns 0 when the parameter is absent.
func queryID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return uint(id), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Field: verr.Field, Details: verr.Reason})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
