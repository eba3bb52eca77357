package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radhakrishnanganapathy/rksApp-sub000/attendance"
)

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, or only active ones with ?active=true.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	employees, err := h.Attendance.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.handleError(w, r, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := readEmployee(w, r, true)
	if !ok {
		return
	}
	created, err := h.Attendance.CreateEmployee(r.Context(), emp)
	if err != nil {
		h.handleError(w, r, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(created))
}

// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Attendance.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// UpdateEmployee keeps the current active flag when the body omits it.
// PUT /api/employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cur, err := h.Attendance.GetEmployee(r.Context(), id)
	if err != nil {
		h.handleError(w, r, "Failed to update employee", err)
		return
	}
	emp, ok := readEmployee(w, r, cur.Active)
	if !ok {
		return
	}
	updated, err := h.Attendance.UpdateEmployee(r.Context(), id, emp)
	if err != nil {
		h.handleError(w, r, "Failed to update employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(updated))
}

// DeleteEmployee removes the employee and their attendance.
// DELETE /api/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Attendance.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readEmployee(w http.ResponseWriter, r *http.Request, active bool) (attendance.Employee, bool) {
	var dto EmployeeDTO
	if !decodeJSON(w, r, &dto) {
		return attendance.Employee{}, false
	}
	emp, err := dto.toDomain(active)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return attendance.Employee{}, false
	}
	return emp, true
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ListAttendance returns marks in ?from=&to=, optionally for one ?employeeId=.
// GET /api/attendance
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	dr, ok := dateRange(w, r)
	if !ok {
		return
	}
	records, err := h.Attendance.List(r.Context(), dr.From, dr.To, r.URL.Query().Get("employeeId"))
	if err != nil {
		h.handleError(w, r, "Failed to list attendance", err)
		return
	}
	dtos := make([]AttendanceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// MarkAttendance records present/absent for a day. Marking the same
// employee and day again replaces the earlier mark.
// POST /api/attendance
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req AttendanceDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid attendance", err)
		return
	}

	rec, err := h.Attendance.Mark(r.Context(), req.EmployeeID, date, attendance.Status(req.Status), req.CustomSalary)
	if err != nil {
		h.handleError(w, r, "Failed to mark attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// DELETE /api/attendance/{employeeId}/{date}
func (h *Handler) UnmarkAttendance(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate("date", chi.URLParam(r, "date"))
	if err != nil || date.IsZero() {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if err := h.Attendance.Unmark(r.Context(), chi.URLParam(r, "employeeId"), date); err != nil {
		h.handleError(w, r, "Failed to delete attendance", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SalarySummary totals salaries for ?year= and ?month= (1-12 or "all").
// The year defaults to the current one.
// GET /api/salary/summary
func (h *Handler) SalarySummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year := time.Now().Year()
	if s := q.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = y
	}
	month, err := attendance.ParseMonth(q.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	summary, err := h.Attendance.Summary(r.Context(), attendance.Period{Year: year, Month: month})
	if err != nil {
		h.handleError(w, r, "Failed to compute salary summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSalarySummaryResponse(summary))
}
