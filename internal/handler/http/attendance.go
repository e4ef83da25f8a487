package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ManualPunch(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// ManualPunch implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ManualPunch(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualPunchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Manual punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.ManualPunch(r.Context(), req)
	if err != nil {
		slog.Error("Manual punch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch recorded", record)
}

// Get implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		EmployeeID: queryString(r, "employee_id"),
		DateFrom:   queryString(r, "date_from"),
		DateTo:     queryString(r, "date_to"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	list, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		slog.Error("List attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// Statistics implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	req := attendance.StatisticsRequest{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}

	stats, err := h.attendanceService.Statistics(r.Context(), req)
	if err != nil {
		slog.Error("Statistics service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
