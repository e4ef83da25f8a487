package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/presencehr/attendance-backend-go/internal/domain/report"
	"github.com/presencehr/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Attendance(w http.ResponseWriter, r *http.Request)
	ExportExcel(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

func periodFromQuery(r *http.Request) report.PeriodRequest {
	return report.PeriodRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
}

// Attendance implements ReportHandler.
func (h *ReportHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	req := periodFromQuery(r)

	result, err := h.reportService.AttendanceReport(r.Context(), req)
	if err != nil {
		slog.Error("Attendance report service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportExcel implements ReportHandler.
// The workbook is built in memory first so a failure can still produce a
// JSON error instead of a truncated download.
func (h *ReportHandlerImpl) ExportExcel(w http.ResponseWriter, r *http.Request) {
	req := periodFromQuery(r)

	var buf bytes.Buffer
	filename, err := h.reportService.ExportAttendanceExcel(r.Context(), req, &buf)
	if err != nil {
		slog.Error("Export excel service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.XLSXHeaders(w, filename)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Export excel write error", "error", err)
	}
}
