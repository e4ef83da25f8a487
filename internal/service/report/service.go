package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/report"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/xuri/excelize/v2"
)

type ReportServiceImpl struct {
	db *database.DB
	report.ReportRepository
	policy attendance.WorkdayPolicy
}

func NewReportService(db *database.DB, reportRepository report.ReportRepository, policy attendance.WorkdayPolicy) report.ReportService {
	return &ReportServiceImpl{
		db:               db,
		ReportRepository: reportRepository,
		policy:           policy,
	}
}

func (s *ReportServiceImpl) period(req report.PeriodRequest) (time.Time, time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	return start, end, nil
}

// AttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, req report.PeriodRequest) (report.AttendanceReportResponse, error) {
	start, end, err := s.period(req)
	if err != nil {
		return report.AttendanceReportResponse{}, err
	}

	rows, err := s.ReportRepository.AttendanceRows(ctx, start, end, s.policy.Cutoff.String())
	if err != nil {
		return report.AttendanceReportResponse{}, fmt.Errorf("failed to build attendance report: %w", err)
	}

	response := report.AttendanceReportResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Rows:      make([]report.AttendanceRowJSON, 0, len(rows)),
	}
	for _, row := range rows {
		response.Rows = append(response.Rows, report.AttendanceRowJSON{
			EmployeeName: row.EmployeeName,
			EmployeeCode: row.EmployeeCode,
			Department:   row.Department,
			Date:         row.Date,
			TimeIn:       row.TimeIn,
			TimeOut:      row.TimeOut,
			IsLate:       row.IsLate,
			DelayMinutes: row.DelayMinutes,
			WorkedHours:  row.WorkedHours,
			Status:       row.Status,
		})
	}

	return response, nil
}

var excelHeaders = []string{
	"Employee", "Code", "Department", "Date",
	"Time In", "Time Out", "Late", "Delay (min)", "Worked Hours", "Status",
}

// ExportAttendanceExcel implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendanceExcel(ctx context.Context, req report.PeriodRequest, w io.Writer) (string, error) {
	start, end, err := s.period(req)
	if err != nil {
		return "", err
	}

	rows, err := s.ReportRepository.AttendanceRows(ctx, start, end, s.policy.Cutoff.String())
	if err != nil {
		return "", fmt.Errorf("failed to build attendance report: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range rows {
		values := []interface{}{
			row.EmployeeName,
			derefOr(row.EmployeeCode, ""),
			derefOr(row.Department, ""),
			row.Date,
			derefOr(row.TimeIn, "-"),
			derefOr(row.TimeOut, "-"),
			boolLabel(row.IsLate),
			row.DelayMinutes,
			workedLabel(row.WorkedHours),
			row.Status,
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return "", err
			}
			f.SetCellValue(sheet, cell, value)
		}
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "J", 14)

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", req.StartDate, req.EndDate)
	return filename, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func boolLabel(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func workedLabel(hours *float64) interface{} {
	if hours == nil {
		return "-"
	}
	return *hours
}
