package report

import (
	"context"
	"io"
	"time"
)

// ReportRepository runs the aggregation queries behind statistics and the
// period report. Counters take an optional employee scope so the same
// queries serve both the HR-wide and the self views.
type ReportRepository interface {
	CountPresences(ctx context.Context, from, to time.Time, employeeID *string) (int64, error)
	CountLatenesses(ctx context.Context, from, to time.Time, employeeID *string) (int64, error)
	CountAbsences(ctx context.Context, from, to time.Time, employeeID *string) (int64, error)

	// AvgWorkedHours averages the cutoff-clipped worked hours over completed
	// attendance rows in the period. Returns 0 when there are none.
	AvgWorkedHours(ctx context.Context, from, to time.Time, employeeID *string, cutoff string) (float64, error)

	// AttendanceRows returns one row per employee-day for the period report.
	AttendanceRows(ctx context.Context, from, to time.Time, cutoff string) ([]AttendanceRow, error)
}

type ReportService interface {
	AttendanceReport(ctx context.Context, req PeriodRequest) (AttendanceReportResponse, error)

	// ExportAttendanceExcel writes an xlsx workbook for the period to w and
	// returns the suggested file name.
	ExportAttendanceExcel(ctx context.Context, req PeriodRequest, w io.Writer) (string, error)
}
