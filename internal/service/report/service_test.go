package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	attendanceDomain "github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/report"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testReportDB *database.DB

func reportTestInit(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testReportDB != nil {
		return
	}

	var err error
	testReportDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

func truncateReportTables(t *testing.T, ctx context.Context) {
	tables := []string{"lateness_records", "absences", "attendances", "users"}
	for _, table := range tables {
		_, err := testReportDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

// seedReportData creates one employee with a complete day (08:00 to 17:00)
// and one with only a clock-in.
func seedReportData(t *testing.T, ctx context.Context) {
	userRepo := postgresql.NewUserRepository(testReportDB)
	attendanceRepo := postgresql.NewAttendanceRepository(testReportDB)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for i, punches := range [][]time.Time{
		{time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)},
		{time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)},
	} {
		employee, err := userRepo.Create(ctx, user.User{
			Email:     fmt.Sprintf("report-emp-%d-%d@example.com", i, time.Now().UnixNano()),
			FirstName: "Report",
			LastName:  fmt.Sprintf("Employee%d", i),
			Role:      user.RoleEmployee,
			IsActive:  true,
		})
		require.NoError(t, err)

		record, err := attendanceRepo.GetOrCreate(ctx, employee.ID, date)
		require.NoError(t, err)
		record.TimeIn = &punches[0]
		if len(punches) > 1 {
			record.TimeOut = &punches[1]
		}
		require.NoError(t, attendanceRepo.Update(ctx, record))
	}
}

func newTestReportService() report.ReportService {
	reportRepo := postgresql.NewReportRepository(testReportDB)
	return NewReportService(testReportDB, reportRepo, attendanceDomain.DefaultPolicy)
}

func TestReportService_AttendanceReport(t *testing.T) {
	ctx := context.Background()
	reportTestInit(t)
	truncateReportTables(t, ctx)
	seedReportData(t, ctx)

	svc := newTestReportService()

	resp, err := svc.AttendanceReport(ctx, report.PeriodRequest{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)

	byStatus := map[string]report.AttendanceRowJSON{}
	for _, row := range resp.Rows {
		byStatus[row.Status] = row
	}

	complete, ok := byStatus["COMPLETE"]
	require.True(t, ok)
	require.NotNil(t, complete.WorkedHours)
	assert.InDelta(t, 9.0, *complete.WorkedHours, 0.001)

	inProgress, ok := byStatus["IN_PROGRESS"]
	require.True(t, ok)
	assert.Nil(t, inProgress.TimeOut)
}

func TestReportService_AttendanceReport_RejectsBadPeriod(t *testing.T) {
	ctx := context.Background()
	reportTestInit(t)

	svc := newTestReportService()

	_, err := svc.AttendanceReport(ctx, report.PeriodRequest{StartDate: "2024-03-31", EndDate: "2024-03-01"})
	assert.Error(t, err)

	_, err = svc.AttendanceReport(ctx, report.PeriodRequest{StartDate: "soon", EndDate: "later"})
	assert.Error(t, err)
}

func TestReportService_ExportAttendanceExcel(t *testing.T) {
	ctx := context.Background()
	reportTestInit(t)
	truncateReportTables(t, ctx)
	seedReportData(t, ctx)

	svc := newTestReportService()

	var buf bytes.Buffer
	filename, err := svc.ExportAttendanceExcel(ctx, report.PeriodRequest{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "attendance_2024-03-01_2024-03-31.xlsx", filename)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	// header plus one row per attendance record
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee", rows[0][0])
}
