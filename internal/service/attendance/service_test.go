package attendance

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/jwt"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHR(t *testing.T, ctx context.Context) user.User {
	userRepo := postgresql.NewUserRepository(testDB)
	created, err := userRepo.Create(ctx, user.User{
		Email:     "hr@example.com",
		FirstName: "Test",
		LastName:  "HR",
		Role:      user.RoleHR,
		IsActive:  true,
	})
	require.NoError(t, err)
	return created
}

func authedContext(t *testing.T, u user.User) context.Context {
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	tokenString, _, err := jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	token, err := jwtService.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestAttendanceService() attendance.AttendanceService {
	attendanceRepo := postgresql.NewAttendanceRepository(testDB)
	userRepo := postgresql.NewUserRepository(testDB)
	reportRepo := postgresql.NewReportRepository(testDB)
	return NewAttendanceService(testDB, attendanceRepo, userRepo, reportRepo, newTestRecorder(), attendance.DefaultPolicy)
}

func TestAttendanceService_ManualPunch(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-300")
	hr := createTestHR(t, ctx)
	svc := newTestAttendanceService()

	date := "2024-03-15"
	timeIn := "08:40"
	resp, err := svc.ManualPunch(authedContext(t, hr), attendance.ManualPunchRequest{
		EmployeeID: employee.ID,
		PunchType:  attendance.PunchTypeIn,
		PunchTime:  &timeIn,
		Date:       &date,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", resp.Date)
	require.NotNil(t, resp.TimeIn)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 40, resp.DelayMinutes)

	timeOut := "17:10"
	resp, err = svc.ManualPunch(authedContext(t, hr), attendance.ManualPunchRequest{
		EmployeeID: employee.ID,
		PunchType:  attendance.PunchTypeOut,
		PunchTime:  &timeOut,
		Date:       &date,
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.TimeOut)
}

func TestAttendanceService_ManualPunch_RejectsArchivedEmployee(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-301")
	userRepo := postgresql.NewUserRepository(testDB)
	require.NoError(t, userRepo.Archive(ctx, employee.ID))

	hr := createTestHR(t, ctx)
	svc := newTestAttendanceService()

	_, err := svc.ManualPunch(authedContext(t, hr), attendance.ManualPunchRequest{
		EmployeeID: employee.ID,
		PunchType:  attendance.PunchTypeIn,
	})
	assert.ErrorIs(t, err, user.ErrUserArchived)
}

func TestAttendanceService_Statistics(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-302")
	hr := createTestHR(t, ctx)
	svc := newTestAttendanceService()

	date := "2024-03-15"
	for _, punch := range []struct{ typ, at string }{
		{attendance.PunchTypeIn, "08:25"},
		{attendance.PunchTypeOut, "17:25"},
	} {
		at := punch.at
		_, err := svc.ManualPunch(authedContext(t, hr), attendance.ManualPunchRequest{
			EmployeeID: employee.ID,
			PunchType:  punch.typ,
			PunchTime:  &at,
			Date:       &date,
		})
		require.NoError(t, err)
	}

	start := "2024-03-01"
	end := "2024-03-31"
	stats, err := svc.Statistics(authedContext(t, hr), attendance.StatisticsRequest{
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalPresences)
	assert.Equal(t, int64(1), stats.TotalLatenesses)
	assert.Equal(t, int64(0), stats.TotalAbsences)
	assert.InDelta(t, 9.0, stats.AvgHoursPerDay, 0.001)

	// an employee only sees their own numbers
	otherEmployee := createTestEmployee(t, ctx, "BIO-303")
	otherStats, err := svc.Statistics(authedContext(t, otherEmployee), attendance.StatisticsRequest{
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), otherStats.TotalPresences)
}
