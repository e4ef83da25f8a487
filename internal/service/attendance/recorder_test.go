package attendance

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	latenessDomain "github.com/presencehr/attendance-backend-go/internal/domain/lateness"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

func testInit(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testDB != nil {
		return
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

func truncateTables(t *testing.T, ctx context.Context) {
	tables := []string{"lateness_records", "absences", "attendances", "device_punch_events", "refresh_tokens", "users"}
	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createTestEmployee(t *testing.T, ctx context.Context, biometricID string) user.User {
	userRepo := postgresql.NewUserRepository(testDB)
	email := fmt.Sprintf("emp-%d@example.com", time.Now().UnixNano())
	created, err := userRepo.Create(ctx, user.User{
		Email:       email,
		FirstName:   "Test",
		LastName:    "Employee",
		Role:        user.RoleEmployee,
		BiometricID: &biometricID,
		IsActive:    true,
	})
	require.NoError(t, err)
	return created
}

func newTestRecorder() *PunchRecorder {
	attendanceRepo := postgresql.NewAttendanceRepository(testDB)
	latenessRepo := postgresql.NewLatenessRepository(testDB)
	return NewPunchRecorder(testDB, attendanceRepo, latenessRepo, attendance.DefaultPolicy)
}

func TestPunchRecorder_ClockInReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-100")
	recorder := newTestRecorder()

	at := time.Date(2024, 3, 15, 7, 45, 0, 0, time.UTC)
	record, err := recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, at)
	require.NoError(t, err)
	require.NotNil(t, record.TimeIn)
	assert.False(t, record.IsLate)

	// a redelivered event reapplies the same write
	record, err = recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, at)
	require.NoError(t, err)
	require.NotNil(t, record.TimeIn)
	assert.Equal(t, at.Unix(), record.TimeIn.Unix())
	assert.False(t, record.IsLate)
}

func TestPunchRecorder_ClockInRecomputesLateness(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-104")
	recorder := newTestRecorder()

	first := time.Date(2024, 3, 15, 7, 45, 0, 0, time.UTC)
	record, err := recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, first)
	require.NoError(t, err)
	assert.False(t, record.IsLate)

	// a second clock-in moves the punch and recomputes the late flag
	second := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	record, err = recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, second)
	require.NoError(t, err)
	require.NotNil(t, record.TimeIn)
	assert.Equal(t, second.Unix(), record.TimeIn.Unix())
	assert.True(t, record.IsLate)
	assert.Equal(t, 60, record.DelayMinutes)

	latenessRepo := postgresql.NewLatenessRepository(testDB)
	_, total, err := latenessRepo.List(ctx, latenessDomain.LatenessFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPunchRecorder_SubMinuteDelayHasNoLatenessRecord(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-105")
	recorder := newTestRecorder()

	// thirty seconds past the expected start: late, but the whole-minute
	// delay is zero, so no lateness record may exist
	at := time.Date(2024, 3, 15, 8, 0, 30, 0, time.UTC)
	record, err := recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, at)
	require.NoError(t, err)
	assert.True(t, record.IsLate)
	assert.Equal(t, 0, record.DelayMinutes)

	latenessRepo := postgresql.NewLatenessRepository(testDB)
	_, total, err := latenessRepo.List(ctx, latenessDomain.LatenessFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestPunchRecorder_LateClockInSnapshotsLateness(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-101")
	recorder := newTestRecorder()
	latenessRepo := postgresql.NewLatenessRepository(testDB)

	at := time.Date(2024, 3, 15, 8, 25, 30, 0, time.UTC)
	record, err := recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, at)
	require.NoError(t, err)
	assert.True(t, record.IsLate)
	assert.Equal(t, 25, record.DelayMinutes)

	records, total, err := latenessRepo.List(ctx, latenessDomain.LatenessFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, employee.ID, records[0].EmployeeID)
	assert.Equal(t, 25, records[0].DelayMinutes)
	assert.Equal(t, justification.StatusPending, records[0].Status)

	// replaying the late punch must not create a second snapshot
	_, err = recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, at)
	require.NoError(t, err)
	_, total, err = latenessRepo.List(ctx, latenessDomain.LatenessFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPunchRecorder_LatestClockOutWins(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-102")
	recorder := newTestRecorder()

	in := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	_, err := recorder.Apply(ctx, employee.ID, attendance.PunchTypeIn, in)
	require.NoError(t, err)

	firstOut := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	record, err := recorder.Apply(ctx, employee.ID, attendance.PunchTypeOut, firstOut)
	require.NoError(t, err)
	require.NotNil(t, record.TimeOut)
	assert.Equal(t, firstOut.Unix(), record.TimeOut.Unix())

	lastOut := time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)
	record, err = recorder.Apply(ctx, employee.ID, attendance.PunchTypeOut, lastOut)
	require.NoError(t, err)
	require.NotNil(t, record.TimeOut)
	assert.Equal(t, lastOut.Unix(), record.TimeOut.Unix())

	// an out-of-order earlier punch must not roll the day back
	record, err = recorder.Apply(ctx, employee.ID, attendance.PunchTypeOut, firstOut)
	require.NoError(t, err)
	assert.Equal(t, lastOut.Unix(), record.TimeOut.Unix())
}

func TestPunchRecorder_InvalidPunchType(t *testing.T) {
	ctx := context.Background()
	testInit(t)
	truncateTables(t, ctx)

	employee := createTestEmployee(t, ctx, "BIO-103")
	recorder := newTestRecorder()

	_, err := recorder.Apply(ctx, employee.ID, "BREAK_START", time.Now().UTC())
	assert.ErrorIs(t, err, attendance.ErrInvalidPunchType)
}
