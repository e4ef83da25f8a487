package device

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	attendanceDomain "github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/device"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	attendanceservice "github.com/presencehr/attendance-backend-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDeviceDB *database.DB

func deviceTestInit(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testDeviceDB != nil {
		return
	}

	var err error
	testDeviceDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

func truncateDeviceTables(t *testing.T, ctx context.Context) {
	tables := []string{"device_punch_events", "lateness_records", "attendances", "users"}
	for _, table := range tables {
		_, err := testDeviceDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createDeviceTestEmployee(t *testing.T, ctx context.Context, biometricID string) user.User {
	userRepo := postgresql.NewUserRepository(testDeviceDB)
	created, err := userRepo.Create(ctx, user.User{
		Email:       fmt.Sprintf("emp-%d@example.com", time.Now().UnixNano()),
		FirstName:   "Test",
		LastName:    "Employee",
		Role:        user.RoleEmployee,
		BiometricID: &biometricID,
		IsActive:    true,
	})
	require.NoError(t, err)
	return created
}

func newTestDeviceService() device.DeviceService {
	eventRepo := postgresql.NewEventRepository(testDeviceDB)
	userRepo := postgresql.NewUserRepository(testDeviceDB)
	attendanceRepo := postgresql.NewAttendanceRepository(testDeviceDB)
	latenessRepo := postgresql.NewLatenessRepository(testDeviceDB)
	recorder := attendanceservice.NewPunchRecorder(testDeviceDB, attendanceRepo, latenessRepo, attendanceDomain.DefaultPolicy)
	return NewDeviceService(testDeviceDB, eventRepo, userRepo, recorder)
}

func TestDeviceService_ReceivePunch_ClockIn(t *testing.T) {
	ctx := context.Background()
	deviceTestInit(t)
	truncateDeviceTables(t, ctx)

	employee := createDeviceTestEmployee(t, ctx, "BIO-200")
	svc := newTestDeviceService()

	resp, err := svc.ReceivePunch(ctx, device.ReceivePunchRequest{
		BiometricID: "BIO-200",
		EventType:   "CLOCK_IN",
		Timestamp:   "2024-03-15T08:10:00Z",
		DeviceID:    "DEVICE_001",
	})
	require.NoError(t, err)
	assert.True(t, resp.Processed)
	require.NotNil(t, resp.EmployeeID)
	assert.Equal(t, employee.ID, *resp.EmployeeID)

	// the punch landed on the day's attendance record
	attendanceRepo := postgresql.NewAttendanceRepository(testDeviceDB)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	record, err := attendanceRepo.GetByEmployeeAndDate(ctx, employee.ID, date)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.TimeIn)
	assert.True(t, record.IsLate)
	assert.Equal(t, 10, record.DelayMinutes)
}

func TestDeviceService_ReceivePunch_UnknownBiometricID(t *testing.T) {
	ctx := context.Background()
	deviceTestInit(t)
	truncateDeviceTables(t, ctx)

	svc := newTestDeviceService()

	resp, err := svc.ReceivePunch(ctx, device.ReceivePunchRequest{
		BiometricID: "BIO-GHOST",
		EventType:   "CLOCK_IN",
		Timestamp:   "2024-03-15T08:10:00Z",
		DeviceID:    "DEVICE_001",
	})
	require.NoError(t, err)
	assert.True(t, resp.Processed)
	assert.Nil(t, resp.EmployeeID)

	// the event is kept and surfaces in the unresolved listing
	eventRepo := postgresql.NewEventRepository(testDeviceDB)
	unresolved := true
	events, total, err := eventRepo.List(ctx, device.EventFilter{Unresolved: &unresolved, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "BIO-GHOST", events[0].BiometricID)
	assert.True(t, events[0].Processed)
	assert.Nil(t, events[0].EmployeeID)
}

func TestDeviceService_ReceivePunch_ArchivedEmployeeIsUnresolved(t *testing.T) {
	ctx := context.Background()
	deviceTestInit(t)
	truncateDeviceTables(t, ctx)

	employee := createDeviceTestEmployee(t, ctx, "BIO-201")
	userRepo := postgresql.NewUserRepository(testDeviceDB)
	require.NoError(t, userRepo.Archive(ctx, employee.ID))

	svc := newTestDeviceService()

	resp, err := svc.ReceivePunch(ctx, device.ReceivePunchRequest{
		BiometricID: "BIO-201",
		EventType:   "CLOCK_IN",
		Timestamp:   "2024-03-15T08:10:00Z",
		DeviceID:    "DEVICE_001",
	})
	require.NoError(t, err)
	assert.True(t, resp.Processed)
	assert.Nil(t, resp.EmployeeID)
}

func TestDeviceService_ReceivePunch_BreakEventsAreAuditOnly(t *testing.T) {
	ctx := context.Background()
	deviceTestInit(t)
	truncateDeviceTables(t, ctx)

	employee := createDeviceTestEmployee(t, ctx, "BIO-202")
	svc := newTestDeviceService()

	resp, err := svc.ReceivePunch(ctx, device.ReceivePunchRequest{
		BiometricID: "BIO-202",
		EventType:   "BREAK_START",
		Timestamp:   "2024-03-15T12:00:00Z",
		DeviceID:    "DEVICE_001",
	})
	require.NoError(t, err)
	assert.True(t, resp.Processed)

	// no attendance record is touched by a break event
	attendanceRepo := postgresql.NewAttendanceRepository(testDeviceDB)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	record, err := attendanceRepo.GetByEmployeeAndDate(ctx, employee.ID, date)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestDeviceService_ReceivePunch_RejectsBadPayload(t *testing.T) {
	ctx := context.Background()
	deviceTestInit(t)
	truncateDeviceTables(t, ctx)

	svc := newTestDeviceService()

	_, err := svc.ReceivePunch(ctx, device.ReceivePunchRequest{
		BiometricID: "",
		EventType:   "CLOCK_SIDEWAYS",
		Timestamp:   "yesterday",
		DeviceID:    "",
	})
	assert.Error(t, err)
}
