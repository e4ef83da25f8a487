package absence

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/absence"
	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/pkg/storage"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	"github.com/presencehr/attendance-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAbsenceDB *database.DB

func absenceTestInit(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testAbsenceDB != nil {
		return
	}

	var err error
	testAbsenceDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

func truncateAbsenceTables(t *testing.T, ctx context.Context) {
	tables := []string{"lateness_records", "absences", "attendances", "users"}
	for _, table := range tables {
		_, err := testAbsenceDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createAbsenceTestEmployee(t *testing.T, ctx context.Context) user.User {
	userRepo := postgresql.NewUserRepository(testAbsenceDB)
	created, err := userRepo.Create(ctx, user.User{
		Email:     fmt.Sprintf("emp-%d@example.com", time.Now().UnixNano()),
		FirstName: "Test",
		LastName:  "Employee",
		Role:      user.RoleEmployee,
		IsActive:  true,
	})
	require.NoError(t, err)
	return created
}

func newTestAbsenceService(t *testing.T) absence.AbsenceService {
	absenceRepo := postgresql.NewAbsenceRepository(testAbsenceDB)
	attendanceRepo := postgresql.NewAttendanceRepository(testAbsenceDB)
	userRepo := postgresql.NewUserRepository(testAbsenceDB)

	localStorage, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	fileSvc := file.NewFileService(localStorage)

	return NewAbsenceService(testAbsenceDB, absenceRepo, attendanceRepo, userRepo, fileSvc)
}

func TestAbsenceService_SweepDate(t *testing.T) {
	ctx := context.Background()
	absenceTestInit(t)
	truncateAbsenceTables(t, ctx)

	present := createAbsenceTestEmployee(t, ctx)
	absent := createAbsenceTestEmployee(t, ctx)

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	// the present employee has an attendance record for the day
	attendanceRepo := postgresql.NewAttendanceRepository(testAbsenceDB)
	_, err := attendanceRepo.GetOrCreate(ctx, present.ID, yesterday)
	require.NoError(t, err)

	svc := newTestAbsenceService(t)

	created, err := svc.SweepDate(ctx, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	absenceRepo := postgresql.NewAbsenceRepository(testAbsenceDB)
	records, total, err := absenceRepo.List(ctx, absence.AbsenceFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, absent.ID, records[0].EmployeeID)
	assert.Equal(t, justification.StatusPending, records[0].Status)

	// re-running the sweep for the same day is a no-op
	created, err = svc.SweepDate(ctx, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestAbsenceService_SweepDate_RejectsCurrentDay(t *testing.T) {
	ctx := context.Background()
	absenceTestInit(t)
	truncateAbsenceTables(t, ctx)

	svc := newTestAbsenceService(t)

	_, err := svc.SweepDate(ctx, time.Now().UTC())
	assert.ErrorIs(t, err, absence.ErrSweepCurrentDay)

	_, err = svc.SweepDate(ctx, time.Now().UTC().AddDate(0, 0, 1))
	assert.ErrorIs(t, err, absence.ErrSweepCurrentDay)
}

func TestAbsenceService_SweepDate_SkipsInactiveEmployees(t *testing.T) {
	ctx := context.Background()
	absenceTestInit(t)
	truncateAbsenceTables(t, ctx)

	userRepo := postgresql.NewUserRepository(testAbsenceDB)
	archived := createAbsenceTestEmployee(t, ctx)
	require.NoError(t, userRepo.Archive(ctx, archived.ID))

	svc := newTestAbsenceService(t)

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	created, err := svc.SweepDate(ctx, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
