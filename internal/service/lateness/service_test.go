package lateness

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	"github.com/presencehr/attendance-backend-go/internal/domain/lateness"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/pkg/jwt"
	"github.com/presencehr/attendance-backend-go/internal/pkg/storage"
	"github.com/presencehr/attendance-backend-go/internal/repository/postgresql"
	"github.com/presencehr/attendance-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLatenessDB *database.DB

func latenessTestInit(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testLatenessDB != nil {
		return
	}

	var err error
	testLatenessDB, err = database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
}

func truncateLatenessTables(t *testing.T, ctx context.Context) {
	tables := []string{"lateness_records", "attendances", "users"}
	for _, table := range tables {
		_, err := testLatenessDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createLatenessTestUser(t *testing.T, ctx context.Context, role user.Role) user.User {
	userRepo := postgresql.NewUserRepository(testLatenessDB)
	created, err := userRepo.Create(ctx, user.User{
		Email:     fmt.Sprintf("user-%d@example.com", time.Now().UnixNano()),
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		IsActive:  true,
	})
	require.NoError(t, err)
	return created
}

// authedContext builds a context carrying the claims the verifier middleware
// would have attached for this user.
func authedContext(t *testing.T, u user.User) context.Context {
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	tokenString, _, err := jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	token, err := jwtService.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func createLatenessRecord(t *testing.T, ctx context.Context, employeeID string) lateness.Lateness {
	attendanceRepo := postgresql.NewAttendanceRepository(testLatenessDB)
	latenessRepo := postgresql.NewLatenessRepository(testLatenessDB)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	att, err := attendanceRepo.GetOrCreate(ctx, employeeID, date)
	require.NoError(t, err)

	record, err := latenessRepo.GetOrCreate(ctx, lateness.Lateness{
		EmployeeID:   employeeID,
		AttendanceID: att.ID,
		Date:         date,
		ExpectedTime: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		ActualTime:   time.Date(2024, 3, 15, 8, 20, 0, 0, time.UTC),
		DelayMinutes: 20,
		Status:       justification.StatusPending,
	})
	require.NoError(t, err)
	return record
}

func newTestLatenessService(t *testing.T) lateness.LatenessService {
	latenessRepo := postgresql.NewLatenessRepository(testLatenessDB)
	localStorage, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return NewLatenessService(testLatenessDB, latenessRepo, file.NewFileService(localStorage))
}

func TestLatenessService_JustifyThenValidate(t *testing.T) {
	ctx := context.Background()
	latenessTestInit(t)
	truncateLatenessTables(t, ctx)

	employee := createLatenessTestUser(t, ctx, user.RoleEmployee)
	hr := createLatenessTestUser(t, ctx, user.RoleHR)
	record := createLatenessRecord(t, ctx, employee.ID)
	svc := newTestLatenessService(t)

	// employee submits an explanation
	resp, err := svc.Justify(authedContext(t, employee), lateness.JustifyRequest{
		ID:            record.ID,
		Justification: "Train strike on the northern line",
	})
	require.NoError(t, err)
	assert.Equal(t, string(justification.StatusPending), resp.Status)
	require.NotNil(t, resp.Justification)
	assert.Equal(t, "Train strike on the northern line", *resp.Justification)
	assert.NotNil(t, resp.JustifiedAt)

	// HR approves it
	resp, err = svc.ValidateJustification(authedContext(t, hr), lateness.ValidateRequest{
		ID:     record.ID,
		Status: "APPROVED",
	})
	require.NoError(t, err)
	assert.Equal(t, string(justification.StatusApproved), resp.Status)
	require.NotNil(t, resp.ValidatedBy)
	assert.Equal(t, hr.ID, *resp.ValidatedBy)
	assert.NotNil(t, resp.ValidatedAt)
}

func TestLatenessService_Justify_OnlyOwner(t *testing.T) {
	ctx := context.Background()
	latenessTestInit(t)
	truncateLatenessTables(t, ctx)

	owner := createLatenessTestUser(t, ctx, user.RoleEmployee)
	other := createLatenessTestUser(t, ctx, user.RoleEmployee)
	record := createLatenessRecord(t, ctx, owner.ID)
	svc := newTestLatenessService(t)

	_, err := svc.Justify(authedContext(t, other), lateness.JustifyRequest{
		ID:            record.ID,
		Justification: "Not my record",
	})
	assert.ErrorIs(t, err, lateness.ErrNotRecordOwner)
}

func TestLatenessService_Justify_HRMayActOnBehalf(t *testing.T) {
	ctx := context.Background()
	latenessTestInit(t)
	truncateLatenessTables(t, ctx)

	owner := createLatenessTestUser(t, ctx, user.RoleEmployee)
	hr := createLatenessTestUser(t, ctx, user.RoleHR)
	record := createLatenessRecord(t, ctx, owner.ID)
	svc := newTestLatenessService(t)

	resp, err := svc.Justify(authedContext(t, hr), lateness.JustifyRequest{
		ID:            record.ID,
		Justification: "Phoned in: car accident on the ring road",
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, resp.EmployeeID)
	assert.Equal(t, string(justification.StatusPending), resp.Status)
}

func TestLatenessService_ReJustifyResetsValidation(t *testing.T) {
	ctx := context.Background()
	latenessTestInit(t)
	truncateLatenessTables(t, ctx)

	employee := createLatenessTestUser(t, ctx, user.RoleEmployee)
	hr := createLatenessTestUser(t, ctx, user.RoleHR)
	record := createLatenessRecord(t, ctx, employee.ID)
	svc := newTestLatenessService(t)

	_, err := svc.Justify(authedContext(t, employee), lateness.JustifyRequest{
		ID:            record.ID,
		Justification: "Overslept",
	})
	require.NoError(t, err)

	_, err = svc.ValidateJustification(authedContext(t, hr), lateness.ValidateRequest{
		ID:     record.ID,
		Status: "REJECTED",
	})
	require.NoError(t, err)

	// a new explanation reopens the review
	resp, err := svc.Justify(authedContext(t, employee), lateness.JustifyRequest{
		ID:            record.ID,
		Justification: "Overslept, doctor's note attached",
	})
	require.NoError(t, err)
	assert.Equal(t, string(justification.StatusPending), resp.Status)
	assert.Nil(t, resp.ValidatedBy)
	assert.Nil(t, resp.ValidatedAt)
}

func TestLatenessService_Validate_RequiresJustification(t *testing.T) {
	ctx := context.Background()
	latenessTestInit(t)
	truncateLatenessTables(t, ctx)

	employee := createLatenessTestUser(t, ctx, user.RoleEmployee)
	hr := createLatenessTestUser(t, ctx, user.RoleHR)
	record := createLatenessRecord(t, ctx, employee.ID)
	svc := newTestLatenessService(t)

	_, err := svc.ValidateJustification(authedContext(t, hr), lateness.ValidateRequest{
		ID:     record.ID,
		Status: "APPROVED",
	})
	assert.ErrorIs(t, err, justification.ErrNoJustification)
}

func TestLatenessService_Validate_RejectsSecondDecision(t *testing.T) {
	ctx := context.Background()
	latenessTestInit(t)
	truncateLatenessTables(t, ctx)

	employee := createLatenessTestUser(t, ctx, user.RoleEmployee)
	hr := createLatenessTestUser(t, ctx, user.RoleHR)
	record := createLatenessRecord(t, ctx, employee.ID)
	svc := newTestLatenessService(t)

	_, err := svc.Justify(authedContext(t, employee), lateness.JustifyRequest{
		ID:            record.ID,
		Justification: "Overslept",
	})
	require.NoError(t, err)

	_, err = svc.ValidateJustification(authedContext(t, hr), lateness.ValidateRequest{
		ID:     record.ID,
		Status: "APPROVED",
	})
	require.NoError(t, err)

	_, err = svc.ValidateJustification(authedContext(t, hr), lateness.ValidateRequest{
		ID:     record.ID,
		Status: "REJECTED",
	})
	assert.ErrorIs(t, err, justification.ErrAlreadyValidated)
}

func TestLatenessService_Get_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	latenessTestInit(t)
	truncateLatenessTables(t, ctx)

	owner := createLatenessTestUser(t, ctx, user.RoleEmployee)
	other := createLatenessTestUser(t, ctx, user.RoleEmployee)
	hr := createLatenessTestUser(t, ctx, user.RoleHR)
	record := createLatenessRecord(t, ctx, owner.ID)
	svc := newTestLatenessService(t)

	_, err := svc.Get(authedContext(t, owner), record.ID)
	assert.NoError(t, err)

	_, err = svc.Get(authedContext(t, hr), record.ID)
	assert.NoError(t, err)

	_, err = svc.Get(authedContext(t, other), record.ID)
	assert.ErrorIs(t, err, lateness.ErrLatenessNotFound)
}
