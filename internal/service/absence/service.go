package absence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/absence"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/service/file"
)

type AbsenceServiceImpl struct {
	db *database.DB
	absence.AbsenceRepository
	attendance.AttendanceRepository
	user.UserRepository
	fileService file.FileService
}

func NewAbsenceService(
	db *database.DB,
	absenceRepository absence.AbsenceRepository,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	fileService file.FileService,
) absence.AbsenceService {
	return &AbsenceServiceImpl{
		db:                   db,
		AbsenceRepository:    absenceRepository,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		fileService:          fileService,
	}
}

func currentUser(ctx context.Context) (string, user.Role, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return userID, user.Role(roleStr), nil
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func toResponse(a absence.Absence) absence.AbsenceResponse {
	resp := absence.AbsenceResponse{
		ID:                   a.ID,
		EmployeeID:           a.EmployeeID,
		Date:                 a.Date.Format("2006-01-02"),
		Justification:        a.Justification,
		JustificationFileURL: a.JustificationFileURL,
		Status:               string(a.Status),
		JustifiedAt:          timePtrToString(a.JustifiedAt),
		ValidatedBy:          a.ValidatedBy,
		ValidatorName:        a.ValidatorName,
		ValidatedAt:          timePtrToString(a.ValidatedAt),
		CreatedAt:            a.CreatedAt.Format(time.RFC3339),
	}
	if a.EmployeeName != nil {
		resp.EmployeeName = *a.EmployeeName
	}
	return resp
}

// Get implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Get(ctx context.Context, id string) (absence.AbsenceResponse, error) {
	userID, role, err := currentUser(ctx)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	record, err := s.AbsenceRepository.GetByID(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if !user.HasPermission(role, user.PermissionAbsenceViewAll) && record.EmployeeID != userID {
		return absence.AbsenceResponse{}, absence.ErrAbsenceNotFound
	}

	return toResponse(record), nil
}

// List implements absence.AbsenceService.
func (s *AbsenceServiceImpl) List(ctx context.Context, filter absence.AbsenceFilter) (absence.ListAbsenceResponse, error) {
	userID, role, err := currentUser(ctx)
	if err != nil {
		return absence.ListAbsenceResponse{}, err
	}

	if !user.HasPermission(role, user.PermissionAbsenceViewAll) {
		filter.EmployeeID = &userID
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.AbsenceRepository.List(ctx, filter)
	if err != nil {
		return absence.ListAbsenceResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	response := absence.ListAbsenceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Absences:   make([]absence.AbsenceResponse, 0, len(records)),
	}
	for _, record := range records {
		response.Absences = append(response.Absences, toResponse(record))
	}

	return response, nil
}

// Justify implements absence.AbsenceService.
// The employee concerned, or HR acting on their behalf, may justify.
func (s *AbsenceServiceImpl) Justify(ctx context.Context, req absence.JustifyRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	userID, role, err := currentUser(ctx)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	record, err := s.AbsenceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if record.EmployeeID != userID && !user.HasPermission(role, user.PermissionAbsenceValidate) {
		return absence.AbsenceResponse{}, absence.ErrNotRecordOwner
	}

	var fileURL *string
	if req.File != nil && req.FileHeader != nil {
		url, err := s.fileService.UploadJustificationFile(ctx, record.EmployeeID, req.File, req.FileHeader.Filename)
		if err != nil {
			return absence.AbsenceResponse{}, err
		}
		fileURL = &url
	}

	if err := s.AbsenceRepository.UpdateJustification(ctx, req.ID, req.Justification, fileURL, time.Now().UTC()); err != nil {
		return absence.AbsenceResponse{}, err
	}

	updated, err := s.AbsenceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	return toResponse(updated), nil
}

// ValidateJustification implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ValidateJustification(ctx context.Context, req absence.ValidateRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	userID, _, err := currentUser(ctx)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	record, err := s.AbsenceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if err := justification.CanValidate(record.Status, record.Justification != nil); err != nil {
		return absence.AbsenceResponse{}, err
	}

	decision, err := justification.ParseDecision(req.Status)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if err := s.AbsenceRepository.UpdateValidation(ctx, req.ID, string(decision), userID, time.Now().UTC()); err != nil {
		return absence.AbsenceResponse{}, err
	}

	updated, err := s.AbsenceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	return toResponse(updated), nil
}

// SweepDate implements absence.AbsenceService.
// Re-running for the same date creates nothing new: employees with an
// attendance row or an existing absence are skipped, and the unique
// constraint swallows races between two concurrent sweeps.
func (s *AbsenceServiceImpl) SweepDate(ctx context.Context, date time.Time) (int, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	today := time.Now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !day.Before(today) {
		return 0, absence.ErrSweepCurrentDay
	}

	employees, err := s.UserRepository.ListActiveEmployees(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	created := 0
	for _, employee := range employees {
		hasAttendance, err := s.AttendanceRepository.ExistsForDate(ctx, employee.ID, day)
		if err != nil {
			return created, fmt.Errorf("failed to check attendance for %s: %w", employee.ID, err)
		}
		if hasAttendance {
			continue
		}

		hasAbsence, err := s.AbsenceRepository.ExistsForDate(ctx, employee.ID, day)
		if err != nil {
			return created, fmt.Errorf("failed to check absence for %s: %w", employee.ID, err)
		}
		if hasAbsence {
			continue
		}

		_, err = s.AbsenceRepository.Create(ctx, absence.Absence{
			EmployeeID: employee.ID,
			Date:       day,
			Status:     justification.StatusPending,
		})
		if err != nil {
			if errors.Is(err, absence.ErrDuplicateAbsence) {
				continue
			}
			return created, fmt.Errorf("failed to create absence for %s: %w", employee.ID, err)
		}
		created++
	}

	slog.Info("Absence sweep finished", "date", day.Format("2006-01-02"), "created", created, "employees", len(employees))
	return created, nil
}
