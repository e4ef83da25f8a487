package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/report"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	user.UserRepository
	report.ReportRepository
	recorder *PunchRecorder
	policy   attendance.WorkdayPolicy
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	reportRepository report.ReportRepository,
	recorder *PunchRecorder,
	policy attendance.WorkdayPolicy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		ReportRepository:     reportRepository,
		recorder:             recorder,
		policy:               policy,
	}
}

// timePtrToString safely converts a *time.Time to an "HH:MM" string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("15:04")
	return &formatted
}

func (s *AttendanceServiceImpl) toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Date:         a.Date.Format("2006-01-02"),
		TimeIn:       timePtrToString(a.TimeIn),
		TimeOut:      timePtrToString(a.TimeOut),
		IsLate:       a.IsLate,
		DelayMinutes: a.DelayMinutes,
		Status:       string(a.Status()),
		WorkedHours:  a.WorkedHours(s.policy),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if a.EmployeeName != nil {
		resp.EmployeeName = *a.EmployeeName
	}
	return resp
}

// currentUser resolves the authenticated user's id and role from the JWT.
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

// ManualPunch implements attendance.AttendanceService.
// Goes through the same recorder as device events, so lateness derivation
// and idempotence behave identically.
func (s *AttendanceServiceImpl) ManualPunch(ctx context.Context, req attendance.ManualPunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employee, err := s.UserRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !employee.IsActive {
		return attendance.AttendanceResponse{}, user.ErrUserArchived
	}

	now := time.Now().UTC()

	date := now
	if req.Date != nil && *req.Date != "" {
		date, err = time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}

	at := time.Date(date.Year(), date.Month(), date.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	if req.PunchTime != nil && *req.PunchTime != "" {
		tod, err := attendance.ParseTimeOfDay(*req.PunchTime)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		at = tod.At(time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC))
	}

	record, err := s.recorder.Apply(ctx, req.EmployeeID, req.PunchType, at)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record.EmployeeName = func(n string) *string { return &n }(employee.FullName())
	return s.toResponse(record), nil
}

// GetAttendance implements attendance.AttendanceService.
// Employees can only read their own records.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	userID, role, err := currentUser(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !user.HasPermission(role, user.PermissionAttendanceViewAll) && record.EmployeeID != userID {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return s.toResponse(record), nil
}

// ListAttendance implements attendance.AttendanceService.
// Non-HR callers are forced onto their own records regardless of the filter.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	userID, role, err := currentUser(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if !user.HasPermission(role, user.PermissionAttendanceViewAll) {
		filter.EmployeeID = &userID
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	response := attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, record := range records {
		response.Attendances = append(response.Attendances, s.toResponse(record))
	}

	return response, nil
}

// Statistics implements attendance.AttendanceService.
// Defaults to the last 30 days. HR sees company-wide numbers; everyone else
// sees their own.
func (s *AttendanceServiceImpl) Statistics(ctx context.Context, req attendance.StatisticsRequest) (attendance.StatisticsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.StatisticsResponse{}, err
	}

	userID, role, err := currentUser(ctx)
	if err != nil {
		return attendance.StatisticsResponse{}, err
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -30)

	if req.StartDate != nil && *req.StartDate != "" {
		start, _ = time.Parse("2006-01-02", *req.StartDate)
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, _ = time.Parse("2006-01-02", *req.EndDate)
	}

	var scope *string
	if !user.HasPermission(role, user.PermissionAttendanceViewAll) {
		scope = &userID
	}

	presences, err := s.ReportRepository.CountPresences(ctx, start, end, scope)
	if err != nil {
		return attendance.StatisticsResponse{}, fmt.Errorf("failed to count presences: %w", err)
	}
	latenesses, err := s.ReportRepository.CountLatenesses(ctx, start, end, scope)
	if err != nil {
		return attendance.StatisticsResponse{}, fmt.Errorf("failed to count latenesses: %w", err)
	}
	absences, err := s.ReportRepository.CountAbsences(ctx, start, end, scope)
	if err != nil {
		return attendance.StatisticsResponse{}, fmt.Errorf("failed to count absences: %w", err)
	}
	avgHours, err := s.ReportRepository.AvgWorkedHours(ctx, start, end, scope, s.policy.Cutoff.String())
	if err != nil {
		return attendance.StatisticsResponse{}, fmt.Errorf("failed to average worked hours: %w", err)
	}

	return attendance.StatisticsResponse{
		StartDate:       start.Format("2006-01-02"),
		EndDate:         end.Format("2006-01-02"),
		TotalPresences:  presences,
		TotalLatenesses: latenesses,
		TotalAbsences:   absences,
		AvgHoursPerDay:  avgHours,
	}, nil
}
