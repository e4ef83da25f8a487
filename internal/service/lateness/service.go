package lateness

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	"github.com/presencehr/attendance-backend-go/internal/domain/lateness"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/database"
	"github.com/presencehr/attendance-backend-go/internal/service/file"
)

type LatenessServiceImpl struct {
	db *database.DB
	lateness.LatenessRepository
	fileService file.FileService
}

func NewLatenessService(db *database.DB, latenessRepository lateness.LatenessRepository, fileService file.FileService) lateness.LatenessService {
	return &LatenessServiceImpl{
		db:                 db,
		LatenessRepository: latenessRepository,
		fileService:        fileService,
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

func toResponse(l lateness.Lateness) lateness.LatenessResponse {
	resp := lateness.LatenessResponse{
		ID:                   l.ID,
		EmployeeID:           l.EmployeeID,
		AttendanceID:         l.AttendanceID,
		Date:                 l.Date.Format("2006-01-02"),
		ExpectedTime:         l.ExpectedTime.Format("15:04"),
		ActualTime:           l.ActualTime.Format("15:04"),
		DelayMinutes:         l.DelayMinutes,
		Justification:        l.Justification,
		JustificationFileURL: l.JustificationFileURL,
		Status:               string(l.Status),
		JustifiedAt:          timePtrToString(l.JustifiedAt),
		ValidatedBy:          l.ValidatedBy,
		ValidatorName:        l.ValidatorName,
		ValidatedAt:          timePtrToString(l.ValidatedAt),
		CreatedAt:            l.CreatedAt.Format(time.RFC3339),
	}
	if l.EmployeeName != nil {
		resp.EmployeeName = *l.EmployeeName
	}
	return resp
}

// Get implements lateness.LatenessService.
func (s *LatenessServiceImpl) Get(ctx context.Context, id string) (lateness.LatenessResponse, error) {
	userID, role, err := currentUser(ctx)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	record, err := s.LatenessRepository.GetByID(ctx, id)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	if !user.HasPermission(role, user.PermissionLatenessViewAll) && record.EmployeeID != userID {
		return lateness.LatenessResponse{}, lateness.ErrLatenessNotFound
	}

	return toResponse(record), nil
}

// List implements lateness.LatenessService.
func (s *LatenessServiceImpl) List(ctx context.Context, filter lateness.LatenessFilter) (lateness.ListLatenessResponse, error) {
	userID, role, err := currentUser(ctx)
	if err != nil {
		return lateness.ListLatenessResponse{}, err
	}

	if !user.HasPermission(role, user.PermissionLatenessViewAll) {
		filter.EmployeeID = &userID
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.LatenessRepository.List(ctx, filter)
	if err != nil {
		return lateness.ListLatenessResponse{}, fmt.Errorf("failed to list latenesses: %w", err)
	}

	response := lateness.ListLatenessResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Latenesses: make([]lateness.LatenessResponse, 0, len(records)),
	}
	for _, record := range records {
		response.Latenesses = append(response.Latenesses, toResponse(record))
	}

	return response, nil
}

// Justify implements lateness.LatenessService.
// The employee concerned, or HR acting on their behalf, may justify.
// Re-submitting replaces the text and puts the record back under review.
func (s *LatenessServiceImpl) Justify(ctx context.Context, req lateness.JustifyRequest) (lateness.LatenessResponse, error) {
	if err := req.Validate(); err != nil {
		return lateness.LatenessResponse{}, err
	}

	userID, role, err := currentUser(ctx)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	record, err := s.LatenessRepository.GetByID(ctx, req.ID)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	if record.EmployeeID != userID && !user.HasPermission(role, user.PermissionLatenessValidate) {
		return lateness.LatenessResponse{}, lateness.ErrNotRecordOwner
	}

	var fileURL *string
	if req.File != nil && req.FileHeader != nil {
		url, err := s.fileService.UploadJustificationFile(ctx, record.EmployeeID, req.File, req.FileHeader.Filename)
		if err != nil {
			return lateness.LatenessResponse{}, err
		}
		fileURL = &url
	}

	if err := s.LatenessRepository.UpdateJustification(ctx, req.ID, req.Justification, fileURL, time.Now().UTC()); err != nil {
		return lateness.LatenessResponse{}, err
	}

	updated, err := s.LatenessRepository.GetByID(ctx, req.ID)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	return toResponse(updated), nil
}

// ValidateJustification implements lateness.LatenessService.
func (s *LatenessServiceImpl) ValidateJustification(ctx context.Context, req lateness.ValidateRequest) (lateness.LatenessResponse, error) {
	if err := req.Validate(); err != nil {
		return lateness.LatenessResponse{}, err
	}

	userID, _, err := currentUser(ctx)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	record, err := s.LatenessRepository.GetByID(ctx, req.ID)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	if err := justification.CanValidate(record.Status, record.Justification != nil); err != nil {
		return lateness.LatenessResponse{}, err
	}

	decision, err := justification.ParseDecision(req.Status)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	if err := s.LatenessRepository.UpdateValidation(ctx, req.ID, string(decision), userID, time.Now().UTC()); err != nil {
		return lateness.LatenessResponse{}, err
	}

	updated, err := s.LatenessRepository.GetByID(ctx, req.ID)
	if err != nil {
		return lateness.LatenessResponse{}, err
	}

	return toResponse(updated), nil
}
