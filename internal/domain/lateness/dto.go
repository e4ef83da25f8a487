package lateness

import (
	"mime/multipart"

	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	"github.com/presencehr/attendance-backend-go/internal/pkg/validator"
)

type JustifyRequest struct {
	ID            string `json:"-"`
	Justification string `json:"justification"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *JustifyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.Justification) {
		errs = append(errs, validator.ValidationError{
			Field:   "justification",
			Message: "justification text is required",
		})
	} else if len(r.Justification) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "justification",
			Message: "justification must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ValidateRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func (r *ValidateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if !validator.IsInSlice(r.Status, justification.ValidDecisions) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be APPROVED or REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LatenessFilter struct {
	EmployeeID *string
	Status     *string
	DateFrom   *string
	DateTo     *string
	Page       int
	Limit      int
}

type LatenessResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         string  `json:"employee_name,omitempty"`
	AttendanceID         string  `json:"attendance_id"`
	Date                 string  `json:"date"`
	ExpectedTime         string  `json:"expected_time"`
	ActualTime           string  `json:"actual_time"`
	DelayMinutes         int     `json:"delay_minutes"`
	Justification        *string `json:"justification"`
	JustificationFileURL *string `json:"justification_file_url"`
	Status               string  `json:"status"`
	JustifiedAt          *string `json:"justified_at"`
	ValidatedBy          *string `json:"validated_by"`
	ValidatorName        *string `json:"validator_name"`
	ValidatedAt          *string `json:"validated_at"`
	CreatedAt            string  `json:"created_at"`
}

type ListLatenessResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Latenesses []LatenessResponse `json:"latenesses"`
}
