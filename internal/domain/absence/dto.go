package absence

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

// SweepRequest triggers absence creation for a past date (default yesterday).
type SweepRequest struct {
	Date *string `json:"date"`
}

func (r *SweepRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AbsenceFilter struct {
	EmployeeID *string
	Status     *string
	DateFrom   *string
	DateTo     *string
	Page       int
	Limit      int
}

type AbsenceResponse struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         string  `json:"employee_name,omitempty"`
	Date                 string  `json:"date"`
	Justification        *string `json:"justification"`
	JustificationFileURL *string `json:"justification_file_url"`
	Status               string  `json:"status"`
	JustifiedAt          *string `json:"justified_at"`
	ValidatedBy          *string `json:"validated_by"`
	ValidatorName        *string `json:"validator_name"`
	ValidatedAt          *string `json:"validated_at"`
	CreatedAt            string  `json:"created_at"`
}

type ListAbsenceResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Absences   []AbsenceResponse `json:"absences"`
}

type SweepResponse struct {
	Date            string `json:"date"`
	AbsencesCreated int    `json:"absences_created"`
}
