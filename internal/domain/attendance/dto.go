package attendance

import (
	"github.com/presencehr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

const (
	PunchTypeIn  = "in"
	PunchTypeOut = "out"
)

// ManualPunchRequest records a punch on behalf of an employee (HR only,
// corrections and tests). Time defaults to now, date to today.
type ManualPunchRequest struct {
	EmployeeID string  `json:"employee_id"`
	PunchType  string  `json:"punch_type"`
	PunchTime  *string `json:"punch_time"` // "HH:MM", optional
	Date       *string `json:"date"`       // "YYYY-MM-DD", optional
}

func (r *ManualPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.PunchType != PunchTypeIn && r.PunchType != PunchTypeOut {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_type",
			Message: "punch_type must be 'in' or 'out'",
		})
	}

	if r.PunchTime != nil && *r.PunchTime != "" {
		if _, ok := validator.IsValidTimeOfDay(*r.PunchTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "punch_time",
				Message: "punch_time must be in HH:MM format",
			})
		}
	}

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

type AttendanceFilter struct {
	EmployeeID *string
	DateFrom   *string
	DateTo     *string
	Page       int
	Limit      int
}

type StatisticsRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func (r *StatisticsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != nil && *r.StartDate != "" {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.EndDate != nil && *r.EndDate != "" {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name,omitempty"`
	Date         string   `json:"date"`
	TimeIn       *string  `json:"time_in"`
	TimeOut      *string  `json:"time_out"`
	IsLate       bool     `json:"is_late"`
	DelayMinutes int      `json:"delay_minutes"`
	Status       string   `json:"status"`
	WorkedHours  *float64 `json:"worked_hours"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type StatisticsResponse struct {
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalPresences  int64   `json:"total_presences"`
	TotalLatenesses int64   `json:"total_latenesses"`
	TotalAbsences   int64   `json:"total_absences"`
	AvgHoursPerDay  float64 `json:"avg_hours_per_day"`
}
