package report

import (
	"github.com/presencehr/attendance-backend-go/internal/pkg/validator"
)

type PeriodRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not precede start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AttendanceRow is one line of the period report: a single employee-day.
type AttendanceRow struct {
	EmployeeName string
	EmployeeCode *string
	Department   *string
	Date         string
	TimeIn       *string
	TimeOut      *string
	IsLate       bool
	DelayMinutes int
	WorkedHours  *float64
	Status       string
}

type AttendanceReportResponse struct {
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Rows      []AttendanceRowJSON `json:"rows"`
}

type AttendanceRowJSON struct {
	EmployeeName string   `json:"employee_name"`
	EmployeeCode *string  `json:"employee_code"`
	Department   *string  `json:"department"`
	Date         string   `json:"date"`
	TimeIn       *string  `json:"time_in"`
	TimeOut      *string  `json:"time_out"`
	IsLate       bool     `json:"is_late"`
	DelayMinutes int      `json:"delay_minutes"`
	WorkedHours  *float64 `json:"worked_hours"`
	Status       string   `json:"status"`
}
