package attendance

import (
	"time"
)

// AttendanceStatus is derived from which punch times are present; it is
// never stored.
type AttendanceStatus string

const (
	StatusAbsent     AttendanceStatus = "ABSENT"      // no time_in recorded
	StatusInProgress AttendanceStatus = "IN_PROGRESS" // clocked in, not yet out
	StatusComplete   AttendanceStatus = "COMPLETE"    // both punches recorded
)

// Attendance is the single record per (employee, date). Created on the first
// punch of the day and mutated by later punches of the same day.
type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	TimeIn       *time.Time
	TimeOut      *time.Time
	IsLate       bool
	DelayMinutes int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	EmployeeName *string
}

// Status derives the display state of the record. "Not yet clocked out" is a
// distinct state, not zero worked hours.
func (a *Attendance) Status() AttendanceStatus {
	switch {
	case a.TimeIn == nil:
		return StatusAbsent
	case a.TimeOut == nil:
		return StatusInProgress
	default:
		return StatusComplete
	}
}

// WorkedHours applies the cutoff clipping rule to the record's punches.
// Returns nil while the day is still open.
func (a *Attendance) WorkedHours(policy WorkdayPolicy) *float64 {
	if a.TimeIn == nil || a.TimeOut == nil {
		return nil
	}
	hours := ComputeWorkedHours(a.Date, *a.TimeIn, *a.TimeOut, policy.Cutoff)
	return &hours
}
