package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidPunchType   = errors.New("punch type must be 'in' or 'out'")
)
