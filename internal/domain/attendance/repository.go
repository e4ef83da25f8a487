package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. The
// (employee_id, date) pair is unique at the storage layer; GetOrCreate must
// rely on that constraint so two near-simultaneous punches cannot produce
// duplicate rows.
type AttendanceRepository interface {
	// GetOrCreate fetches the record for (employeeID, date), inserting an
	// empty one first if none exists. Runs as a single upsert.
	GetOrCreate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// GetByID retrieves an attendance record by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update persists punch times and derived lateness fields
	Update(ctx context.Context, att Attendance) error

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ExistsForDate reports whether the employee has any record on the date.
	// Used by the absence sweeper.
	ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// ListForPeriod retrieves all records in [from, to] ordered by date.
	// Used by report export.
	ListForPeriod(ctx context.Context, from, to time.Time) ([]Attendance, error)
}

type AttendanceService interface {
	ManualPunch(ctx context.Context, req ManualPunchRequest) (AttendanceResponse, error)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Statistics(ctx context.Context, req StatisticsRequest) (StatisticsResponse, error)
}
