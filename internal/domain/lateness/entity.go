package lateness

import (
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
)

// Lateness is created at most once per (employee, date), when a clock-in
// lands after the expected start. Expected/actual times and the delay are a
// snapshot taken at creation; they are not kept in sync with later edits to
// the attendance record.
type Lateness struct {
	ID           string
	EmployeeID   string
	AttendanceID string
	Date         time.Time
	ExpectedTime time.Time
	ActualTime   time.Time
	DelayMinutes int

	Justification        *string
	JustificationFileURL *string
	Status               justification.Status
	JustifiedAt          *time.Time
	ValidatedBy          *string
	ValidatedAt          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName  *string
	ValidatorName *string
}
