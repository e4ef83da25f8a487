package absence

import (
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
)

// Absence marks an active employee with no punch on a past working date. One
// record per (employee, date); created PENDING by the sweeper and carried
// through the same justification lifecycle as a lateness.
type Absence struct {
	ID         string
	EmployeeID string
	Date       time.Time

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
