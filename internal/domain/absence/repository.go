package absence

import (
	"context"
	"time"
)

// AbsenceRepository defines data access for absence records. The
// (employee_id, date) pair is unique at the storage layer.
type AbsenceRepository interface {
	// Create inserts a new PENDING absence; returns ErrDuplicateAbsence when
	// the unique constraint rejects it.
	Create(ctx context.Context, a Absence) (Absence, error)

	// GetByID retrieves an absence record by ID
	GetByID(ctx context.Context, id string) (Absence, error)

	// ExistsForDate reports whether the employee already has an absence on
	// the date. Used by the sweeper.
	ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AbsenceFilter) ([]Absence, int64, error)

	// UpdateJustification stores the text/file and resets status to PENDING
	UpdateJustification(ctx context.Context, id string, text string, fileURL *string, justifiedAt time.Time) error

	// UpdateValidation stamps the decision and the validator
	UpdateValidation(ctx context.Context, id string, status string, validatedBy string, validatedAt time.Time) error
}

type AbsenceService interface {
	Get(ctx context.Context, id string) (AbsenceResponse, error)
	List(ctx context.Context, filter AbsenceFilter) (ListAbsenceResponse, error)
	Justify(ctx context.Context, req JustifyRequest) (AbsenceResponse, error)
	ValidateJustification(ctx context.Context, req ValidateRequest) (AbsenceResponse, error)

	// SweepDate back-fills PENDING absences for every active employee with
	// neither an attendance nor an absence record on the date. Idempotent.
	SweepDate(ctx context.Context, date time.Time) (int, error)
}
