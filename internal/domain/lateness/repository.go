package lateness

import (
	"context"
	"time"
)

// LatenessRepository defines data access for lateness records. Uniqueness of
// (employee_id, date) is enforced at the storage layer; GetOrCreate keys on
// it so replayed clock-in events never produce duplicates.
type LatenessRepository interface {
	// GetOrCreate inserts the record unless one already exists for
	// (l.EmployeeID, l.Date), then returns the stored row.
	GetOrCreate(ctx context.Context, l Lateness) (Lateness, error)

	// GetByID retrieves a lateness record by ID
	GetByID(ctx context.Context, id string) (Lateness, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter LatenessFilter) ([]Lateness, int64, error)

	// UpdateJustification stores the text/file and resets status to PENDING
	UpdateJustification(ctx context.Context, id string, text string, fileURL *string, justifiedAt time.Time) error

	// UpdateValidation stamps the decision and the validator
	UpdateValidation(ctx context.Context, id string, status string, validatedBy string, validatedAt time.Time) error
}

type LatenessService interface {
	Get(ctx context.Context, id string) (LatenessResponse, error)
	List(ctx context.Context, filter LatenessFilter) (ListLatenessResponse, error)
	Justify(ctx context.Context, req JustifyRequest) (LatenessResponse, error)
	ValidateJustification(ctx context.Context, req ValidateRequest) (LatenessResponse, error)
}
