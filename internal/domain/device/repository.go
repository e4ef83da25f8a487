package device

import (
	"context"
)

// EventRepository defines data access for device punch events. Events are
// append-only; MarkProcessed is the only mutation.
type EventRepository interface {
	// Create stores a raw event with processed=false
	Create(ctx context.Context, e PunchEvent) (PunchEvent, error)

	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id string) (PunchEvent, error)

	// List retrieves events with filters and pagination
	List(ctx context.Context, filter EventFilter) ([]PunchEvent, int64, error)

	// ListUnprocessed retrieves events still awaiting processing, oldest first
	ListUnprocessed(ctx context.Context, limit int) ([]PunchEvent, error)

	// MarkProcessed sets processed=true and records the resolved employee,
	// nil when the biometric id matched nobody
	MarkProcessed(ctx context.Context, id string, employeeID *string) error
}

type DeviceService interface {
	// ReceivePunch stores the raw event and immediately attempts to apply it.
	ReceivePunch(ctx context.Context, req ReceivePunchRequest) (ReceivePunchResponse, error)

	// ReprocessPending retries every unprocessed event.
	ReprocessPending(ctx context.Context) (ReprocessResponse, error)

	Get(ctx context.Context, id string) (PunchEventResponse, error)
	List(ctx context.Context, filter EventFilter) (ListEventsResponse, error)
}
