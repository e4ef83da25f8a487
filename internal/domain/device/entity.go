package device

import (
	"time"
)

type EventType string

const (
	EventClockIn     EventType = "CLOCK_IN"
	EventClockOut    EventType = "CLOCK_OUT"
	EventBreakStart  EventType = "BREAK_START"
	EventBreakResume EventType = "BREAK_RESUME"
)

// ValidEventTypes lists the accepted event type values from devices.
var ValidEventTypes = []string{
	string(EventClockIn), string(EventClockOut),
	string(EventBreakStart), string(EventBreakResume),
}

// PunchEvent is the immutable ingestion record of a raw device signal. It is
// retained for audit even when the biometric identifier resolves to nobody;
// the only fields ever mutated are Processed and the resolved EmployeeID.
type PunchEvent struct {
	ID          string
	BiometricID string
	EventType   EventType
	Timestamp   time.Time
	DeviceID    string
	RawPayload  []byte // original device payload, stored verbatim as JSON
	Processed   bool
	EmployeeID  *string
	CreatedAt   time.Time

	// DTO
	EmployeeName *string
}
