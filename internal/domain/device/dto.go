package device

import (
	"encoding/json"

	"github.com/presencehr/attendance-backend-go/internal/pkg/validator"
)

// ReceivePunchRequest is the payload delivered by the biometric device feed:
//
//	{
//	  "biometric_id": "12345",
//	  "event_type": "CLOCK_IN",
//	  "timestamp": "2024-01-15T08:30:00Z",
//	  "device_id": "DEVICE_001",
//	  "raw_payload": {...}
//	}
type ReceivePunchRequest struct {
	BiometricID string          `json:"biometric_id"`
	EventType   string          `json:"event_type"`
	Timestamp   string          `json:"timestamp"`
	DeviceID    string          `json:"device_id"`
	RawPayload  json.RawMessage `json:"raw_payload"`
}

func (r *ReceivePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BiometricID) {
		errs = append(errs, validator.ValidationError{
			Field:   "biometric_id",
			Message: "biometric_id is required",
		})
	}

	if !validator.IsInSlice(r.EventType, ValidEventTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_type",
			Message: "event_type must be one of CLOCK_IN, CLOCK_OUT, BREAK_START, BREAK_RESUME",
		})
	}

	if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be an ISO8601 datetime",
		})
	}

	if validator.IsEmpty(r.DeviceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_id",
			Message: "device_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventFilter struct {
	BiometricID *string
	DeviceID    *string
	Processed   *bool
	Unresolved  *bool // processed events whose biometric id matched nobody
	Page        int
	Limit       int
}

type PunchEventResponse struct {
	ID           string          `json:"id"`
	BiometricID  string          `json:"biometric_id"`
	EventType    string          `json:"event_type"`
	Timestamp    string          `json:"timestamp"`
	DeviceID     string          `json:"device_id"`
	RawPayload   json.RawMessage `json:"raw_payload,omitempty"`
	Processed    bool            `json:"processed"`
	EmployeeID   *string         `json:"employee_id"`
	EmployeeName *string         `json:"employee_name"`
	CreatedAt    string          `json:"created_at"`
}

type ReceivePunchResponse struct {
	EventID      string  `json:"event_id"`
	Processed    bool    `json:"processed"`
	EmployeeID   *string `json:"employee_id"`
	EmployeeName *string `json:"employee_name"`
}

type ListEventsResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Events     []PunchEventResponse `json:"events"`
}

type ReprocessResponse struct {
	Attempted int `json:"attempted"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
