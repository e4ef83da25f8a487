// Package justification holds the review state machine shared by lateness
// and absence records: an employee submits an explanation, HR approves or
// rejects it. Re-submitting always resets the record to pending review.
package justification

import "errors"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var (
	ErrNoJustification  = errors.New("no justification has been submitted")
	ErrInvalidStatus    = errors.New("status must be APPROVED or REJECTED")
	ErrAlreadyValidated = errors.New("justification has already been validated")
)

// ValidDecisions lists the statuses a validator may set.
var ValidDecisions = []string{string(StatusApproved), string(StatusRejected)}

// CanValidate reports whether a record in the given state, with or without a
// submitted justification text, may be approved or rejected.
func CanValidate(current Status, hasJustification bool) error {
	if !hasJustification {
		return ErrNoJustification
	}
	if current != StatusPending {
		return ErrAlreadyValidated
	}
	return nil
}

// ParseDecision converts a request value into a terminal status.
func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
