package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/presencehr/attendance-backend-go/internal/domain/absence"
	"github.com/presencehr/attendance-backend-go/internal/domain/attendance"
	"github.com/presencehr/attendance-backend-go/internal/domain/auth"
	"github.com/presencehr/attendance-backend-go/internal/domain/device"
	"github.com/presencehr/attendance-backend-go/internal/domain/justification"
	"github.com/presencehr/attendance-backend-go/internal/domain/lateness"
	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/presencehr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountArchived):
		Forbidden(w, "Account has been archived")

	// Employee directory errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already in use")
	case errors.Is(err, user.ErrBiometricIDExists):
		Conflict(w, "Biometric id already assigned")
	case errors.Is(err, user.ErrUserArchived):
		Conflict(w, "Employee is archived")

	// Attendance errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidPunchType):
		BadRequest(w, "Punch type must be 'in' or 'out'", nil)

	// Lateness errors
	case errors.Is(err, lateness.ErrLatenessNotFound):
		NotFound(w, "Lateness record not found")
	case errors.Is(err, lateness.ErrNotRecordOwner):
		Forbidden(w, err.Error())

	// Absence errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence record not found")
	case errors.Is(err, absence.ErrDuplicateAbsence):
		Conflict(w, err.Error())
	case errors.Is(err, absence.ErrNotRecordOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, absence.ErrSweepCurrentDay):
		BadRequest(w, err.Error(), nil)

	// Justification workflow errors
	case errors.Is(err, justification.ErrNoJustification):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, justification.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, justification.ErrAlreadyValidated):
		Conflict(w, err.Error())

	// Device event errors
	case errors.Is(err, device.ErrEventNotFound):
		NotFound(w, "Punch event not found")
	case errors.Is(err, device.ErrProcessingFailed):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
