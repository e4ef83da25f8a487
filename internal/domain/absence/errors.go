package absence

import "errors"

var (
	ErrAbsenceNotFound  = errors.New("absence record not found")
	ErrDuplicateAbsence = errors.New("an absence record already exists for this employee and date")
	ErrNotRecordOwner   = errors.New("this absence record belongs to another employee")
	ErrSweepCurrentDay  = errors.New("absences can only be swept for past dates")
)
