package lateness

import "errors"

var (
	ErrLatenessNotFound = errors.New("lateness record not found")
	ErrNotRecordOwner   = errors.New("this lateness record belongs to another employee")
)
