package device

import "errors"

var (
	ErrEventNotFound = errors.New("device punch event not found")

	// ErrProcessingFailed wraps unexpected failures while applying an event.
	// The event stays processed=false so a reprocess action can retry it.
	ErrProcessingFailed = errors.New("failed to process device punch event")
)
