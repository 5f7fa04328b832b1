package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Lookup errors
	ErrServiceNotFound     = errors.New("service not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrQueueEntryNotFound  = errors.New("queue entry not found")

	// Admission errors
	ErrSlotLocked        = errors.New("time slot is locked by a pending booking")
	ErrAdmissionConflict = errors.New("admission conflict")

	// State machine errors
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("unknown status")

	// Queue errors
	ErrQueueEmpty = errors.New("no waiting queue entries")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
