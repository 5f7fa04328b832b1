package queue

import (
	"errors"
	"time"

	"waitdesk/internal/domain/customer"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid queue status transition")
	ErrInvalidPosition   = errors.New("queue position must be positive")
	ErrInvalidPriority   = errors.New("unknown queue priority")
)

// Entry is a walk-in customer's place in a service queue. Positions are
// assigned once at join time and never renumbered; departed entries are
// excluded from active queries instead.
type Entry struct {
	id          uuid.UUID
	serviceID   uuid.UUID
	position    int32
	status      Status
	priority    Priority
	customer    customer.Info
	joinedAt    time.Time
	calledAt    *time.Time
	completedAt *time.Time
}

func NewEntry(serviceID uuid.UUID, position int32, priority Priority, info customer.Info, now time.Time) (*Entry, error) {
	if position < 1 {
		return nil, ErrInvalidPosition
	}
	if !priority.IsValid() {
		priority = PriorityNormal
	}
	return &Entry{
		id:        uuid.New(),
		serviceID: serviceID,
		position:  position,
		status:    StatusWaiting,
		priority:  priority,
		customer:  info,
		joinedAt:  now,
	}, nil
}

func Reconstruct(
	id, serviceID uuid.UUID,
	position int32,
	status Status,
	priority Priority,
	info customer.Info,
	joinedAt time.Time,
	calledAt, completedAt *time.Time,
) *Entry {
	return &Entry{
		id:          id,
		serviceID:   serviceID,
		position:    position,
		status:      status,
		priority:    priority,
		customer:    info,
		joinedAt:    joinedAt,
		calledAt:    calledAt,
		completedAt: completedAt,
	}
}

func (e *Entry) ID() uuid.UUID           { return e.id }
func (e *Entry) ServiceID() uuid.UUID    { return e.serviceID }
func (e *Entry) Position() int32         { return e.position }
func (e *Entry) Status() Status          { return e.status }
func (e *Entry) Priority() Priority      { return e.priority }
func (e *Entry) Customer() customer.Info { return e.customer }
func (e *Entry) JoinedAt() time.Time     { return e.joinedAt }
func (e *Entry) CalledAt() *time.Time    { return e.calledAt }
func (e *Entry) CompletedAt() *time.Time { return e.completedAt }

// TransitionTo applies the queue status machine, stamping calledAt and
// completedAt as the entry crosses CALLED and COMPLETED. Cancelling an
// already-cancelled entry is an idempotent no-op.
func (e *Entry) TransitionTo(target Status, now time.Time) (changed bool, err error) {
	if target == StatusCancelled && e.status == StatusCancelled {
		return false, nil
	}
	if !e.status.CanTransitionTo(target) {
		return false, ErrInvalidTransition
	}
	e.status = target
	switch target {
	case StatusCalled:
		t := now
		e.calledAt = &t
	case StatusCompleted:
		t := now
		e.completedAt = &t
	}
	return true, nil
}
