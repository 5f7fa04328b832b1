package shared

import (
	"context"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/queue"
	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/rules"

	"github.com/google/uuid"
)

// UnitOfWork supplies the transactional boundary for admission writes.
// Within guarantees atomic commit/rollback of everything fn does; the
// store-level retry for serialization failures lives behind it.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: non-transactional reads for rule evaluation and lookups
	Reads() CommandReads
}

type Tx interface {
	Appointments() AppointmentRepository
	QueueEntries() QueueRepository
	SlotLocks() SlotLockRepository
	Reads() CommandReads
}

// CommandReads is the read-only collaborator surface for command
// validation. It also satisfies the rule families' read interfaces so a
// fresh rule engine can be built straight on top of it.
type CommandReads interface {
	rules.AppointmentReads
	rules.QueueReads

	ServiceByID(ctx context.Context, id uuid.UUID) (*service.Service, error)
	AppointmentByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	QueueEntryByID(ctx context.Context, id uuid.UUID) (*queue.Entry, error)
}

type AppointmentRepository interface {
	Insert(ctx context.Context, a *appointment.Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status appointment.Status, updatedAt time.Time) error
}

type QueueRepository interface {
	Insert(ctx context.Context, e *queue.Entry) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status queue.Status, calledAt, completedAt *time.Time) error
	// MaxHeldPosition: highest position among WAITING/CALLED entries, 0 when
	// the queue is empty. Must run inside the same transaction as the insert.
	MaxHeldPosition(ctx context.Context, serviceID uuid.UUID) (int32, error)
	// NextWaiting: the WAITING entry to call next, HIGH priority before
	// NORMAL and lowest position within each band. Nil when nobody waits.
	NextWaiting(ctx context.Context, serviceID uuid.UUID) (*queue.Entry, error)
}

type SlotLockRepository interface {
	ExistsOverlapping(ctx context.Context, serviceID uuid.UUID, date time.Time, slot schedule.Slot, now time.Time) (bool, error)
	Insert(ctx context.Context, lock appointment.SlotLock) error
	DeleteExpired(ctx context.Context, serviceID uuid.UUID, date time.Time, now time.Time) error
	// DeleteByAppointment releases the lock when its appointment stops
	// occupying the slot, so cancelled slots reopen without waiting for expiry.
	DeleteByAppointment(ctx context.Context, appointmentID uuid.UUID) error
}
