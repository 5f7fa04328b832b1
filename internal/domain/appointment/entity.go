package appointment

import (
	"errors"
	"time"

	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition is the domain-invariant violation for any status
	// move outside the transition table.
	ErrInvalidTransition = errors.New("invalid appointment status transition")
)

// Appointment is created only by the booking orchestrator and never
// hard-deleted; cancellation is a status transition.
type Appointment struct {
	id        uuid.UUID
	serviceID uuid.UUID
	date      time.Time
	slot      schedule.Slot
	status    Status
	customer  customer.Info
	createdAt time.Time
	updatedAt time.Time
}

func New(serviceID uuid.UUID, date time.Time, slot schedule.Slot, info customer.Info, now time.Time) *Appointment {
	return &Appointment{
		id:        uuid.New(),
		serviceID: serviceID,
		date:      schedule.DateOf(date),
		slot:      slot,
		status:    StatusScheduled,
		customer:  info,
		createdAt: now,
		updatedAt: now,
	}
}

func Reconstruct(
	id, serviceID uuid.UUID,
	date time.Time,
	slot schedule.Slot,
	status Status,
	info customer.Info,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:        id,
		serviceID: serviceID,
		date:      schedule.DateOf(date),
		slot:      slot,
		status:    status,
		customer:  info,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (a *Appointment) ID() uuid.UUID           { return a.id }
func (a *Appointment) ServiceID() uuid.UUID    { return a.serviceID }
func (a *Appointment) Date() time.Time         { return a.date }
func (a *Appointment) Slot() schedule.Slot     { return a.slot }
func (a *Appointment) Status() Status          { return a.status }
func (a *Appointment) Customer() customer.Info { return a.customer }
func (a *Appointment) CreatedAt() time.Time    { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time    { return a.updatedAt }

// TransitionTo applies the status machine. Cancelling an already-cancelled
// appointment is an idempotent no-op (changed=false); every other move
// outside the table fails with ErrInvalidTransition.
func (a *Appointment) TransitionTo(target Status, now time.Time) (changed bool, err error) {
	if target == StatusCancelled && a.status == StatusCancelled {
		return false, nil
	}
	if !a.status.CanTransitionTo(target) {
		return false, ErrInvalidTransition
	}
	a.status = target
	a.updatedAt = now
	return true, nil
}
