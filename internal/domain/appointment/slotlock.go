package appointment

import (
	"time"

	"waitdesk/internal/domain/schedule"

	"github.com/google/uuid"
)

// SlotLock is the short-lived reservation record that closes the window
// between rule evaluation and appointment insert. It is ephemeral: rows
// past ExpiresAt are ignored by every query and swept opportunistically.
type SlotLock struct {
	ServiceID     uuid.UUID
	Date          time.Time
	Slot          schedule.Slot
	AppointmentID uuid.UUID
	ExpiresAt     time.Time
}

func NewSlotLock(serviceID uuid.UUID, date time.Time, slot schedule.Slot, appointmentID uuid.UUID, now time.Time, ttl time.Duration) SlotLock {
	return SlotLock{
		ServiceID:     serviceID,
		Date:          schedule.DateOf(date),
		Slot:          slot,
		AppointmentID: appointmentID,
		ExpiresAt:     now.Add(ttl),
	}
}

func (l SlotLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
