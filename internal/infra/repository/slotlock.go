package repository

import (
	"context"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/infra"
	"waitdesk/internal/infra/db"

	"github.com/google/uuid"
)

// SlotLockRepository manages short-lived reservation locks. Expiry is a
// predicate on expires_at, not a background job; writers sweep stale rows
// opportunistically inside the booking transaction.
type SlotLockRepository struct {
	db db.DBTX
}

func NewSlotLockRepository(dbtx db.DBTX) *SlotLockRepository {
	return &SlotLockRepository{db: dbtx}
}

func (r *SlotLockRepository) ExistsOverlapping(ctx context.Context, serviceID uuid.UUID, date time.Time, slot schedule.Slot, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM slot_locks
		    WHERE service_id = $1 AND date = $2
		      AND expires_at > $3
		      AND start_min < $5 AND $4 < end_min
		)`,
		serviceID, date, now, int32(slot.Start.Minutes()), int32(slot.End.Minutes()),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check slot locks", err)
	}
	return exists, nil
}

func (r *SlotLockRepository) Insert(ctx context.Context, lock appointment.SlotLock) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO slot_locks (service_id, date, start_min, end_min, appointment_id, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		lock.ServiceID, lock.Date,
		int32(lock.Slot.Start.Minutes()), int32(lock.Slot.End.Minutes()),
		lock.AppointmentID, lock.ExpiresAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert slot lock", err)
	}
	return nil
}

func (r *SlotLockRepository) DeleteByAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM slot_locks WHERE appointment_id = $1`,
		appointmentID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release slot lock", err)
	}
	return nil
}

func (r *SlotLockRepository) DeleteExpired(ctx context.Context, serviceID uuid.UUID, date time.Time, now time.Time) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM slot_locks WHERE service_id = $1 AND date = $2 AND expires_at <= $3`,
		serviceID, date, now,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to sweep expired slot locks", err)
	}
	return nil
}
