package readstore

import (
	"context"
	"time"

	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/infra"
	"waitdesk/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AvailabilityReadStore feeds the day-grid computation: the service
// definition plus the slots currently blocked by appointments and locks.
type AvailabilityReadStore struct {
	*ServiceReadStore
	db db.DBTX
}

func NewAvailabilityReadStore(dbtx db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{ServiceReadStore: NewServiceReadStore(dbtx), db: dbtx}
}

func (r *AvailabilityReadStore) OccupiedSlots(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]schedule.Slot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT start_min, end_min FROM appointments
		 WHERE service_id = $1 AND date = $2
		   AND status NOT IN ('CANCELLED', 'NO_SHOW')`,
		serviceID, date,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read occupied slots", err)
	}
	return collectSlots(rows)
}

func (r *AvailabilityReadStore) LockedSlots(ctx context.Context, serviceID uuid.UUID, date time.Time, now time.Time) ([]schedule.Slot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT start_min, end_min FROM slot_locks
		 WHERE service_id = $1 AND date = $2 AND expires_at > $3`,
		serviceID, date, now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read locked slots", err)
	}
	return collectSlots(rows)
}

func collectSlots(rows pgx.Rows) ([]schedule.Slot, error) {
	defer rows.Close()
	slots := []schedule.Slot{}
	for rows.Next() {
		var startMin, endMin int32
		if err := rows.Scan(&startMin, &endMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		slot, err := schedule.NewSlot(schedule.TimeOfDay(startMin), schedule.TimeOfDay(endMin))
		if err != nil {
			return nil, infra.WrapRepoErr("malformed slot row", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read slot rows", err)
	}
	return slots, nil
}
