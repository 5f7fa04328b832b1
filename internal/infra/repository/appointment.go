package repository

import (
	"context"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/infra"
	"waitdesk/internal/infra/db"

	"github.com/google/uuid"
)

type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(dbtx db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: dbtx}
}

const insertAppointmentSQL = `
INSERT INTO appointments (
    id, service_id, date, start_min, end_min, status,
    customer_name, customer_email, customer_phone, notes,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Insert persists a new appointment. The slot-overlap exclusion
// constraint rejects a row whose slot collides with another appointment
// still occupying it; that loss surfaces as a CONFLICT error.
func (r *AppointmentRepository) Insert(ctx context.Context, a *appointment.Appointment) error {
	c := a.Customer()
	_, err := r.db.Exec(ctx, insertAppointmentSQL,
		a.ID(), a.ServiceID(), a.Date(),
		int32(a.Slot().Start.Minutes()), int32(a.Slot().End.Minutes()),
		string(a.Status()),
		c.Name, c.Email, c.Phone, c.Notes,
		a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		if infra.IsExclusionViolation(err) {
			return infra.WrapRepoErr("time slot taken by a concurrent booking", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to insert appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status appointment.Status, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return nil
}
