package readstore

import (
	"context"
	"errors"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/infra"
	"waitdesk/internal/infra/db"
	"waitdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AppointmentReadStore serves the command side: rule-evaluation counts
// and entity loads for status transitions.
type AppointmentReadStore struct {
	db db.DBTX
}

func NewAppointmentReadStore(dbtx db.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{db: dbtx}
}

const appointmentByIDSQL = `
SELECT id, service_id, date, start_min, end_min, status,
       customer_name, customer_email, customer_phone, notes,
       created_at, updated_at
FROM appointments
WHERE id = $1`

func (r *AppointmentReadStore) AppointmentByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var (
		apptID, serviceID  uuid.UUID
		date               time.Time
		startMin, endMin   int32
		status             string
		name, email, phone string
		notes              string
		createdAt          time.Time
		updatedAt          time.Time
	)
	err := r.db.QueryRow(ctx, appointmentByIDSQL, id).Scan(
		&apptID, &serviceID, &date, &startMin, &endMin, &status,
		&name, &email, &phone, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment by id", err)
	}

	slot, err := schedule.NewSlot(schedule.TimeOfDay(startMin), schedule.TimeOfDay(endMin))
	if err != nil {
		return nil, infra.WrapRepoErr("malformed appointment slot", err)
	}
	info := customer.Info{Name: name, Email: email, Phone: phone, Notes: notes}
	return appointment.Reconstruct(apptID, serviceID, date, slot, appointment.Status(status), info, createdAt, updatedAt), nil
}

func (r *AppointmentReadStore) CountOccupying(ctx context.Context, serviceID uuid.UUID, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE service_id = $1 AND date = $2
		   AND status NOT IN ('CANCELLED', 'NO_SHOW')`,
		serviceID, date,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count appointments for day", err)
	}
	return count, nil
}

func (r *AppointmentReadStore) CountOpenByCustomer(ctx context.Context, email string, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE customer_email = $1 AND date = $2
		   AND status IN ('SCHEDULED', 'CONFIRMED')`,
		email, date,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count customer appointments", err)
	}
	return count, nil
}

func (r *AppointmentReadStore) ExistsOverlapping(ctx context.Context, serviceID uuid.UUID, date time.Time, slot schedule.Slot) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM appointments
		    WHERE service_id = $1 AND date = $2
		      AND status NOT IN ('CANCELLED', 'NO_SHOW')
		      AND start_min < $4 AND $3 < end_min
		)`,
		serviceID, date, int32(slot.Start.Minutes()), int32(slot.End.Minutes()),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check overlapping appointments", err)
	}
	return exists, nil
}

// AppointmentViewStore serves the query side with service names joined
// in.
type AppointmentViewStore struct {
	db db.DBTX
}

func NewAppointmentViewStore(dbtx db.DBTX) *AppointmentViewStore {
	return &AppointmentViewStore{db: dbtx}
}

const appointmentViewSQL = `
SELECT a.id, a.service_id, s.name, a.date, a.start_min, a.end_min, a.status,
       a.customer_name, a.customer_email, a.customer_phone, a.notes,
       a.created_at, a.updated_at
FROM appointments a
JOIN services s ON s.id = a.service_id`

func (r *AppointmentViewStore) AppointmentByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	row := r.db.QueryRow(ctx, appointmentViewSQL+` WHERE a.id = $1`, id)
	view, err := scanAppointmentView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment view", err)
	}
	return view, nil
}

func (r *AppointmentViewStore) AppointmentsByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]queries.AppointmentView, error) {
	rows, err := r.db.Query(ctx,
		appointmentViewSQL+` WHERE a.service_id = $1 AND a.date = $2 ORDER BY a.start_min`,
		serviceID, date,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments for day", err)
	}
	return collectAppointmentViews(rows)
}

func (r *AppointmentViewStore) AppointmentsByCustomer(ctx context.Context, email string) ([]queries.AppointmentView, error) {
	rows, err := r.db.Query(ctx,
		appointmentViewSQL+` WHERE a.customer_email = $1 ORDER BY a.date DESC, a.start_min`,
		email,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list customer appointments", err)
	}
	return collectAppointmentViews(rows)
}

func collectAppointmentViews(rows pgx.Rows) ([]queries.AppointmentView, error) {
	defer rows.Close()
	result := []queries.AppointmentView{}
	for rows.Next() {
		view, err := scanAppointmentView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment view", err)
		}
		result = append(result, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read appointment views", err)
	}
	return result, nil
}

func scanAppointmentView(row pgx.Row) (*queries.AppointmentView, error) {
	var (
		v                queries.AppointmentView
		startMin, endMin int32
		status           string
	)
	if err := row.Scan(&v.ID, &v.ServiceID, &v.ServiceName, &v.Date, &startMin, &endMin, &status,
		&v.CustomerName, &v.CustomerEmail, &v.CustomerPhone, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	slot, err := schedule.NewSlot(schedule.TimeOfDay(startMin), schedule.TimeOfDay(endMin))
	if err != nil {
		return nil, err
	}
	v.Slot = slot
	v.Status = appointment.Status(status)
	return &v, nil
}
