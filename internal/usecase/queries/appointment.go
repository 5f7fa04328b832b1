package queries

import (
	"context"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/schedule"

	"github.com/google/uuid"
)

type AppointmentView struct {
	ID            uuid.UUID
	ServiceID     uuid.UUID
	ServiceName   string
	Date          time.Time
	Slot          schedule.Slot
	Status        appointment.Status
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AppointmentReadStore interface {
	AppointmentByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	AppointmentsByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]AppointmentView, error)
	AppointmentsByCustomer(ctx context.Context, email string) ([]AppointmentView, error)
}

type AppointmentQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListForDay(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]AppointmentView, error)
	ListForCustomer(ctx context.Context, email string) ([]AppointmentView, error)
}

type appointmentService struct {
	store AppointmentReadStore
}

func NewAppointmentService(store AppointmentReadStore) AppointmentQueries {
	return &appointmentService{store: store}
}

func (s *appointmentService) Get(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	return s.store.AppointmentByID(ctx, id)
}

func (s *appointmentService) ListForDay(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]AppointmentView, error) {
	return s.store.AppointmentsByServiceAndDate(ctx, serviceID, schedule.DateOf(date))
}

func (s *appointmentService) ListForCustomer(ctx context.Context, email string) ([]AppointmentView, error) {
	return s.store.AppointmentsByCustomer(ctx, email)
}
