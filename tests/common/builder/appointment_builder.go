//go:build unit || e2e

package builder

import (
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/schedule"
	reqdto "waitdesk/internal/handler/dto/request"

	"github.com/google/uuid"
)

type AppointmentBuilder struct {
	ServiceID     uuid.UUID
	Date          time.Time
	StartTime     string
	EndTime       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	Now           time.Time
}

func NewAppointmentBuilder() *AppointmentBuilder {
	// A Wednesday, well inside the default booking window
	date := time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	return &AppointmentBuilder{
		ServiceID:     uuid.New(),
		Date:          date,
		StartTime:     "10:00",
		EndTime:       "10:30",
		CustomerName:  "Dana Smith",
		CustomerEmail: "dana@example.com",
		CustomerPhone: "555-0100",
		Notes:         "",
		Now:           date.AddDate(0, 0, -7),
	}
}

func (b *AppointmentBuilder) With(mutate func(*AppointmentBuilder)) *AppointmentBuilder {
	mutate(b)
	return b
}

func (b *AppointmentBuilder) Slot() schedule.Slot {
	slot, err := schedule.ParseSlot(b.StartTime, b.EndTime)
	if err != nil {
		panic(err)
	}
	return slot
}

func (b *AppointmentBuilder) CustomerInfo() (customer.Info, error) {
	return customer.NewInfo(b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Notes)
}

func (b *AppointmentBuilder) BuildDomain() (*appointment.Appointment, error) {
	info, err := b.CustomerInfo()
	if err != nil {
		return nil, err
	}
	return appointment.New(b.ServiceID, b.Date, b.Slot(), info, b.Now), nil
}

func (b *AppointmentBuilder) BuildCreateRequestDTO() reqdto.CreateAppointmentRequest {
	return reqdto.CreateAppointmentRequest{
		ServiceID:     b.ServiceID,
		Date:          b.Date.Format("2006-01-02"),
		StartTime:     b.StartTime,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
	}
}
