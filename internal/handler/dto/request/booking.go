package request

import (
	"time"

	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	ServiceID     uuid.UUID `json:"service_id" binding:"required"`
	Date          string    `json:"date" binding:"required"`
	StartTime     string    `json:"start_time" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email" binding:"required"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

func (r CreateAppointmentRequest) ToInput() (commands.BookAppointmentInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return commands.BookAppointmentInput{}, err
	}
	start, err := schedule.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return commands.BookAppointmentInput{}, err
	}
	info, err := customer.NewInfo(r.CustomerName, r.CustomerEmail, r.CustomerPhone, r.Notes)
	if err != nil {
		return commands.BookAppointmentInput{}, err
	}
	return commands.BookAppointmentInput{
		ServiceID: r.ServiceID,
		Date:      date,
		Start:     start,
		Customer:  info,
	}, nil
}
