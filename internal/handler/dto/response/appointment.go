package response

import (
	"time"

	"waitdesk/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	ServiceID     uuid.UUID `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromAppointmentView(v *queries.AppointmentView) AppointmentResponse {
	return AppointmentResponse{
		ID:            v.ID,
		ServiceID:     v.ServiceID,
		ServiceName:   v.ServiceName,
		Date:          v.Date.Format("2006-01-02"),
		StartTime:     v.Slot.Start.String(),
		EndTime:       v.Slot.End.String(),
		Status:        string(v.Status),
		CustomerName:  v.CustomerName,
		CustomerEmail: v.CustomerEmail,
		CustomerPhone: v.CustomerPhone,
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func FromAppointmentViews(views []queries.AppointmentView) []AppointmentResponse {
	result := make([]AppointmentResponse, len(views))
	for i := range views {
		result[i] = FromAppointmentView(&views[i])
	}
	return result
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
