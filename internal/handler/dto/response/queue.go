package response

import (
	"time"

	"waitdesk/internal/usecase/queries"

	"github.com/google/uuid"
)

type QueueEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	ServiceID     uuid.UUID  `json:"service_id"`
	Position      int32      `json:"position"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	JoinedAt      time.Time  `json:"joined_at"`
	CalledAt      *time.Time `json:"called_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Rank               int32      `json:"rank,omitempty"`
	EstimatedWaitMin   int32      `json:"estimated_wait_min,omitempty"`
	EstimatedServiceAt *time.Time `json:"estimated_service_at,omitempty"`
}

func FromQueueEntryView(v *queries.QueueEntryView) QueueEntryResponse {
	resp := QueueEntryResponse{
		ID:               v.ID,
		ServiceID:        v.ServiceID,
		Position:         v.Position,
		Status:           string(v.Status),
		Priority:         string(v.Priority),
		CustomerName:     v.CustomerName,
		CustomerEmail:    v.CustomerEmail,
		CustomerPhone:    v.CustomerPhone,
		JoinedAt:         v.JoinedAt,
		CalledAt:         v.CalledAt,
		CompletedAt:      v.CompletedAt,
		Rank:             v.Rank,
		EstimatedWaitMin: v.EstimatedWaitMin,
	}
	if v.Rank > 0 {
		at := v.EstimatedServiceAt
		resp.EstimatedServiceAt = &at
	}
	return resp
}

func FromQueueEntryViews(views []queries.QueueEntryView) []QueueEntryResponse {
	result := make([]QueueEntryResponse, len(views))
	for i := range views {
		result[i] = FromQueueEntryView(&views[i])
	}
	return result
}
