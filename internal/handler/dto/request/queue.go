package request

import (
	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/queue"
	"waitdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type JoinQueueRequest struct {
	ServiceID     uuid.UUID `json:"service_id" binding:"required"`
	Priority      string    `json:"priority,omitempty"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerEmail string    `json:"customer_email" binding:"required"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

func (r JoinQueueRequest) ToInput() (commands.JoinQueueInput, error) {
	priority := queue.PriorityNormal
	if r.Priority != "" {
		priority = queue.Priority(r.Priority)
		if !priority.IsValid() {
			return commands.JoinQueueInput{}, queue.ErrInvalidPriority
		}
	}
	info, err := customer.NewInfo(r.CustomerName, r.CustomerEmail, r.CustomerPhone, r.Notes)
	if err != nil {
		return commands.JoinQueueInput{}, err
	}
	return commands.JoinQueueInput{
		ServiceID: r.ServiceID,
		Priority:  priority,
		Customer:  info,
	}, nil
}
