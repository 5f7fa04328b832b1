//go:build unit || e2e

package builder

import (
	"time"

	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/queue"
	reqdto "waitdesk/internal/handler/dto/request"

	"github.com/google/uuid"
)

type QueueEntryBuilder struct {
	ServiceID     uuid.UUID
	Position      int32
	Priority      queue.Priority
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	Now           time.Time
}

func NewQueueEntryBuilder() *QueueEntryBuilder {
	return &QueueEntryBuilder{
		ServiceID:     uuid.New(),
		Position:      1,
		Priority:      queue.PriorityNormal,
		CustomerName:  "Walk-in Customer",
		CustomerEmail: "walkin@example.com",
		CustomerPhone: "555-0200",
		Now:           time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC),
	}
}

func (b *QueueEntryBuilder) With(mutate func(*QueueEntryBuilder)) *QueueEntryBuilder {
	mutate(b)
	return b
}

func (b *QueueEntryBuilder) CustomerInfo() (customer.Info, error) {
	return customer.NewInfo(b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Notes)
}

func (b *QueueEntryBuilder) BuildDomain() (*queue.Entry, error) {
	info, err := b.CustomerInfo()
	if err != nil {
		return nil, err
	}
	return queue.NewEntry(b.ServiceID, b.Position, b.Priority, info, b.Now)
}

func (b *QueueEntryBuilder) BuildJoinRequestDTO() reqdto.JoinQueueRequest {
	return reqdto.JoinQueueRequest{
		ServiceID:     b.ServiceID,
		Priority:      string(b.Priority),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
	}
}
