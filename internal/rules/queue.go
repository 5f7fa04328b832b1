package rules

import (
	"context"
	"fmt"

	"waitdesk/internal/domain/queue"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/pkg/clock"

	"github.com/google/uuid"
)

// QueueJoinContext is the closed context for the queue rule family.
type QueueJoinContext struct {
	Service       *service.Service
	CustomerEmail string
	Priority      queue.Priority
}

func (c QueueJoinContext) service() *service.Service { return c.Service }

// QueueReads is the read-only collaborator surface the queue rules need.
type QueueReads interface {
	CountHoldingPosition(ctx context.Context, serviceID uuid.UUID) (int, error)
	IsCustomerActive(ctx context.Context, serviceID uuid.UUID, email string) (bool, error)
}

// NewQueueEngine assembles the queue-join rule set in evaluation order.
func NewQueueEngine(reads QueueReads, clk clock.Clock) *Engine[QueueJoinContext] {
	e := NewEngine[QueueJoinContext]()
	e.Register(ServiceExistsRule[QueueJoinContext]{})
	e.Register(QueueOperatingHoursRule{Clock: clk})
	e.Register(DuplicateQueueEntryRule{Reads: reads})
	e.Register(QueueCapacityRule{Reads: reads})
	return e
}

// QueueOperatingHoursRule permits joins only while the service is open
// right now, using the same weekly-hours semantics as bookings.
type QueueOperatingHoursRule struct {
	Clock clock.Clock
}

func (QueueOperatingHoursRule) Name() string  { return "QueueOperatingHoursRule" }
func (QueueOperatingHoursRule) Priority() int { return 1 }

func (r QueueOperatingHoursRule) Validate(_ context.Context, c QueueJoinContext) (Result, error) {
	now := r.Clock.Now()
	if !c.Service.OpenAt(now) {
		hours, open := c.Service.HoursFor(now.Weekday())
		if !open {
			return Fail(CodeQueueClosed,
				fmt.Sprintf("Queue is closed on %s", now.Weekday())), nil
		}
		return Fail(CodeQueueClosed,
			fmt.Sprintf("Queue is open %s, %s - %s", now.Weekday(), hours.OpenAt, hours.CloseAt)), nil
	}
	return Pass(), nil
}

// DuplicateQueueEntryRule allows one active entry per customer per service.
type DuplicateQueueEntryRule struct {
	Reads QueueReads
}

func (DuplicateQueueEntryRule) Name() string  { return "DuplicateQueueEntryRule" }
func (DuplicateQueueEntryRule) Priority() int { return 5 }

func (r DuplicateQueueEntryRule) Validate(ctx context.Context, c QueueJoinContext) (Result, error) {
	active, err := r.Reads.IsCustomerActive(ctx, c.Service.ID(), c.CustomerEmail)
	if err != nil {
		return Result{}, err
	}
	if active {
		return Fail(CodeAlreadyInQueue, "You are already in the queue for this service"), nil
	}
	return Pass(), nil
}

// QueueCapacityRule enforces the optional queue size limit over entries
// still holding a position (WAITING/CALLED); unlimited when unset.
type QueueCapacityRule struct {
	Reads QueueReads
}

func (QueueCapacityRule) Name() string  { return "QueueCapacityRule" }
func (QueueCapacityRule) Priority() int { return 10 }

func (r QueueCapacityRule) Validate(ctx context.Context, c QueueJoinContext) (Result, error) {
	limit := c.Service.MaxQueueSize()
	if limit == nil {
		return Pass(), nil
	}
	count, err := r.Reads.CountHoldingPosition(ctx, c.Service.ID())
	if err != nil {
		return Result{}, err
	}
	if count >= int(*limit) {
		return FailWithMeta(CodeQueueFull,
			fmt.Sprintf("Queue is full (maximum %d people)", *limit),
			map[string]any{"currentSize": count, "maxSize": int(*limit)}), nil
	}
	return Pass(), nil
}
