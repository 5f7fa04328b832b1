package commands

import (
	"context"

	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/queue"
	"waitdesk/internal/infra"
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/pkg/errs"
	"waitdesk/internal/rules"
	"waitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

type JoinQueueInput struct {
	ServiceID uuid.UUID
	Priority  queue.Priority
	Customer  customer.Info
}

type QueueCommands interface {
	Join(ctx context.Context, in JoinQueueInput) (uuid.UUID, error)
	CallNext(ctx context.Context, serviceID uuid.UUID) (uuid.UUID, error)
	StartService(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
}

type queueInteractor struct {
	uow shared.UnitOfWork
	clk clock.Clock
}

func NewQueueInteractor(uow shared.UnitOfWork, clk clock.Clock) QueueCommands {
	return &queueInteractor{uow: uow, clk: clk}
}

// Join validates against the queue rule set and admits the entry at
// max(position)+1 over entries still holding a position. Position
// uniqueness is enforced by the store; when two joins race, the loser
// re-runs the whole validate-and-admit cycle once.
func (it *queueInteractor) Join(ctx context.Context, in JoinQueueInput) (uuid.UUID, error) {
	attempt := func() (uuid.UUID, error) {
		svc, err := it.uow.Reads().ServiceByID(ctx, in.ServiceID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, err
		}

		qctx := rules.QueueJoinContext{
			Service:       svc,
			CustomerEmail: in.Customer.Email,
			Priority:      in.Priority,
		}
		engine := rules.NewQueueEngine(it.uow.Reads(), it.clk)
		verdict, err := engine.RunUntilFailure(ctx, qctx)
		if err != nil {
			return uuid.Nil, err
		}
		if verdict != nil {
			return uuid.Nil, newRuleViolation(verdict)
		}

		var id uuid.UUID
		err = it.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			maxPos, err := tx.QueueEntries().MaxHeldPosition(ctx, in.ServiceID)
			if err != nil {
				return err
			}
			entry, err := queue.NewEntry(in.ServiceID, maxPos+1, in.Priority, in.Customer, it.clk.Now())
			if err != nil {
				return err
			}
			if err := tx.QueueEntries().Insert(ctx, entry); err != nil {
				return err
			}
			id = entry.ID()
			return nil
		})
		if err != nil {
			return uuid.Nil, err
		}
		return id, nil
	}

	id, err := attempt()
	if err != nil && infra.IsKind(err, infra.KindConflict) {
		id, err = attempt()
	}
	return id, err
}

// CallNext promotes the head of the queue to CALLED and returns its id.
// Returns ErrQueueEmpty when nobody is waiting.
func (it *queueInteractor) CallNext(ctx context.Context, serviceID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := it.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := tx.QueueEntries().NextWaiting(ctx, serviceID)
		if err != nil {
			return err
		}
		if entry == nil {
			return errs.Wrap(errs.ErrQueueEmpty, "no waiting entries")
		}
		if _, err := entry.TransitionTo(queue.StatusCalled, it.clk.Now()); err != nil {
			return err
		}
		id = entry.ID()
		return tx.QueueEntries().UpdateStatus(ctx, entry.ID(), entry.Status(), entry.CalledAt(), entry.CompletedAt())
	})
	return id, err
}

func (it *queueInteractor) StartService(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, queue.StatusInService)
}

func (it *queueInteractor) Complete(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, queue.StatusCompleted)
}

func (it *queueInteractor) Cancel(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, queue.StatusCancelled)
}

func (it *queueInteractor) transition(ctx context.Context, id uuid.UUID, target queue.Status) error {
	return it.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := tx.Reads().QueueEntryByID(ctx, id)
		if err != nil {
			return err
		}
		changed, err := entry.TransitionTo(target, it.clk.Now())
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return tx.QueueEntries().UpdateStatus(ctx, id, entry.Status(), entry.CalledAt(), entry.CompletedAt())
	})
}
