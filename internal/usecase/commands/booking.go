package commands

import (
	"context"
	"fmt"
	"time"

	"waitdesk/internal/domain/appointment"
	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/infra"
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/pkg/config"
	"waitdesk/internal/pkg/errs"
	"waitdesk/internal/rules"
	"waitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

// RuleViolationError reports a failed admissibility check. It carries the
// machine-readable code and metadata from the rule result so handlers can
// render them without re-deriving anything.
type RuleViolationError struct {
	Code     string
	Message  string
	Metadata map[string]any
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newRuleViolation(r *rules.Result) *RuleViolationError {
	return &RuleViolationError{Code: r.Code, Message: r.Message, Metadata: r.Metadata}
}

// BookAppointmentInput carries only the slot start; the end is derived
// from the service duration so the slot always matches the grid.
type BookAppointmentInput struct {
	ServiceID uuid.UUID
	Date      time.Time
	Start     schedule.TimeOfDay
	Customer  customer.Info
}

type BookingCommands interface {
	Book(ctx context.Context, in BookAppointmentInput) (uuid.UUID, error)
	Confirm(ctx context.Context, id uuid.UUID) error
	Start(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	MarkNoShow(ctx context.Context, id uuid.UUID) error
}

type AvailabilityInvalidator interface {
	InvalidateAvailability(ctx context.Context, serviceID uuid.UUID, date time.Time)
}

type bookingInteractor struct {
	uow         shared.UnitOfWork
	clk         clock.Clock
	cfg         config.BookingConfig
	invalidator AvailabilityInvalidator
}

func NewBookingInteractor(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig, inv AvailabilityInvalidator) BookingCommands {
	return &bookingInteractor{uow: uow, clk: clk, cfg: cfg, invalidator: inv}
}

// Book validates the request against the appointment rule set and, on
// success, admits it in one transaction: sweep expired locks, refuse when an
// unexpired lock covers an overlapping slot, insert the appointment and
// place a fresh lock. A conflicting concurrent commit surfaces as a
// CONFLICT repository error; the whole validate-and-admit cycle is retried
// once so the loser of the race gets a rule verdict instead of a 500.
func (it *bookingInteractor) Book(ctx context.Context, in BookAppointmentInput) (uuid.UUID, error) {
	date := schedule.DateOf(in.Date)

	var id uuid.UUID
	attempt := func() (uuid.UUID, error) {
		svc, err := it.uow.Reads().ServiceByID(ctx, in.ServiceID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, err
		}

		var slot schedule.Slot
		if svc != nil {
			slot, err = schedule.NewSlot(in.Start, in.Start.Add(svc.DurationMinutes()))
			if err != nil {
				return uuid.Nil, err
			}
		}

		bctx := rules.BookingContext{
			Service:       svc,
			Date:          date,
			Slot:          slot,
			CustomerEmail: in.Customer.Email,
		}
		engine := rules.NewBookingEngine(it.uow.Reads(), it.clk, it.cfg.MinAdvanceDays, it.cfg.MaxAdvanceDays)
		verdict, err := engine.RunUntilFailure(ctx, bctx)
		if err != nil {
			return uuid.Nil, err
		}
		if verdict != nil {
			return uuid.Nil, newRuleViolation(verdict)
		}

		appt := appointment.New(in.ServiceID, date, slot, in.Customer, it.clk.Now())
		err = it.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			now := it.clk.Now()
			if err := tx.SlotLocks().DeleteExpired(ctx, in.ServiceID, date, now); err != nil {
				return err
			}
			locked, err := tx.SlotLocks().ExistsOverlapping(ctx, in.ServiceID, date, slot, now)
			if err != nil {
				return err
			}
			if locked {
				return errs.Wrap(errs.ErrSlotLocked, "slot is held by a pending booking")
			}
			if err := tx.Appointments().Insert(ctx, appt); err != nil {
				return err
			}
			return tx.SlotLocks().Insert(ctx, appointment.NewSlotLock(in.ServiceID, date, slot, appt.ID(), now, it.cfg.SlotLockTTL))
		})
		if err != nil {
			return uuid.Nil, err
		}
		return appt.ID(), nil
	}

	id, err := attempt()
	if err != nil && infra.IsKind(err, infra.KindConflict) {
		id, err = attempt()
	}
	if err != nil {
		return uuid.Nil, err
	}

	if it.invalidator != nil {
		it.invalidator.InvalidateAvailability(ctx, in.ServiceID, date)
	}
	return id, nil
}

func (it *bookingInteractor) Confirm(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, appointment.StatusConfirmed)
}

func (it *bookingInteractor) Start(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, appointment.StatusInProgress)
}

func (it *bookingInteractor) Complete(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, appointment.StatusCompleted)
}

func (it *bookingInteractor) Cancel(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, appointment.StatusCancelled)
}

func (it *bookingInteractor) MarkNoShow(ctx context.Context, id uuid.UUID) error {
	return it.transition(ctx, id, appointment.StatusNoShow)
}

func (it *bookingInteractor) transition(ctx context.Context, id uuid.UUID, target appointment.Status) error {
	var freedSlot bool
	var serviceID uuid.UUID
	var date time.Time

	err := it.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		appt, err := tx.Reads().AppointmentByID(ctx, id)
		if err != nil {
			return err
		}
		wasOccupying := appt.Status().OccupiesSlot()
		changed, err := appt.TransitionTo(target, it.clk.Now())
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		if wasOccupying && !appt.Status().OccupiesSlot() {
			freedSlot = true
			serviceID = appt.ServiceID()
			date = appt.Date()
			if err := tx.SlotLocks().DeleteByAppointment(ctx, id); err != nil {
				return err
			}
		}
		return tx.Appointments().UpdateStatus(ctx, id, appt.Status(), appt.UpdatedAt())
	})
	if err != nil {
		return err
	}

	if freedSlot && it.invalidator != nil {
		it.invalidator.InvalidateAvailability(ctx, serviceID, date)
	}
	return nil
}
