package rules

import (
	"context"
	"fmt"
	"time"

	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/pkg/clock"

	"github.com/google/uuid"
)

// BookingContext is the closed context for the appointment rule family.
// The orchestrator loads the service before building the engine; rules
// never fetch it themselves.
type BookingContext struct {
	Service       *service.Service
	Date          time.Time
	Slot          schedule.Slot
	CustomerEmail string
}

// AppointmentReads is the read-only collaborator surface the appointment
// rules need.
type AppointmentReads interface {
	CountOccupying(ctx context.Context, serviceID uuid.UUID, date time.Time) (int, error)
	CountOpenByCustomer(ctx context.Context, email string, date time.Time) (int, error)
	ExistsOverlapping(ctx context.Context, serviceID uuid.UUID, date time.Time, slot schedule.Slot) (bool, error)
}

// NewBookingEngine assembles the appointment rule set in evaluation
// order. A fresh engine is built per request.
func NewBookingEngine(reads AppointmentReads, clk clock.Clock, minAdvanceDays, maxAdvanceDays int) *Engine[BookingContext] {
	e := NewEngine[BookingContext]()
	e.Register(ServiceExistsRule[BookingContext]{})
	e.Register(AdvanceBookingRule{Clock: clk, MinDays: minAdvanceDays, MaxDays: maxAdvanceDays})
	e.Register(BusinessHoursRule{})
	e.Register(DuplicateAppointmentRule{Reads: reads})
	e.Register(TimeSlotAvailabilityRule{Reads: reads})
	e.Register(DailyCapacityRule{Reads: reads})
	return e
}

// serviceCarrier lets the service guard run in both rule families.
type serviceCarrier interface {
	service() *service.Service
}

func (c BookingContext) service() *service.Service { return c.Service }

// ServiceExistsRule guards the rest of the pipeline: a missing or
// deactivated service makes every other check meaningless, so its
// failure is critical.
type ServiceExistsRule[C serviceCarrier] struct{}

func (ServiceExistsRule[C]) Name() string  { return "ServiceExistsRule" }
func (ServiceExistsRule[C]) Priority() int { return 0 }

func (ServiceExistsRule[C]) Validate(_ context.Context, c C) (Result, error) {
	svc := c.service()
	if svc == nil {
		return FailCritical(CodeServiceNotFound, "Service not found"), nil
	}
	if !svc.IsActive() {
		return FailCritical(CodeServiceInactive, "Service is not accepting requests"), nil
	}
	return Pass(), nil
}

// AdvanceBookingRule bounds how far ahead a booking may be placed.
// Comparison is date-only: same-day is rejected, exactly MinDays and
// exactly MaxDays ahead are both accepted.
type AdvanceBookingRule struct {
	Clock   clock.Clock
	MinDays int
	MaxDays int
}

func (AdvanceBookingRule) Name() string  { return "AdvanceBookingRule" }
func (AdvanceBookingRule) Priority() int { return 5 }

func (r AdvanceBookingRule) Validate(_ context.Context, c BookingContext) (Result, error) {
	days := schedule.DaysBetween(r.Clock.Now(), c.Date)
	if days < r.MinDays {
		return Fail(CodeBookingTooSoon,
			fmt.Sprintf("Appointments must be booked at least %d day(s) in advance", r.MinDays)), nil
	}
	if days > r.MaxDays {
		return Fail(CodeBookingTooFar,
			fmt.Sprintf("Appointments cannot be booked more than %d days in advance", r.MaxDays)), nil
	}
	return Pass(), nil
}

// BusinessHoursRule checks the requested interval against the service's
// configured hours for that weekday. A weekday without a configured entry
// is closed.
type BusinessHoursRule struct{}

func (BusinessHoursRule) Name() string  { return "BusinessHoursRule" }
func (BusinessHoursRule) Priority() int { return 10 }

func (BusinessHoursRule) Validate(_ context.Context, c BookingContext) (Result, error) {
	day := c.Date.Weekday()
	hours, open := c.Service.HoursFor(day)
	if !open {
		return Fail(CodeBusinessHoursClosed,
			fmt.Sprintf("We are closed on %s", day)), nil
	}
	if !c.Slot.Within(hours.OpenAt, hours.CloseAt) {
		return Fail(CodeOutsideBusinessHours,
			fmt.Sprintf("%s hours are %s - %s", day, hours.OpenAt, hours.CloseAt)), nil
	}
	return Pass(), nil
}

// DuplicateAppointmentRule allows a customer at most one open
// (SCHEDULED/CONFIRMED) appointment per calendar day, regardless of
// service.
type DuplicateAppointmentRule struct {
	Reads AppointmentReads
}

func (DuplicateAppointmentRule) Name() string  { return "DuplicateAppointmentRule" }
func (DuplicateAppointmentRule) Priority() int { return 15 }

func (r DuplicateAppointmentRule) Validate(ctx context.Context, c BookingContext) (Result, error) {
	count, err := r.Reads.CountOpenByCustomer(ctx, c.CustomerEmail, c.Date)
	if err != nil {
		return Result{}, err
	}
	if count > 0 {
		return Fail(CodeDuplicateAppointment,
			"You already have an appointment scheduled for this day"), nil
	}
	return Pass(), nil
}

// TimeSlotAvailabilityRule rejects intervals overlapping any slot-occupying
// appointment for the same service and date. This is the fast pre-transaction
// answer; the slot lock inside the admission transaction is the guarantee.
type TimeSlotAvailabilityRule struct {
	Reads AppointmentReads
}

func (TimeSlotAvailabilityRule) Name() string  { return "TimeSlotAvailabilityRule" }
func (TimeSlotAvailabilityRule) Priority() int { return 20 }

func (r TimeSlotAvailabilityRule) Validate(ctx context.Context, c BookingContext) (Result, error) {
	taken, err := r.Reads.ExistsOverlapping(ctx, c.Service.ID(), c.Date, c.Slot)
	if err != nil {
		return Result{}, err
	}
	if taken {
		return Fail(CodeTimeSlotUnavailable, "This time slot is already booked"), nil
	}
	return Pass(), nil
}

// DailyCapacityRule enforces the optional per-day appointment limit;
// unlimited when the service sets none.
type DailyCapacityRule struct {
	Reads AppointmentReads
}

func (DailyCapacityRule) Name() string  { return "DailyCapacityRule" }
func (DailyCapacityRule) Priority() int { return 30 }

func (r DailyCapacityRule) Validate(ctx context.Context, c BookingContext) (Result, error) {
	limit := c.Service.MaxDailyAppointments()
	if limit == nil {
		return Pass(), nil
	}
	count, err := r.Reads.CountOccupying(ctx, c.Service.ID(), c.Date)
	if err != nil {
		return Result{}, err
	}
	if count >= int(*limit) {
		return FailWithMeta(CodeDailyCapacityExceeded,
			fmt.Sprintf("Maximum %d appointments per day reached", *limit),
			map[string]any{"currentCount": count, "limit": int(*limit)}), nil
	}
	return Pass(), nil
}
