//go:build unit

package rules_test

import (
	"context"
	"testing"
	"time"

	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/rules"
	"waitdesk/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppointmentReads struct {
	occupying     int
	openByCust    int
	overlapping   bool
	occupyingErr  error
	openErr       error
	overlapErr    error
	overlapCalled bool
}

func (f *fakeAppointmentReads) CountOccupying(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return f.occupying, f.occupyingErr
}

func (f *fakeAppointmentReads) CountOpenByCustomer(_ context.Context, _ string, _ time.Time) (int, error) {
	return f.openByCust, f.openErr
}

func (f *fakeAppointmentReads) ExistsOverlapping(_ context.Context, _ uuid.UUID, _ time.Time, _ schedule.Slot) (bool, error) {
	f.overlapCalled = true
	return f.overlapping, f.overlapErr
}

const (
	minAdvanceDays = 1
	maxAdvanceDays = 90
)

// Wednesday 2025-07-16, inside the default Mon-Fri 09:00-17:00 hours.
var bookingDate = time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)

func bookingContext(t *testing.T, mutate func(*builder.ServiceBuilder)) rules.BookingContext {
	t.Helper()
	b := builder.NewServiceBuilder()
	if mutate != nil {
		mutate(b)
	}
	svc, err := b.BuildDomain()
	require.NoError(t, err)

	slot, err := schedule.ParseSlot("10:00", "10:30")
	require.NoError(t, err)

	return rules.BookingContext{
		Service:       svc,
		Date:          bookingDate,
		Slot:          slot,
		CustomerEmail: "dana@example.com",
	}
}

func runBooking(t *testing.T, c rules.BookingContext, reads rules.AppointmentReads, now time.Time) *rules.Result {
	t.Helper()
	e := rules.NewBookingEngine(reads, clock.NewMockClock(now), minAdvanceDays, maxAdvanceDays)
	res, err := e.RunUntilFailure(context.Background(), c)
	require.NoError(t, err)
	return res
}

func TestBookingRules(t *testing.T) {
	weekBefore := bookingDate.AddDate(0, 0, -7)

	t.Run("admissible booking passes every rule", func(t *testing.T) {
		res := runBooking(t, bookingContext(t, nil), &fakeAppointmentReads{}, weekBefore)
		assert.Nil(t, res)
	})

	t.Run("missing service is critical", func(t *testing.T) {
		c := bookingContext(t, nil)
		c.Service = nil

		res := runBooking(t, c, &fakeAppointmentReads{}, weekBefore)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeServiceNotFound, res.Code)
		assert.True(t, res.Critical)
	})

	t.Run("inactive service is critical", func(t *testing.T) {
		c := bookingContext(t, func(b *builder.ServiceBuilder) { b.Active = false })

		res := runBooking(t, c, &fakeAppointmentReads{}, weekBefore)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeServiceInactive, res.Code)
		assert.True(t, res.Critical)
	})
}

func TestAdvanceBookingRule(t *testing.T) {
	cases := []struct {
		name     string
		daysOut  int
		wantCode string
	}{
		{name: "same day is too soon", daysOut: 0, wantCode: rules.CodeBookingTooSoon},
		{name: "exactly the minimum", daysOut: 1},
		{name: "well inside the window", daysOut: 30},
		{name: "exactly the maximum", daysOut: 90},
		{name: "one day past the maximum", daysOut: 91, wantCode: rules.CodeBookingTooFar},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// Late-evening now: the bound counts calendar days, not hours.
			now := bookingDate.AddDate(0, 0, -c.daysOut).Add(23 * time.Hour)

			res := runBooking(t, bookingContext(t, nil), &fakeAppointmentReads{}, now)
			if c.wantCode == "" {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.Equal(t, c.wantCode, res.Code)
		})
	}
}

func TestBusinessHoursRule(t *testing.T) {
	weekBefore := bookingDate.AddDate(0, 0, -7)

	t.Run("closed weekday", func(t *testing.T) {
		c := bookingContext(t, func(b *builder.ServiceBuilder) {
			b.Hours = service.WeeklyHours{} // closed every day
		})

		res := runBooking(t, c, &fakeAppointmentReads{}, weekBefore)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeBusinessHoursClosed, res.Code)
	})

	t.Run("slot outside the open window", func(t *testing.T) {
		c := bookingContext(t, nil)
		slot, err := schedule.ParseSlot("16:45", "17:15")
		require.NoError(t, err)
		c.Slot = slot

		res := runBooking(t, c, &fakeAppointmentReads{}, weekBefore)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeOutsideBusinessHours, res.Code)
	})

	t.Run("slot touching the closing time is allowed", func(t *testing.T) {
		c := bookingContext(t, nil)
		slot, err := schedule.ParseSlot("16:30", "17:00")
		require.NoError(t, err)
		c.Slot = slot

		res := runBooking(t, c, &fakeAppointmentReads{}, weekBefore)
		assert.Nil(t, res)
	})
}

func TestDuplicateAppointmentRule(t *testing.T) {
	weekBefore := bookingDate.AddDate(0, 0, -7)

	reads := &fakeAppointmentReads{openByCust: 1}
	res := runBooking(t, bookingContext(t, nil), reads, weekBefore)
	require.NotNil(t, res)
	assert.Equal(t, rules.CodeDuplicateAppointment, res.Code)
	assert.False(t, reads.overlapCalled)
}

func TestTimeSlotAvailabilityRule(t *testing.T) {
	weekBefore := bookingDate.AddDate(0, 0, -7)

	res := runBooking(t, bookingContext(t, nil), &fakeAppointmentReads{overlapping: true}, weekBefore)
	require.NotNil(t, res)
	assert.Equal(t, rules.CodeTimeSlotUnavailable, res.Code)
}

func TestDailyCapacityRule(t *testing.T) {
	weekBefore := bookingDate.AddDate(0, 0, -7)

	t.Run("at the limit", func(t *testing.T) {
		c := bookingContext(t, func(b *builder.ServiceBuilder) { b.WithDailyCap(8) })

		res := runBooking(t, c, &fakeAppointmentReads{occupying: 8}, weekBefore)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeDailyCapacityExceeded, res.Code)
		assert.Equal(t, map[string]any{"currentCount": 8, "limit": 8}, res.Metadata)
	})

	t.Run("below the limit", func(t *testing.T) {
		c := bookingContext(t, func(b *builder.ServiceBuilder) { b.WithDailyCap(8) })

		res := runBooking(t, c, &fakeAppointmentReads{occupying: 7}, weekBefore)
		assert.Nil(t, res)
	})

	t.Run("no limit configured", func(t *testing.T) {
		res := runBooking(t, bookingContext(t, nil), &fakeAppointmentReads{occupying: 1000}, weekBefore)
		assert.Nil(t, res)
	})
}
