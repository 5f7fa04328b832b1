package queries

import (
	"context"
	"time"

	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type SlotAvailability struct {
	Slot      schedule.Slot
	Available bool
}

type DayAvailability struct {
	ServiceID uuid.UUID
	Date      time.Time
	Slots     []SlotAvailability
}

// AvailabilityReadStore supplies what the availability view needs: the
// service definition plus everything currently blocking slots on a date.
type AvailabilityReadStore interface {
	ServiceByID(ctx context.Context, id uuid.UUID) (*service.Service, error)
	OccupiedSlots(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]schedule.Slot, error)
	LockedSlots(ctx context.Context, serviceID uuid.UUID, date time.Time, now time.Time) ([]schedule.Slot, error)
}

// AvailabilityCache is the optional read-through cache in front of the
// availability computation. A nil-safe noop implementation is wired when
// no cache backend is configured.
type AvailabilityCache interface {
	Get(ctx context.Context, serviceID uuid.UUID, date time.Time) (*DayAvailability, bool)
	Set(ctx context.Context, serviceID uuid.UUID, date time.Time, v *DayAvailability)
}

type AvailabilityQueries interface {
	DaySlots(ctx context.Context, serviceID uuid.UUID, date time.Time, now time.Time) (*DayAvailability, error)
}

type availabilityService struct {
	store AvailabilityReadStore
	cache AvailabilityCache
}

func NewAvailabilityService(store AvailabilityReadStore, cache AvailabilityCache) AvailabilityQueries {
	return &availabilityService{store: store, cache: cache}
}

// DaySlots generates the day's slot grid from the service's hours and
// duration, then marks a slot unavailable when it overlaps a slot-holding
// appointment or an unexpired reservation lock. A closed day yields an
// empty grid rather than an error.
func (s *availabilityService) DaySlots(ctx context.Context, serviceID uuid.UUID, date time.Time, now time.Time) (*DayAvailability, error) {
	date = schedule.DateOf(date)

	if cached, ok := s.cache.Get(ctx, serviceID, date); ok {
		return cached, nil
	}

	svc, err := s.store.ServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive() {
		return nil, errs.Wrap(errs.ErrServiceNotFound, "service is inactive")
	}

	view := &DayAvailability{ServiceID: serviceID, Date: date, Slots: []SlotAvailability{}}

	hours, open := svc.HoursFor(date.Weekday())
	if !open {
		s.cache.Set(ctx, serviceID, date, view)
		return view, nil
	}

	occupied, err := s.store.OccupiedSlots(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}
	locked, err := s.store.LockedSlots(ctx, serviceID, date, now)
	if err != nil {
		return nil, err
	}
	blocked := append(occupied, locked...)

	for _, slot := range schedule.SlotsBetween(hours.OpenAt, hours.CloseAt, svc.DurationMinutes()) {
		free := true
		for _, b := range blocked {
			if slot.Overlaps(b) {
				free = false
				break
			}
		}
		view.Slots = append(view.Slots, SlotAvailability{Slot: slot, Available: free})
	}

	s.cache.Set(ctx, serviceID, date, view)
	return view, nil
}
