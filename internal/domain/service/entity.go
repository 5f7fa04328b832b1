package service

import (
	"errors"
	"time"

	"waitdesk/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrEmptyName       = errors.New("service name is required")
)

// DayHours is one weekday's opening window. A weekday with no entry in
// WeeklyHours is treated as closed.
type DayHours struct {
	Open    bool
	OpenAt  schedule.TimeOfDay
	CloseAt schedule.TimeOfDay
}

type WeeklyHours map[time.Weekday]DayHours

// For returns the configured hours for a weekday; ok is false when the
// day has no entry, which callers must treat as closed.
func (w WeeklyHours) For(day time.Weekday) (DayHours, bool) {
	h, ok := w[day]
	return h, ok
}

// Service is reference data owned by an external service-management
// collaborator; the engine only reads it.
type Service struct {
	id                   uuid.UUID
	name                 string
	durationMinutes      int
	priceCents           int32
	category             string
	maxDailyAppointments *int32
	maxQueueSize         *int32
	hours                WeeklyHours
	active               bool
}

func NewService(
	id uuid.UUID,
	name string,
	durationMinutes int,
	priceCents int32,
	category string,
	maxDailyAppointments, maxQueueSize *int32,
	hours WeeklyHours,
	active bool,
) (*Service, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if hours == nil {
		hours = WeeklyHours{}
	}
	return &Service{
		id:                   id,
		name:                 name,
		durationMinutes:      durationMinutes,
		priceCents:           priceCents,
		category:             category,
		maxDailyAppointments: maxDailyAppointments,
		maxQueueSize:         maxQueueSize,
		hours:                hours,
		active:               active,
	}, nil
}

func (s *Service) ID() uuid.UUID                { return s.id }
func (s *Service) Name() string                 { return s.name }
func (s *Service) DurationMinutes() int         { return s.durationMinutes }
func (s *Service) PriceCents() int32            { return s.priceCents }
func (s *Service) Category() string             { return s.category }
func (s *Service) MaxDailyAppointments() *int32 { return s.maxDailyAppointments }
func (s *Service) MaxQueueSize() *int32         { return s.maxQueueSize }
func (s *Service) Hours() WeeklyHours           { return s.hours }
func (s *Service) IsActive() bool               { return s.active }

// HoursFor returns the opening window for a weekday, treating missing
// entries and explicit closures alike.
func (s *Service) HoursFor(day time.Weekday) (DayHours, bool) {
	h, ok := s.hours.For(day)
	if !ok || !h.Open {
		return DayHours{}, false
	}
	return h, true
}

// SlotWithinHours reports whether slot falls entirely inside the opening
// window of the given weekday.
func (s *Service) SlotWithinHours(day time.Weekday, slot schedule.Slot) bool {
	h, open := s.HoursFor(day)
	if !open {
		return false
	}
	return slot.Within(h.OpenAt, h.CloseAt)
}

// OpenAt reports whether the service is accepting walk-ins at the given
// instant.
func (s *Service) OpenAt(t time.Time) bool {
	h, open := s.HoursFor(t.Weekday())
	if !open {
		return false
	}
	tod := schedule.TimeOfDayFrom(t)
	return tod >= h.OpenAt && tod < h.CloseAt
}
