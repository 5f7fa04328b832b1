//go:build unit || e2e

package builder

import (
	"time"

	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/domain/service"

	"github.com/google/uuid"
)

type ServiceBuilder struct {
	ID                   uuid.UUID
	Name                 string
	DurationMinutes      int
	PriceCents           int32
	Category             string
	MaxDailyAppointments *int32
	MaxQueueSize         *int32
	Hours                service.WeeklyHours
	Active               bool
}

func NewServiceBuilder() *ServiceBuilder {
	return &ServiceBuilder{
		ID:              uuid.New(),
		Name:            "Standard Consultation",
		DurationMinutes: 30,
		PriceCents:      500000,
		Category:        "consultation",
		Hours:           WeekdayHours("09:00", "17:00"),
		Active:          true,
	}
}

func (b *ServiceBuilder) With(mutate func(*ServiceBuilder)) *ServiceBuilder {
	mutate(b)
	return b
}

func (b *ServiceBuilder) WithDailyCap(n int32) *ServiceBuilder {
	b.MaxDailyAppointments = &n
	return b
}

func (b *ServiceBuilder) WithQueueCap(n int32) *ServiceBuilder {
	b.MaxQueueSize = &n
	return b
}

func (b *ServiceBuilder) BuildDomain() (*service.Service, error) {
	return service.NewService(
		b.ID, b.Name, b.DurationMinutes, b.PriceCents, b.Category,
		b.MaxDailyAppointments, b.MaxQueueSize, b.Hours, b.Active,
	)
}

// WeekdayHours builds a Monday-to-Friday schedule with the same window
// each day.
func WeekdayHours(open, close string) service.WeeklyHours {
	openAt, err := schedule.ParseTimeOfDay(open)
	if err != nil {
		panic(err)
	}
	closeAt, err := schedule.ParseTimeOfDay(close)
	if err != nil {
		panic(err)
	}
	hours := service.WeeklyHours{}
	for day := time.Monday; day <= time.Friday; day++ {
		hours[day] = service.DayHours{Open: true, OpenAt: openAt, CloseAt: closeAt}
	}
	return hours
}
