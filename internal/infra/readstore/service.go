package readstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"waitdesk/internal/domain/schedule"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/infra"
	"waitdesk/internal/infra/db"
	"waitdesk/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ServiceReadStore struct {
	db db.DBTX
}

func NewServiceReadStore(dbtx db.DBTX) *ServiceReadStore {
	return &ServiceReadStore{db: dbtx}
}

const serviceByIDSQL = `
SELECT id, name, duration_min, price_cents, category,
       max_daily_appointments, max_queue_size, hours, active
FROM services
WHERE id = $1`

func (r *ServiceReadStore) ServiceByID(ctx context.Context, id uuid.UUID) (*service.Service, error) {
	var (
		svcID              uuid.UUID
		name, category     string
		durationMin        int32
		priceCents         int32
		maxDaily, maxQueue *int32
		hoursJSON          []byte
		active             bool
	)
	err := r.db.QueryRow(ctx, serviceByIDSQL, id).Scan(
		&svcID, &name, &durationMin, &priceCents, &category,
		&maxDaily, &maxQueue, &hoursJSON, &active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service by id", err)
	}

	hours, err := parseWeeklyHours(hoursJSON)
	if err != nil {
		return nil, infra.WrapRepoErr("malformed service hours", err)
	}

	svc, err := service.NewService(svcID, name, int(durationMin), priceCents, category, maxDaily, maxQueue, hours, active)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid service row", err)
	}
	return svc, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type dayHoursJSON struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// parseWeeklyHours decodes the hours JSONB column: a map of lowercase
// weekday names to {"open": "HH:MM", "close": "HH:MM"}. Absent days are
// closed.
func parseWeeklyHours(raw []byte) (service.WeeklyHours, error) {
	if len(raw) == 0 {
		return service.WeeklyHours{}, nil
	}
	var decoded map[string]dayHoursJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errs.Wrap(err, "failed to decode weekly hours")
	}

	hours := service.WeeklyHours{}
	for day, h := range decoded {
		weekday, ok := weekdayNames[strings.ToLower(day)]
		if !ok {
			return nil, errs.New("unknown weekday: " + day)
		}
		openAt, err := schedule.ParseTimeOfDay(h.Open)
		if err != nil {
			return nil, err
		}
		closeAt, err := schedule.ParseTimeOfDay(h.Close)
		if err != nil {
			return nil, err
		}
		hours[weekday] = service.DayHours{Open: true, OpenAt: openAt, CloseAt: closeAt}
	}
	return hours, nil
}
