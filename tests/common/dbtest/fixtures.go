//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// AllWeekHoursJSON keeps e2e runs independent of the wall-clock weekday:
// a service with these hours is open whenever the suite happens to run.
const AllWeekHoursJSON = `{
	"monday":    {"open": "00:00", "close": "23:59"},
	"tuesday":   {"open": "00:00", "close": "23:59"},
	"wednesday": {"open": "00:00", "close": "23:59"},
	"thursday":  {"open": "00:00", "close": "23:59"},
	"friday":    {"open": "00:00", "close": "23:59"},
	"saturday":  {"open": "00:00", "close": "23:59"},
	"sunday":    {"open": "00:00", "close": "23:59"}
}`

func CreateTestService(t *testing.T, db DBLike, name string, durationMinutes int) uuid.UUID {
	t.Helper()
	return CreateTestServiceWithLimits(t, db, name, durationMinutes, nil, nil)
}

func CreateTestServiceWithLimits(t *testing.T, db DBLike, name string, durationMinutes int, maxDaily, maxQueue *int32) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO services (id, name, duration_min, price_cents, category, max_daily_appointments, max_queue_size, hours, active)
		VALUES ($1, $2, $3, 100000, 'test', $4, $5, $6, TRUE)`,
		serviceID, name, durationMinutes, maxDaily, maxQueue, AllWeekHoursJSON)
	require.NoError(t, err)

	return serviceID
}

func CreateTestAppointment(t *testing.T, db DBLike, serviceID uuid.UUID, date time.Time, startMin, endMin int, status, email string) uuid.UUID {
	t.Helper()

	appointmentID := uuid.New()
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := db.Exec(ctx, `
		INSERT INTO appointments (id, service_id, date, start_min, end_min, status, customer_name, customer_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'Fixture Customer', $7, $8, $8)`,
		appointmentID, serviceID, date, startMin, endMin, status, email, now)
	require.NoError(t, err)

	return appointmentID
}

func CreateTestQueueEntry(t *testing.T, db DBLike, serviceID uuid.UUID, position int32, status, priority, email string) uuid.UUID {
	t.Helper()

	entryID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO queue_entries (id, service_id, position, status, priority, customer_name, customer_email, joined_at)
		VALUES ($1, $2, $3, $4, $5, 'Fixture Customer', $6, $7)`,
		entryID, serviceID, position, status, priority, email, time.Now().UTC())
	require.NoError(t, err)

	return entryID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO services (id, name, duration_min, price_cents, category, hours) VALUES
		    ('11111111-1111-1111-1111-111111111111', 'Standard Consultation', 30, 500000, 'consultation',
		     '{"monday": {"open": "09:00", "close": "17:00"}, "tuesday": {"open": "09:00", "close": "17:00"}, "wednesday": {"open": "09:00", "close": "17:00"}, "thursday": {"open": "09:00", "close": "17:00"}, "friday": {"open": "09:00", "close": "17:00"}}')
		ON CONFLICT (id) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
