//go:build unit

package rules_test

import (
	"context"
	"testing"
	"time"

	"waitdesk/internal/domain/queue"
	"waitdesk/internal/domain/service"
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/rules"
	"waitdesk/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueueReads struct {
	holding  int
	active   bool
	countErr error
}

func (f *fakeQueueReads) CountHoldingPosition(_ context.Context, _ uuid.UUID) (int, error) {
	return f.holding, f.countErr
}

func (f *fakeQueueReads) IsCustomerActive(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return f.active, nil
}

// Wednesday 10:00, inside the default Mon-Fri 09:00-17:00 hours.
var openNow = time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)

func queueContext(t *testing.T, mutate func(*builder.ServiceBuilder)) rules.QueueJoinContext {
	t.Helper()
	b := builder.NewServiceBuilder()
	if mutate != nil {
		mutate(b)
	}
	svc, err := b.BuildDomain()
	require.NoError(t, err)

	return rules.QueueJoinContext{
		Service:       svc,
		CustomerEmail: "walkin@example.com",
		Priority:      queue.PriorityNormal,
	}
}

func runJoin(t *testing.T, c rules.QueueJoinContext, reads rules.QueueReads, now time.Time) *rules.Result {
	t.Helper()
	e := rules.NewQueueEngine(reads, clock.NewMockClock(now))
	res, err := e.RunUntilFailure(context.Background(), c)
	require.NoError(t, err)
	return res
}

func TestQueueJoinRules(t *testing.T) {
	t.Run("admissible join passes every rule", func(t *testing.T) {
		res := runJoin(t, queueContext(t, nil), &fakeQueueReads{}, openNow)
		assert.Nil(t, res)
	})

	t.Run("missing service is critical", func(t *testing.T) {
		c := queueContext(t, nil)
		c.Service = nil

		res := runJoin(t, c, &fakeQueueReads{}, openNow)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeServiceNotFound, res.Code)
		assert.True(t, res.Critical)
	})
}

func TestQueueOperatingHoursRule(t *testing.T) {
	t.Run("closed weekday", func(t *testing.T) {
		sunday := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)

		res := runJoin(t, queueContext(t, nil), &fakeQueueReads{}, sunday)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeQueueClosed, res.Code)
	})

	t.Run("before opening", func(t *testing.T) {
		early := time.Date(2025, 7, 16, 8, 59, 0, 0, time.UTC)

		res := runJoin(t, queueContext(t, nil), &fakeQueueReads{}, early)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeQueueClosed, res.Code)
	})

	t.Run("at closing time", func(t *testing.T) {
		closing := time.Date(2025, 7, 16, 17, 0, 0, 0, time.UTC)

		res := runJoin(t, queueContext(t, nil), &fakeQueueReads{}, closing)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeQueueClosed, res.Code)
	})

	t.Run("at opening time", func(t *testing.T) {
		opening := time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC)

		res := runJoin(t, queueContext(t, nil), &fakeQueueReads{}, opening)
		assert.Nil(t, res)
	})

	t.Run("no configured hours at all", func(t *testing.T) {
		c := queueContext(t, func(b *builder.ServiceBuilder) {
			b.Hours = service.WeeklyHours{}
		})

		res := runJoin(t, c, &fakeQueueReads{}, openNow)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeQueueClosed, res.Code)
	})
}

func TestDuplicateQueueEntryRule(t *testing.T) {
	res := runJoin(t, queueContext(t, nil), &fakeQueueReads{active: true}, openNow)
	require.NotNil(t, res)
	assert.Equal(t, rules.CodeAlreadyInQueue, res.Code)
}

func TestQueueCapacityRule(t *testing.T) {
	t.Run("at the limit", func(t *testing.T) {
		c := queueContext(t, func(b *builder.ServiceBuilder) { b.WithQueueCap(10) })

		res := runJoin(t, c, &fakeQueueReads{holding: 10}, openNow)
		require.NotNil(t, res)
		assert.Equal(t, rules.CodeQueueFull, res.Code)
		assert.Equal(t, map[string]any{"currentSize": 10, "maxSize": 10}, res.Metadata)
	})

	t.Run("below the limit", func(t *testing.T) {
		c := queueContext(t, func(b *builder.ServiceBuilder) { b.WithQueueCap(10) })

		res := runJoin(t, c, &fakeQueueReads{holding: 9}, openNow)
		assert.Nil(t, res)
	})

	t.Run("no limit configured", func(t *testing.T) {
		res := runJoin(t, queueContext(t, nil), &fakeQueueReads{holding: 500}, openNow)
		assert.Nil(t, res)
	})
}
