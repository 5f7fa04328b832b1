//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"waitdesk/internal/domain/queue"
	"waitdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueueStore struct {
	byID    map[uuid.UUID]*queries.QueueEntryView
	entries []queries.QueueEntryView
}

func (f *fakeQueueStore) QueueEntryByID(_ context.Context, id uuid.UUID) (*queries.QueueEntryView, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, assert.AnError
	}
	copied := *v
	return &copied, nil
}

func (f *fakeQueueStore) ActiveEntries(_ context.Context, _ uuid.UUID) ([]queries.QueueEntryView, error) {
	out := make([]queries.QueueEntryView, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func entryView(position int32, priority queue.Priority, status queue.Status) queries.QueueEntryView {
	return queries.QueueEntryView{
		ID:        uuid.New(),
		ServiceID: uuid.New(),
		Position:  position,
		Status:    status,
		Priority:  priority,
	}
}

func TestListActive(t *testing.T) {
	now := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)
	serviceID := uuid.New()

	t.Run("high priority is served before earlier normal entries", func(t *testing.T) {
		store := &fakeQueueStore{entries: []queries.QueueEntryView{
			entryView(1, queue.PriorityNormal, queue.StatusWaiting),
			entryView(2, queue.PriorityNormal, queue.StatusWaiting),
			entryView(3, queue.PriorityHigh, queue.StatusWaiting),
		}}
		svc := queries.NewQueueService(store, 15)

		got, err := svc.ListActive(context.Background(), serviceID, now)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, int32(3), got[0].Position)
		assert.Equal(t, int32(1), got[0].Rank)
		assert.Equal(t, int32(1), got[1].Position)
		assert.Equal(t, int32(2), got[1].Rank)
		assert.Equal(t, int32(2), got[2].Position)
		assert.Equal(t, int32(3), got[2].Rank)
	})

	t.Run("wait estimates scale with rank", func(t *testing.T) {
		store := &fakeQueueStore{entries: []queries.QueueEntryView{
			entryView(1, queue.PriorityNormal, queue.StatusWaiting),
			entryView(2, queue.PriorityNormal, queue.StatusWaiting),
		}}
		svc := queries.NewQueueService(store, 15)

		got, err := svc.ListActive(context.Background(), serviceID, now)
		require.NoError(t, err)

		assert.Equal(t, int32(15), got[0].EstimatedWaitMin)
		assert.Equal(t, now.Add(15*time.Minute), got[0].EstimatedServiceAt)
		assert.Equal(t, int32(30), got[1].EstimatedWaitMin)
		assert.Equal(t, now.Add(30*time.Minute), got[1].EstimatedServiceAt)
	})

	t.Run("only waiting entries are ranked", func(t *testing.T) {
		store := &fakeQueueStore{entries: []queries.QueueEntryView{
			entryView(1, queue.PriorityNormal, queue.StatusInService),
			entryView(2, queue.PriorityNormal, queue.StatusCalled),
			entryView(3, queue.PriorityNormal, queue.StatusWaiting),
		}}
		svc := queries.NewQueueService(store, 15)

		got, err := svc.ListActive(context.Background(), serviceID, now)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Zero(t, got[0].Rank)
		assert.Zero(t, got[1].Rank)
		assert.Equal(t, int32(1), got[2].Rank)
		assert.Equal(t, int32(15), got[2].EstimatedWaitMin)
	})
}

func TestQueueGet(t *testing.T) {
	now := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)

	t.Run("waiting entry gets its live rank", func(t *testing.T) {
		first := entryView(1, queue.PriorityNormal, queue.StatusWaiting)
		second := entryView(2, queue.PriorityNormal, queue.StatusWaiting)
		store := &fakeQueueStore{
			byID:    map[uuid.UUID]*queries.QueueEntryView{second.ID: &second},
			entries: []queries.QueueEntryView{first, second},
		}
		svc := queries.NewQueueService(store, 15)

		got, err := svc.Get(context.Background(), second.ID, now)
		require.NoError(t, err)
		assert.Equal(t, int32(2), got.Rank)
		assert.Equal(t, int32(30), got.EstimatedWaitMin)
	})

	t.Run("rank shifts as entries ahead leave", func(t *testing.T) {
		second := entryView(2, queue.PriorityNormal, queue.StatusWaiting)
		store := &fakeQueueStore{
			byID:    map[uuid.UUID]*queries.QueueEntryView{second.ID: &second},
			entries: []queries.QueueEntryView{second},
		}
		svc := queries.NewQueueService(store, 15)

		got, err := svc.Get(context.Background(), second.ID, now)
		require.NoError(t, err)
		assert.Equal(t, int32(1), got.Rank)
		assert.Equal(t, int32(15), got.EstimatedWaitMin)
	})

	t.Run("departed entry is returned without a rank", func(t *testing.T) {
		done := entryView(1, queue.PriorityNormal, queue.StatusCompleted)
		store := &fakeQueueStore{
			byID: map[uuid.UUID]*queries.QueueEntryView{done.ID: &done},
		}
		svc := queries.NewQueueService(store, 15)

		got, err := svc.Get(context.Background(), done.ID, now)
		require.NoError(t, err)
		assert.Zero(t, got.Rank)
		assert.Zero(t, got.EstimatedWaitMin)
	})
}
