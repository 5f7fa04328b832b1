package queries

import (
	"context"
	"sort"
	"time"

	"waitdesk/internal/domain/queue"

	"github.com/google/uuid"
)

type QueueEntryView struct {
	ID            uuid.UUID
	ServiceID     uuid.UUID
	Position      int32
	Status        queue.Status
	Priority      queue.Priority
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	JoinedAt      time.Time
	CalledAt      *time.Time
	CompletedAt   *time.Time

	// Rank is computed at read time over the live queue; stored positions
	// are never renumbered, so rank is the only field that shifts when
	// entries ahead leave.
	Rank               int32
	EstimatedWaitMin   int32
	EstimatedServiceAt time.Time
}

type QueueReadStore interface {
	QueueEntryByID(ctx context.Context, id uuid.UUID) (*QueueEntryView, error)
	ActiveEntries(ctx context.Context, serviceID uuid.UUID) ([]QueueEntryView, error)
}

type QueueQueries interface {
	Get(ctx context.Context, id uuid.UUID, now time.Time) (*QueueEntryView, error)
	ListActive(ctx context.Context, serviceID uuid.UUID, now time.Time) ([]QueueEntryView, error)
}

type queueService struct {
	store          QueueReadStore
	waitPerRankMin int32
}

func NewQueueService(store QueueReadStore, waitPerRankMin int) QueueQueries {
	return &queueService{store: store, waitPerRankMin: int32(waitPerRankMin)}
}

// ListActive returns the live queue in call order: HIGH priority before
// NORMAL, then lowest position. Rank and the wait estimate derive from
// that ordering, counting only WAITING entries.
func (s *queueService) ListActive(ctx context.Context, serviceID uuid.UUID, now time.Time) ([]QueueEntryView, error) {
	entries, err := s.store.ActiveEntries(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	s.rank(entries, now)
	return entries, nil
}

func (s *queueService) Get(ctx context.Context, id uuid.UUID, now time.Time) (*QueueEntryView, error) {
	entry, err := s.store.QueueEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.Status.HoldsPosition() {
		return entry, nil
	}
	peers, err := s.store.ActiveEntries(ctx, entry.ServiceID)
	if err != nil {
		return nil, err
	}
	s.rank(peers, now)
	for i := range peers {
		if peers[i].ID == entry.ID {
			return &peers[i], nil
		}
	}
	return entry, nil
}

func (s *queueService) rank(entries []QueueEntryView, now time.Time) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority.Rank() != entries[j].Priority.Rank() {
			return entries[i].Priority.Rank() > entries[j].Priority.Rank()
		}
		return entries[i].Position < entries[j].Position
	})
	var rank int32
	for i := range entries {
		if entries[i].Status != queue.StatusWaiting {
			continue
		}
		rank++
		entries[i].Rank = rank
		entries[i].EstimatedWaitMin = rank * s.waitPerRankMin
		entries[i].EstimatedServiceAt = now.Add(time.Duration(entries[i].EstimatedWaitMin) * time.Minute)
	}
}
