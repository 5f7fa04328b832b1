package readstore

import (
	"context"
	"errors"
	"time"

	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/queue"
	"waitdesk/internal/infra"
	"waitdesk/internal/infra/db"
	"waitdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// QueueReadStore serves the command side: rule-evaluation counts and
// entity loads for status transitions.
type QueueReadStore struct {
	db db.DBTX
}

func NewQueueReadStore(dbtx db.DBTX) *QueueReadStore {
	return &QueueReadStore{db: dbtx}
}

const queueEntryByIDSQL = `
SELECT id, service_id, position, status, priority,
       customer_name, customer_email, customer_phone, notes,
       joined_at, called_at, completed_at
FROM queue_entries
WHERE id = $1`

func (r *QueueReadStore) QueueEntryByID(ctx context.Context, id uuid.UUID) (*queue.Entry, error) {
	var (
		entryID, serviceID    uuid.UUID
		position              int32
		status, priority      string
		name, email, phone    string
		notes                 string
		joinedAt              time.Time
		calledAt, completedAt *time.Time
	)
	err := r.db.QueryRow(ctx, queueEntryByIDSQL, id).Scan(
		&entryID, &serviceID, &position, &status, &priority,
		&name, &email, &phone, &notes, &joinedAt, &calledAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("queue entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find queue entry by id", err)
	}
	info := customer.Info{Name: name, Email: email, Phone: phone, Notes: notes}
	return queue.Reconstruct(entryID, serviceID, position, queue.Status(status), queue.Priority(priority), info, joinedAt, calledAt, completedAt), nil
}

func (r *QueueReadStore) CountHoldingPosition(ctx context.Context, serviceID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM queue_entries
		 WHERE service_id = $1 AND status IN ('WAITING', 'CALLED')`,
		serviceID,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count queue entries", err)
	}
	return count, nil
}

func (r *QueueReadStore) IsCustomerActive(ctx context.Context, serviceID uuid.UUID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM queue_entries
		    WHERE service_id = $1 AND customer_email = $2
		      AND status IN ('WAITING', 'CALLED', 'IN_SERVICE')
		)`,
		serviceID, email,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check customer queue membership", err)
	}
	return exists, nil
}

// QueueViewStore serves the query side; rank and wait estimates are
// computed above it, never stored.
type QueueViewStore struct {
	db db.DBTX
}

func NewQueueViewStore(dbtx db.DBTX) *QueueViewStore {
	return &QueueViewStore{db: dbtx}
}

func (r *QueueViewStore) QueueEntryByID(ctx context.Context, id uuid.UUID) (*queries.QueueEntryView, error) {
	row := r.db.QueryRow(ctx, queueEntryByIDSQL, id)
	view, err := scanQueueEntryView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("queue entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find queue entry view", err)
	}
	return view, nil
}

func (r *QueueViewStore) ActiveEntries(ctx context.Context, serviceID uuid.UUID) ([]queries.QueueEntryView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, service_id, position, status, priority,
		        customer_name, customer_email, customer_phone, notes,
		        joined_at, called_at, completed_at
		 FROM queue_entries
		 WHERE service_id = $1 AND status IN ('WAITING', 'CALLED', 'IN_SERVICE')
		 ORDER BY position`,
		serviceID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active queue entries", err)
	}
	defer rows.Close()

	result := []queries.QueueEntryView{}
	for rows.Next() {
		view, err := scanQueueEntryView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan queue entry view", err)
		}
		result = append(result, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read queue entry views", err)
	}
	return result, nil
}

func scanQueueEntryView(row pgx.Row) (*queries.QueueEntryView, error) {
	var (
		v                queries.QueueEntryView
		status, priority string
		notes            string
	)
	if err := row.Scan(&v.ID, &v.ServiceID, &v.Position, &status, &priority,
		&v.CustomerName, &v.CustomerEmail, &v.CustomerPhone, &notes,
		&v.JoinedAt, &v.CalledAt, &v.CompletedAt); err != nil {
		return nil, err
	}
	v.Status = queue.Status(status)
	v.Priority = queue.Priority(priority)
	return &v, nil
}
