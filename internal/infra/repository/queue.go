package repository

import (
	"context"
	"errors"
	"time"

	"waitdesk/internal/domain/customer"
	"waitdesk/internal/domain/queue"
	"waitdesk/internal/infra"
	"waitdesk/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type QueueRepository struct {
	db db.DBTX
}

func NewQueueRepository(dbtx db.DBTX) *QueueRepository {
	return &QueueRepository{db: dbtx}
}

const insertQueueEntrySQL = `
INSERT INTO queue_entries (
    id, service_id, position, status, priority,
    customer_name, customer_email, customer_phone, notes,
    joined_at, called_at, completed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Insert persists a new entry. A partial unique index over entries still
// holding a position rejects a duplicate position; that loss surfaces as
// a CONFLICT error.
func (r *QueueRepository) Insert(ctx context.Context, e *queue.Entry) error {
	c := e.Customer()
	_, err := r.db.Exec(ctx, insertQueueEntrySQL,
		e.ID(), e.ServiceID(), e.Position(),
		string(e.Status()), string(e.Priority()),
		c.Name, c.Email, c.Phone, c.Notes,
		e.JoinedAt(), e.CalledAt(), e.CompletedAt(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("queue position taken by a concurrent join", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to insert queue entry", err)
	}
	return nil
}

func (r *QueueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status queue.Status, calledAt, completedAt *time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE queue_entries SET status = $2, called_at = $3, completed_at = $4 WHERE id = $1`,
		id, string(status), calledAt, completedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update queue entry status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("queue entry not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *QueueRepository) MaxHeldPosition(ctx context.Context, serviceID uuid.UUID) (int32, error) {
	var max int32
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM queue_entries
		 WHERE service_id = $1 AND status IN ('WAITING', 'CALLED')`,
		serviceID,
	).Scan(&max)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to read max queue position", err)
	}
	return max, nil
}

const nextWaitingSQL = `
SELECT id, service_id, position, status, priority,
       customer_name, customer_email, customer_phone, notes,
       joined_at, called_at, completed_at
FROM queue_entries
WHERE service_id = $1 AND status = 'WAITING'
ORDER BY (priority = 'HIGH') DESC, position ASC
LIMIT 1
FOR UPDATE`

func (r *QueueRepository) NextWaiting(ctx context.Context, serviceID uuid.UUID) (*queue.Entry, error) {
	row := r.db.QueryRow(ctx, nextWaitingSQL, serviceID)
	entry, err := scanQueueEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to read next waiting entry", err)
	}
	return entry, nil
}

func scanQueueEntry(row pgx.Row) (*queue.Entry, error) {
	var (
		id, serviceID         uuid.UUID
		position              int32
		status, priority      string
		name, email, phone    string
		notes                 string
		joinedAt              time.Time
		calledAt, completedAt *time.Time
	)
	if err := row.Scan(&id, &serviceID, &position, &status, &priority,
		&name, &email, &phone, &notes, &joinedAt, &calledAt, &completedAt); err != nil {
		return nil, err
	}
	info := customer.Info{Name: name, Email: email, Phone: phone, Notes: notes}
	return queue.Reconstruct(id, serviceID, position, queue.Status(status), queue.Priority(priority), info, joinedAt, calledAt, completedAt), nil
}
