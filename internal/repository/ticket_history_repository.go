package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// TicketHistoryRepository appends and reads the per-ticket change log.
type TicketHistoryRepository interface {
	Create(ctx context.Context, entry *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

const historyColumns = `id, ticket_id, actor_id, change_type, old_value, new_value, created_at`

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

// Create fills in the generated id and timestamp on entry.
func (r *ticketHistoryRepository) Create(ctx context.Context, entry *domain.TicketHistory) error {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO ticket_history (ticket_id, actor_id, change_type, old_value, new_value)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`,
		entry.TicketID, entry.ActorID, entry.ChangeType, entry.OldValue, entry.NewValue)
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("insert ticket history: %w", err)
	}
	return nil
}

// ListByTicket returns entries oldest first.
func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+historyColumns+` FROM ticket_history WHERE ticket_id = $1 ORDER BY created_at, id`,
		ticketID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanHistory)
}

func scanHistory(row pgx.CollectableRow) (domain.TicketHistory, error) {
	var h domain.TicketHistory
	err := row.Scan(&h.ID, &h.TicketID, &h.ActorID, &h.ChangeType, &h.OldValue, &h.NewValue, &h.CreatedAt)
	return h, err
}
