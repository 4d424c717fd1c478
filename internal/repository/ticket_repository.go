package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// EscalationUpdate is the single write that replaces a ticket's escalation.
type EscalationUpdate struct {
	TicketID       string
	OrganizationID string
	Target         domain.EscalationTarget
	ByUserID       string
	// AssigneeID, when set, also moves ownership in the same write.
	AssigneeID *string
}

// TicketRepository encapsulates the ticket reads and writes the engine needs.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	CountOpenByAssignee(ctx context.Context, assigneeID string) (int, error)
	UpdateAssignee(ctx context.Context, ticketID string, assigneeID *string) error
	ApplyEscalation(ctx context.Context, update EscalationUpdate) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, organization_id, tenant_id, category, assignee_id, title, status, priority,
        escalated_to_system_role, escalated_to_custom_role_id, escalated_to_user_id,
        escalated_by_user_id, escalated_at, created_at, updated_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

// CountOpenByAssignee is a live count; routing relies on it not being cached.
func (r *ticketRepository) CountOpenByAssignee(ctx context.Context, assigneeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE assignee_id=$1 AND status <> ALL($2)`
	closed := make([]string, 0, len(domain.ClosedTicketStatuses))
	for _, status := range domain.ClosedTicketStatuses {
		closed = append(closed, string(status))
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, assigneeID, closed).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) UpdateAssignee(ctx context.Context, ticketID string, assigneeID *string) error {
	const query = `UPDATE tickets SET assignee_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, assigneeID, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ApplyEscalation sets all three target columns in one conditional UPDATE
// keyed on ticket and organization, so concurrent escalations are
// last-write-wins and never leave two targets set.
func (r *ticketRepository) ApplyEscalation(ctx context.Context, update EscalationUpdate) (*domain.Ticket, error) {
	systemRole, customRoleID, userID := domain.EscalationColumns(update.Target)
	query := `
        UPDATE tickets SET
            escalated_to_system_role=$1,
            escalated_to_custom_role_id=$2,
            escalated_to_user_id=$3,
            escalated_by_user_id=$4,
            escalated_at=NOW(),
            assignee_id=COALESCE($5, assignee_id),
            updated_at=NOW()
        WHERE id=$6 AND organization_id=$7
        RETURNING ` + ticketColumns
	return scanTicket(r.pool.QueryRow(ctx, query,
		systemRole,
		customRoleID,
		userID,
		update.ByUserID,
		update.AssigneeID,
		update.TicketID,
		update.OrganizationID,
	))
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		systemRole   *string
		customRoleID *string
		userID       *string
		byUserID     *string
		escalatedAt  *time.Time
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.OrganizationID,
		&ticket.TenantID,
		&ticket.Category,
		&ticket.AssigneeID,
		&ticket.Title,
		&ticket.Status,
		&ticket.Priority,
		&systemRole,
		&customRoleID,
		&userID,
		&byUserID,
		&escalatedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	target, err := domain.EscalationTargetFromColumns(systemRole, customRoleID, userID)
	if err != nil {
		return nil, err
	}
	if target != nil {
		escalation := &domain.Escalation{Target: target}
		if byUserID != nil {
			escalation.ByUserID = *byUserID
		}
		if escalatedAt != nil {
			escalation.At = *escalatedAt
		}
		ticket.Escalation = escalation
	}
	return &ticket, nil
}
