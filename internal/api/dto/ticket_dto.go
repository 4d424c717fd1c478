package dto

import (
	"time"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// EscalateRequest payload for POST /tickets/:id/escalate.
type EscalateRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// EscalationTargetResponse is a single escalation target.
type EscalationTargetResponse struct {
	Type  domain.EscalationTargetType `json:"type"`
	Value string                      `json:"value"`
}

// EscalationResponse describes the ticket's current escalation.
type EscalationResponse struct {
	Target   EscalationTargetResponse `json:"target"`
	ByUserID string                   `json:"escalated_by"`
	At       time.Time                `json:"escalated_at"`
}

// TicketResponse is the ticket view returned by routing and escalation.
type TicketResponse struct {
	ID             string                `json:"id"`
	OrganizationID string                `json:"organization_id"`
	TenantID       *string               `json:"tenant_id"`
	Category       *string               `json:"category"`
	AssigneeID     *string               `json:"assignee_id"`
	Title          string                `json:"title"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	Escalation     *EscalationResponse   `json:"escalation"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// EscalationTargetsResponse lists eligible escalation targets.
type EscalationTargetsResponse struct {
	Roles       []domain.SystemRole  `json:"roles"`
	CustomRoles []CustomRoleResponse `json:"custom_roles"`
	Users       []UserSummary        `json:"users"`
}

// NewTicketResponse converts a ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		TenantID:       t.TenantID,
		Category:       t.Category,
		AssigneeID:     t.AssigneeID,
		Title:          t.Title,
		Status:         t.Status,
		Priority:       t.Priority,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.Escalation != nil && t.Escalation.Target != nil {
		resp.Escalation = &EscalationResponse{
			Target: EscalationTargetResponse{
				Type:  t.Escalation.Target.Type(),
				Value: t.Escalation.Target.Value(),
			},
			ByUserID: t.Escalation.ByUserID,
			At:       t.Escalation.At,
		}
	}
	return resp
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID         string                  `json:"id"`
	ActorID    *string                 `json:"actor_id"`
	ChangeType domain.TicketChangeType `json:"change_type"`
	OldValue   map[string]any          `json:"old_value"`
	NewValue   map[string]any          `json:"new_value"`
	CreatedAt  time.Time               `json:"created_at"`
}

// NewTicketHistoryResponse converts a history entry.
func NewTicketHistoryResponse(h *domain.TicketHistory) TicketHistoryResponse {
	return TicketHistoryResponse{
		ID:         h.ID,
		ActorID:    h.ActorID,
		ChangeType: h.ChangeType,
		OldValue:   h.OldValue,
		NewValue:   h.NewValue,
		CreatedAt:  h.CreatedAt,
	}
}
