package events

import (
	"time"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketAssigned  EventType = "ticket_assigned"
	EventTicketEscalated EventType = "ticket_escalated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	TicketID       string      `json:"ticket_id"`
	OrganizationID string      `json:"organization_id"`
	ActorID        *string     `json:"actor_id,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string  `json:"assignee_id"`
	TenantID   *string `json:"tenant_id,omitempty"`
	Category   *string `json:"category,omitempty"`
	Reason     string  `json:"reason"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	TargetType  domain.EscalationTargetType `json:"target_type"`
	TargetValue string                      `json:"target_value"`
	PrevType    *string                     `json:"previous_type,omitempty"`
	PrevValue   *string                     `json:"previous_value,omitempty"`
}
