package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// ClosedTicketStatuses are excluded from assignee load counts.
var ClosedTicketStatuses = []TicketStatus{TicketStatusResolved, TicketStatusClosed}

// IsOpen reports whether the status still counts toward an assignee's load.
func (s TicketStatus) IsOpen() bool {
	for _, closed := range ClosedTicketStatuses {
		if s == closed {
			return false
		}
	}
	return true
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Ticket is the aggregate the routing and escalation engine acts on.
type Ticket struct {
	ID             string
	OrganizationID string
	TenantID       *string
	Category       *string
	AssigneeID     *string
	Title          string
	Status         TicketStatus
	Priority       TicketPriority
	Escalation     *Escalation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Escalation is the single active escalation on a ticket.
type Escalation struct {
	Target   EscalationTarget
	ByUserID string
	At       time.Time
}
