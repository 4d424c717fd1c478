package domain

// AuditEventType names an organization-toggleable audit event.
type AuditEventType string

const (
	AuditEventTicketAssigned    AuditEventType = "TICKET_ASSIGNED"
	AuditEventTicketEscalated   AuditEventType = "TICKET_ESCALATED"
	AuditEventCustomRoleCreated AuditEventType = "CUSTOM_ROLE_CREATED"
	AuditEventCustomRoleUpdated AuditEventType = "CUSTOM_ROLE_UPDATED"
	AuditEventCustomRoleDeleted AuditEventType = "CUSTOM_ROLE_DELETED"
)
