package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// AuditSettingsRepository reads per-organization audit toggles.
type AuditSettingsRepository interface {
	// IsEnabled returns the stored toggle; found is false when the
	// organization never configured the event type.
	IsEnabled(ctx context.Context, organizationID string, eventType domain.AuditEventType) (enabled bool, found bool, err error)
}

type auditSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewAuditSettingsRepository builds the repository.
func NewAuditSettingsRepository(pool *pgxpool.Pool) AuditSettingsRepository {
	return &auditSettingsRepository{pool: pool}
}

func (r *auditSettingsRepository) IsEnabled(ctx context.Context, organizationID string, eventType domain.AuditEventType) (bool, bool, error) {
	const query = `SELECT enabled FROM organization_audit_settings WHERE organization_id=$1 AND event_type=$2`
	var enabled bool
	err := r.pool.QueryRow(ctx, query, organizationID, eventType).Scan(&enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return enabled, true, nil
}
