package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/repository"
)

const auditGateKeyPrefix = "audit_gate:"

// AuditGate answers whether an organization wants an event type audited.
// Decisions are cached in redis when a client is configured.
type AuditGate struct {
	settings       repository.AuditSettingsRepository
	cache          *redis.Client
	ttl            time.Duration
	defaultEnabled bool
	logger         *zap.Logger
}

// AuditGateDependencies bundles collaborators.
type AuditGateDependencies struct {
	SettingsRepo   repository.AuditSettingsRepository
	Cache          *redis.Client
	CacheTTL       time.Duration
	DefaultEnabled bool
	Logger         *zap.Logger
}

// NewAuditGate creates the gate.
func NewAuditGate(deps AuditGateDependencies) *AuditGate {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditGate{
		settings:       deps.SettingsRepo,
		cache:          deps.Cache,
		ttl:            deps.CacheTTL,
		defaultEnabled: deps.DefaultEnabled,
		logger:         logger,
	}
}

// ShouldLogEvent never fails: store errors fall back to the default.
func (g *AuditGate) ShouldLogEvent(ctx context.Context, orgID string, eventType domain.AuditEventType) bool {
	if orgID == "" {
		return g.defaultEnabled
	}
	key := auditGateKeyPrefix + orgID + ":" + string(eventType)
	if cached, ok := g.cached(ctx, key); ok {
		return cached
	}

	enabled, found, err := g.settings.IsEnabled(ctx, orgID, eventType)
	if err != nil {
		g.logger.Warn("audit settings lookup failed",
			zap.String("organization_id", orgID),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
		return g.defaultEnabled
	}
	if !found {
		enabled = g.defaultEnabled
	}
	g.store(ctx, key, enabled)
	return enabled
}

// Invalidate drops a cached decision after settings change.
func (g *AuditGate) Invalidate(ctx context.Context, orgID string, eventType domain.AuditEventType) error {
	if g.cache == nil {
		return nil
	}
	return g.cache.Del(ctx, auditGateKeyPrefix+orgID+":"+string(eventType)).Err()
}

func (g *AuditGate) cached(ctx context.Context, key string) (bool, bool) {
	if g.cache == nil || g.ttl <= 0 {
		return false, false
	}
	val, err := g.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			g.logger.Debug("audit gate cache read failed", zap.Error(err))
		}
		return false, false
	}
	return val == "1", true
}

func (g *AuditGate) store(ctx context.Context, key string, enabled bool) {
	if g.cache == nil || g.ttl <= 0 {
		return
	}
	val := "0"
	if enabled {
		val = "1"
	}
	if err := g.cache.Set(ctx, key, val, g.ttl).Err(); err != nil {
		g.logger.Debug("audit gate cache write failed", zap.Error(err))
	}
}

// AuditLogger writes audit entries to a structured log when the gate allows.
type AuditLogger struct {
	gate   *AuditGate
	logger *zap.Logger
}

// NewAuditLogger creates the logger.
func NewAuditLogger(gate *AuditGate, logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogger{gate: gate, logger: logger.Named("audit")}
}

// Record emits the entry if the organization has the event type enabled.
func (a *AuditLogger) Record(ctx context.Context, orgID string, eventType domain.AuditEventType, actorID string, fields ...zap.Field) bool {
	if a == nil || a.gate == nil || !a.gate.ShouldLogEvent(ctx, orgID, eventType) {
		return false
	}
	base := []zap.Field{
		zap.String("organization_id", orgID),
		zap.String("event_type", string(eventType)),
		zap.String("actor_id", actorID),
	}
	a.logger.Info("audit", append(base, fields...)...)
	return true
}
