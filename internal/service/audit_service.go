package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/observability"
)

// AuditService records session lifecycle events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionStarted, a.handleSessionStarted)
	a.dispatcher.Subscribe(events.EventSessionEnded, a.handleSessionEnded)
	a.dispatcher.Subscribe(events.EventSessionEvicted, a.handleSessionEvicted)
	a.dispatcher.Subscribe(events.EventSessionRejected, a.handleSessionRejected)
}

func (a *AuditService) handleSessionStarted(ctx context.Context, event events.Event) error {
	a.logger.Info("SessionStarted", zap.String("event_id", event.ID), zap.String("role", event.Role))
	return nil
}

func (a *AuditService) handleSessionEnded(ctx context.Context, event events.Event) error {
	a.logger.Info("SessionEnded", zap.String("event_id", event.ID), zap.String("path", event.Path))
	a.metrics.RecordEviction(event.Reason)
	return nil
}

func (a *AuditService) handleSessionEvicted(ctx context.Context, event events.Event) error {
	a.logger.Info("SessionEvicted", zap.String("event_id", event.ID), zap.String("reason", event.Reason))
	a.metrics.RecordEviction(event.Reason)
	return nil
}

func (a *AuditService) handleSessionRejected(ctx context.Context, event events.Event) error {
	a.logger.Warn("SessionRejected", zap.String("event_id", event.ID), zap.String("path", event.Path))
	a.metrics.RecordEviction(event.Reason)
	return nil
}
