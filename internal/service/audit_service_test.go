package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/observability"
)

func TestAuditService_LogsAndCountsSessionEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	dispatcher := events.NewInMemoryDispatcher()

	NewAuditService(dispatcher, zap.New(core), metrics).RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSessionStarted, Role: "admin", Timestamp: time.Now()}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSessionEvicted, Reason: events.ReasonExpired}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSessionRejected, Reason: events.ReasonRejected, Path: "/users"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSessionEnded, Reason: events.ReasonLogout}))

	assert.Equal(t, 1, logs.FilterMessage("SessionStarted").Len())
	assert.Equal(t, 1, logs.FilterMessage("SessionRejected").Len())

	count, err := testutil.GatherAndCount(reg, "scalebit_console_token_evictions_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAuditService_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewAuditService(nil, nil, nil).RegisterHandlers()
	})
}
