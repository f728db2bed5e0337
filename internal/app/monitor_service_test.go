package app

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ylens/api/internal/infra/memory"
	"github.com/a11ylens/api/internal/metrics"
	"github.com/a11ylens/api/pkg/domain/monitor"
	"github.com/a11ylens/api/pkg/domain/shared"
	"github.com/a11ylens/api/pkg/logger"
)

func newMonitorService() *MonitorService {
	return NewMonitorService(memory.NewMonitorRepository(), logger.NewNop())
}

func TestMonitorServiceRegister(t *testing.T) {
	svc := newMonitorService()

	m, err := svc.Register(context.Background(), RegisterMonitorInput{
		URL:       "Example.COM/pricing",
		Contact:   "team@example.com",
		Frequency: "weekly",
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com", m.Host)
	assert.Equal(t, monitor.FrequencyWeekly, m.Frequency)
	assert.True(t, m.Active)
	assert.False(t, m.IsDue(time.Now().Add(-time.Minute)))
	assert.True(t, m.IsDue(time.Now()))
}

func TestMonitorServiceRegisterIdempotent(t *testing.T) {
	svc := newMonitorService()
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com",
		Contact:   "team@example.com",
		Frequency: "daily",
	})
	require.NoError(t, err)

	// Same host and contact, different path and frequency.
	second, err := svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com/about",
		Contact:   "team@example.com",
		Frequency: "monthly",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, monitor.FrequencyMonthly, second.Frequency)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// A different contact on the same host is a separate monitor.
	third, err := svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com",
		Contact:   "other@example.com",
		Frequency: "daily",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	all, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMonitorServiceRegisterRevivesInactive(t *testing.T) {
	svc := newMonitorService()
	ctx := context.Background()

	m, err := svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com",
		Contact:   "team@example.com",
		Frequency: "daily",
	})
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, m.ID.String())
	require.NoError(t, err)

	stored, err := svc.GetMonitor(ctx, m.ID.String())
	require.NoError(t, err)
	assert.False(t, stored.Active)

	revived, err := svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com",
		Contact:   "team@example.com",
		Frequency: "weekly",
	})
	require.NoError(t, err)
	assert.Equal(t, m.ID, revived.ID)
	assert.True(t, revived.Active)
	assert.Equal(t, monitor.FrequencyWeekly, revived.Frequency)
	assert.True(t, revived.IsDue(time.Now()), "a revived monitor is due immediately")
}

func TestMonitorServiceRegisterWithCron(t *testing.T) {
	svc := newMonitorService()
	ctx := context.Background()

	m, err := svc.Register(ctx, RegisterMonitorInput{
		URL:          "https://example.com",
		Contact:      "team@example.com",
		Frequency:    "daily",
		ScheduleCron: "0 0 * * 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "0 0 * * 1", m.ScheduleCron)

	// Midnight Monday cadence wins over the daily interval.
	ranAt := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.CompleteRun(ctx, m, 80, ranAt))
	stored, err := svc.GetMonitor(ctx, m.ID.String())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC), stored.NextDueAt)

	// Re-registering without a cron expression clears the override.
	_, err = svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com",
		Contact:   "team@example.com",
		Frequency: "daily",
	})
	require.NoError(t, err)
	stored, err = svc.GetMonitor(ctx, m.ID.String())
	require.NoError(t, err)
	assert.Empty(t, stored.ScheduleCron)
}

func TestMonitorServiceRegisterInvalidCron(t *testing.T) {
	svc := newMonitorService()

	_, err := svc.Register(context.Background(), RegisterMonitorInput{
		URL:          "https://example.com",
		Contact:      "team@example.com",
		Frequency:    "daily",
		ScheduleCron: "every monday",
	})
	assert.True(t, shared.IsValidation(err))

	all, listErr := svc.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all, "a rejected cron expression registers nothing")
}

func TestMonitorServiceDeactivateUnknown(t *testing.T) {
	svc := newMonitorService()

	_, err := svc.Deactivate(context.Background(), shared.NewID().String())
	assert.True(t, shared.IsNotFound(err))

	_, err = svc.Deactivate(context.Background(), "not-a-uuid")
	assert.True(t, shared.IsInvalidInput(err))
}

func TestMonitorServiceSyncMetrics(t *testing.T) {
	svc := newMonitorService()
	ctx := context.Background()

	var last *monitor.Monitor
	for _, contact := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		m, err := svc.Register(ctx, RegisterMonitorInput{
			URL:       "https://example.com",
			Contact:   contact,
			Frequency: "daily",
		})
		require.NoError(t, err)
		last = m
	}
	_, err := svc.Deactivate(ctx, last.ID.String())
	require.NoError(t, err)

	// A fresh process starts with whatever the store holds.
	metrics.MonitorsActive.Set(0)
	require.NoError(t, svc.SyncMetrics(ctx))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.MonitorsActive))
}

func TestMonitorServiceCompleteRun(t *testing.T) {
	svc := newMonitorService()
	ctx := context.Background()

	m, err := svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com",
		Contact:   "team@example.com",
		Frequency: "daily",
	})
	require.NoError(t, err)

	ranAt := time.Now()
	require.NoError(t, svc.CompleteRun(ctx, m, 87, ranAt))

	stored, err := svc.GetMonitor(ctx, m.ID.String())
	require.NoError(t, err)
	require.NotNil(t, stored.LastScore)
	assert.Equal(t, 87, *stored.LastScore)
	assert.Equal(t, ranAt.Add(24*time.Hour), stored.NextDueAt)

	due, err := svc.Due(ctx, ranAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = svc.Due(ctx, ranAt.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestMonitorServiceRecordFailure(t *testing.T) {
	svc := newMonitorService()
	ctx := context.Background()

	m, err := svc.Register(ctx, RegisterMonitorInput{
		URL:       "https://example.com",
		Contact:   "team@example.com",
		Frequency: "daily",
	})
	require.NoError(t, err)

	failedAt := time.Now()
	require.NoError(t, svc.RecordFailure(ctx, m, failedAt))

	stored, err := svc.GetMonitor(ctx, m.ID.String())
	require.NoError(t, err)
	assert.Nil(t, stored.LastScore, "failed runs record no score")
	assert.Equal(t, failedAt.Add(24*time.Hour), stored.NextDueAt)
}
