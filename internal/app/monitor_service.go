package app

import (
	"context"
	"time"

	"github.com/a11ylens/api/internal/metrics"
	"github.com/a11ylens/api/pkg/domain/monitor"
	"github.com/a11ylens/api/pkg/domain/shared"
	"github.com/a11ylens/api/pkg/logger"
)

// MonitorService manages recurring scan registrations.
type MonitorService struct {
	repo   monitor.Repository
	logger *logger.Logger
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(repo monitor.Repository, log *logger.Logger) *MonitorService {
	return &MonitorService{
		repo:   repo,
		logger: log.With("service", "monitor"),
	}
}

// RegisterMonitorInput represents the input for registering a
// monitor.
type RegisterMonitorInput struct {
	URL       string `json:"url" validate:"required,max=2048"`
	Contact   string `json:"contact" validate:"required,email,max=254"`
	Frequency string `json:"frequency" validate:"required,oneof=daily weekly monthly"`

	// ScheduleCron overrides the frequency cadence when set. An empty
	// value on re-registration clears a previous override.
	ScheduleCron string `json:"schedule_cron" validate:"omitempty,max=128"`
}

// Register creates a monitor for the URL's host and contact pair.
// Registration is idempotent: an existing monitor for the same pair
// is updated in place, reactivating it when inactive.
func (s *MonitorService) Register(ctx context.Context, input RegisterMonitorInput) (*monitor.Monitor, error) {
	normalized, err := shared.NormalizeURL(input.URL)
	if err != nil {
		return nil, err
	}
	host := shared.NormalizeHost(normalized)
	freq := monitor.Frequency(input.Frequency)

	existing, err := s.repo.FindByTarget(ctx, host, input.Contact)
	if err == nil {
		wasActive := existing.Active
		if err := existing.Reactivate(freq); err != nil {
			return nil, err
		}
		if err := existing.SetCron(input.ScheduleCron); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		if !wasActive {
			metrics.MonitorsActive.Inc()
		}
		s.logger.Info("monitor re-registered",
			"monitor_id", existing.ID.String(),
			"host", host,
			"frequency", string(freq),
		)
		return existing, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	m, err := monitor.NewMonitor(normalized, input.Contact, freq)
	if err != nil {
		return nil, err
	}
	if err := m.SetCron(input.ScheduleCron); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	metrics.MonitorsActive.Inc()
	s.logger.Info("monitor registered",
		"monitor_id", m.ID.String(),
		"host", host,
		"frequency", string(freq),
	)
	return m, nil
}

// SyncMetrics primes the active-monitor gauge from the store, so the
// gauge reflects durable state after a restart rather than starting
// at zero.
func (s *MonitorService) SyncMetrics(ctx context.Context) error {
	count, err := s.repo.CountActive(ctx)
	if err != nil {
		return err
	}
	metrics.MonitorsActive.Set(float64(count))
	return nil
}

// GetMonitor retrieves a monitor by its identifier.
func (s *MonitorService) GetMonitor(ctx context.Context, id string) (*monitor.Monitor, error) {
	monitorID, err := shared.IDFromString(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_MONITOR_ID", "invalid monitor id", shared.ErrInvalidInput)
	}
	return s.repo.FindByID(ctx, monitorID)
}

// List returns all registered monitors.
func (s *MonitorService) List(ctx context.Context) ([]*monitor.Monitor, error) {
	return s.repo.List(ctx)
}

// Deactivate stops a monitor from being scheduled. The registration
// is retained so a later Register call can revive it.
func (s *MonitorService) Deactivate(ctx context.Context, id string) (*monitor.Monitor, error) {
	monitorID, err := shared.IDFromString(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_MONITOR_ID", "invalid monitor id", shared.ErrInvalidInput)
	}

	m, err := s.repo.FindByID(ctx, monitorID)
	if err != nil {
		return nil, err
	}
	if m.Active {
		m.Deactivate()
		if err := s.repo.Update(ctx, m); err != nil {
			return nil, err
		}
		metrics.MonitorsActive.Dec()
	}

	s.logger.Info("monitor deactivated", "monitor_id", m.ID.String(), "host", m.Host)
	return m, nil
}

// Due returns active monitors whose next run time has passed.
func (s *MonitorService) Due(ctx context.Context, now time.Time) ([]*monitor.Monitor, error) {
	return s.repo.ListDue(ctx, now)
}

// CompleteRun records a successful scheduled scan and advances the
// monitor's next run time.
func (s *MonitorService) CompleteRun(ctx context.Context, m *monitor.Monitor, score int, at time.Time) error {
	m.RecordRun(score, at)
	return s.repo.Update(ctx, m)
}

// RecordFailure advances the monitor's next run time after a failed
// scheduled scan so a broken target does not retry every tick.
func (s *MonitorService) RecordFailure(ctx context.Context, m *monitor.Monitor, at time.Time) error {
	m.RecordFailure(at)
	return s.repo.Update(ctx, m)
}
