package controller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/a11ylens/api/internal/metrics"
	"github.com/a11ylens/api/pkg/domain/monitor"
	"github.com/a11ylens/api/pkg/domain/scan"
	"github.com/a11ylens/api/pkg/logger"
)

// MonitorScheduler provides the due monitors and records run
// outcomes.
type MonitorScheduler interface {
	Due(ctx context.Context, now time.Time) ([]*monitor.Monitor, error)
	CompleteRun(ctx context.Context, m *monitor.Monitor, score int, at time.Time) error
	RecordFailure(ctx context.Context, m *monitor.Monitor, at time.Time) error
}

// MonitorScanner runs a scheduled scan for a monitor's URL.
type MonitorScanner interface {
	ScanForMonitor(ctx context.Context, rawURL string) (*scan.Record, error)
}

// MonitorScanControllerConfig configures the MonitorScanController.
type MonitorScanControllerConfig struct {
	// Interval is how often to look for due monitors.
	// Default: 1 hour.
	Interval time.Duration

	// Concurrency bounds how many monitors are scanned in parallel
	// within one cycle. Default: 3.
	Concurrency int

	// Logger for logging.
	Logger *logger.Logger
}

// MonitorScanController periodically scans the targets of all due
// monitors. One failing target never blocks the rest of the batch:
// its next run time is advanced and the cycle continues.
type MonitorScanController struct {
	scheduler MonitorScheduler
	scanner   MonitorScanner
	config    *MonitorScanControllerConfig
	logger    *logger.Logger
	lastRun   time.Time
}

// NewMonitorScanController creates a new MonitorScanController.
func NewMonitorScanController(
	scheduler MonitorScheduler,
	scanner MonitorScanner,
	config *MonitorScanControllerConfig,
) *MonitorScanController {
	if config == nil {
		config = &MonitorScanControllerConfig{}
	}
	if config.Interval == 0 {
		config.Interval = time.Hour
	}
	if config.Concurrency < 1 {
		config.Concurrency = 3
	}
	if config.Logger == nil {
		config.Logger = logger.NewNop()
	}

	return &MonitorScanController{
		scheduler: scheduler,
		scanner:   scanner,
		config:    config,
		logger:    config.Logger.With("controller", "monitor_scan"),
	}
}

// Name returns the controller name.
func (c *MonitorScanController) Name() string {
	return "monitor_scan"
}

// Interval returns how often this controller should run.
func (c *MonitorScanController) Interval() time.Duration {
	return c.config.Interval
}

// Reconcile scans every due monitor's target, bounded by the
// configured concurrency.
func (c *MonitorScanController) Reconcile(ctx context.Context) (int, error) {
	now := time.Now()
	if !c.lastRun.IsZero() {
		metrics.MonitorTickLag.Set(now.Sub(c.lastRun).Seconds())
	}
	c.lastRun = now

	due, err := c.scheduler.Due(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	c.logger.Info("processing due monitors", "count", len(due))

	sem := semaphore.NewWeighted(int64(c.config.Concurrency))
	var wg sync.WaitGroup
	for _, m := range due {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(m *monitor.Monitor) {
			defer wg.Done()
			defer sem.Release(1)
			c.runOne(ctx, m)
		}(m)
	}
	wg.Wait()

	return len(due), nil
}

// runOne scans a single monitor's target and records the outcome.
func (c *MonitorScanController) runOne(ctx context.Context, m *monitor.Monitor) {
	log := c.logger.With("monitor_id", m.ID.String(), "url", m.URL)

	rec, err := c.scanner.ScanForMonitor(ctx, m.URL)
	at := time.Now()
	if err != nil {
		metrics.MonitorRunsTotal.WithLabelValues("failure").Inc()
		log.WithError(err).Warn("scheduled scan failed")
		if err := c.scheduler.RecordFailure(ctx, m, at); err != nil {
			log.WithError(err).Error("failed to record monitor failure")
		}
		return
	}

	metrics.MonitorRunsTotal.WithLabelValues("success").Inc()
	log.Info("scheduled scan complete",
		"scan_id", rec.ID.String(),
		"score", rec.Score,
		"level", string(rec.Level),
	)
	if err := c.scheduler.CompleteRun(ctx, m, rec.Score, at); err != nil {
		log.WithError(err).Error("failed to record monitor run")
	}
}
