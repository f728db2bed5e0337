// Package controller implements reconciliation loop controllers for
// background operations. Each controller runs in its own goroutine
// and periodically brings actual state in line with desired state;
// the blocking loop guarantees at most one reconciliation per
// controller at a time, so a slow cycle delays the next tick instead
// of overlapping it.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/a11ylens/api/pkg/logger"
)

// Controller defines the interface for a reconciliation loop
// controller.
type Controller interface {
	// Name returns the unique name of this controller.
	Name() string

	// Interval returns how often this controller should run.
	Interval() time.Duration

	// Reconcile performs the reconciliation logic. It must be
	// idempotent. Returns the number of items processed.
	Reconcile(ctx context.Context) (int, error)
}

// Metrics defines the interface for controller metrics collection.
type Metrics interface {
	RecordReconcile(controller string, itemsProcessed int, duration time.Duration, err error)
	SetControllerRunning(controller string, running bool)
}

// Manager runs registered controllers, each in its own goroutine.
type Manager struct {
	controllers []Controller
	metrics     Metrics
	logger      *logger.Logger
	running     bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
}

// ManagerConfig configures the controller manager.
type ManagerConfig struct {
	// Metrics collector (optional)
	Metrics Metrics

	// Logger (required)
	Logger *logger.Logger
}

// NewManager creates a new controller manager.
func NewManager(cfg *ManagerConfig) *Manager {
	return &Manager{
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		stopCh:  make(chan struct{}),
	}
}

// Register adds a controller to the manager.
func (m *Manager) Register(c Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		panic("cannot register controllers while manager is running")
	}

	m.controllers = append(m.controllers, c)
	m.logger.Info("controller registered",
		"name", c.Name(),
		"interval", c.Interval().String(),
	)
}

// Start starts all registered controllers.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("controller manager already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.mu.Unlock()

	m.logger.Info("starting controller manager",
		"controller_count", len(m.controllers),
	)

	for _, c := range m.controllers {
		m.wg.Add(1)
		go m.runController(ctx, c)
	}
	return nil
}

// Stop stops all controllers and waits for in-flight
// reconciliations to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()

	m.logger.Info("stopping controller manager")
	m.wg.Wait()
	m.logger.Info("controller manager stopped")
	return nil
}

// IsRunning checks if the manager is running.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// runController runs a single controller's reconciliation loop.
func (m *Manager) runController(ctx context.Context, c Controller) {
	defer m.wg.Done()

	name := c.Name()
	m.logger.Info("starting controller", "name", name, "interval", c.Interval())
	if m.metrics != nil {
		m.metrics.SetControllerRunning(name, true)
	}

	// Run immediately on start
	m.reconcileOnce(ctx, c)

	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("controller stopping (context canceled)", "name", name)
			if m.metrics != nil {
				m.metrics.SetControllerRunning(name, false)
			}
			return

		case <-m.stopCh:
			m.logger.Info("controller stopping (manager stopped)", "name", name)
			if m.metrics != nil {
				m.metrics.SetControllerRunning(name, false)
			}
			return

		case <-ticker.C:
			m.reconcileOnce(ctx, c)
		}
	}
}

// reconcileOnce runs a single reconciliation with a per-cycle
// timeout equal to the controller interval.
func (m *Manager) reconcileOnce(ctx context.Context, c Controller) {
	name := c.Name()
	start := time.Now()

	reconcileCtx, cancel := context.WithTimeout(ctx, c.Interval())
	defer cancel()

	count, err := c.Reconcile(reconcileCtx)
	duration := time.Since(start)

	switch {
	case err != nil:
		m.logger.Error("controller reconcile failed",
			"name", name,
			"duration", duration,
			"error", err,
		)
	case count > 0:
		m.logger.Info("controller reconcile completed",
			"name", name,
			"items_processed", count,
			"duration", duration,
		)
	default:
		m.logger.Debug("controller reconcile completed (no items)",
			"name", name,
			"duration", duration,
		)
	}

	if m.metrics != nil {
		m.metrics.RecordReconcile(name, count, duration, err)
	}
}
