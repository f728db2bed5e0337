package memory

import (
	"context"
	"sync"
	"time"

	"github.com/a11ylens/api/pkg/domain/monitor"
	"github.com/a11ylens/api/pkg/domain/shared"
)

// MonitorRepository stores monitors in memory. Entities are copied on
// the way in and out so callers cannot mutate stored state without
// going through Update.
type MonitorRepository struct {
	mu       sync.RWMutex
	monitors []*monitor.Monitor
	byID     map[string]*monitor.Monitor
}

// NewMonitorRepository creates an empty monitor repository.
func NewMonitorRepository() *MonitorRepository {
	return &MonitorRepository{
		byID: make(map[string]*monitor.Monitor),
	}
}

// Create persists a new monitor.
func (r *MonitorRepository) Create(_ context.Context, m *monitor.Monitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID.String()]; exists {
		return shared.NewDomainError("CONFLICT", "monitor already exists", shared.ErrConflict)
	}

	stored := *m
	r.monitors = append(r.monitors, &stored)
	r.byID[m.ID.String()] = &stored
	return nil
}

// Update persists monitor mutations.
func (r *MonitorRepository) Update(_ context.Context, m *monitor.Monitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[m.ID.String()]
	if !ok {
		return shared.NewDomainError("NOT_FOUND", "monitor not found", shared.ErrNotFound)
	}
	*stored = *m
	return nil
}

// FindByID returns a monitor by identifier.
func (r *MonitorRepository) FindByID(_ context.Context, id shared.ID) (*monitor.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id.String()]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "monitor not found", shared.ErrNotFound)
	}
	copied := *stored
	return &copied, nil
}

// FindByTarget returns the monitor for a (host, contact) pair.
func (r *MonitorRepository) FindByTarget(_ context.Context, host, contact string) (*monitor.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.monitors {
		if stored.Host == host && stored.Contact == contact {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "monitor not found", shared.ErrNotFound)
}

// List returns all monitors in registration order.
func (r *MonitorRepository) List(_ context.Context) ([]*monitor.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*monitor.Monitor, 0, len(r.monitors))
	for _, stored := range r.monitors {
		copied := *stored
		results = append(results, &copied)
	}
	return results, nil
}

// ListDue returns active monitors due at or before the given instant.
func (r *MonitorRepository) ListDue(_ context.Context, now time.Time) ([]*monitor.Monitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*monitor.Monitor
	for _, stored := range r.monitors {
		if stored.IsDue(now) {
			copied := *stored
			results = append(results, &copied)
		}
	}
	return results, nil
}

// CountActive returns the number of active monitors.
func (r *MonitorRepository) CountActive(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, stored := range r.monitors {
		if stored.Active {
			count++
		}
	}
	return count, nil
}
