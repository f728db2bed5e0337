package monitor

import (
	"context"
	"time"

	"github.com/a11ylens/api/pkg/domain/shared"
)

// Repository persists monitors. The scheduler is the single writer
// after registration; implementations must serialize concurrent
// access.
type Repository interface {
	// Create persists a new monitor.
	Create(ctx context.Context, m *Monitor) error

	// Update persists monitor mutations.
	Update(ctx context.Context, m *Monitor) error

	// FindByID returns a monitor by identifier.
	FindByID(ctx context.Context, id shared.ID) (*Monitor, error)

	// FindByTarget returns the monitor for a (normalized host,
	// contact) pair; registration is idempotent on this key.
	FindByTarget(ctx context.Context, host, contact string) (*Monitor, error)

	// List returns all monitors, including deactivated ones.
	List(ctx context.Context) ([]*Monitor, error)

	// ListDue returns active monitors whose next-due timestamp is at
	// or before the given instant.
	ListDue(ctx context.Context, now time.Time) ([]*Monitor, error)

	// CountActive returns the number of active monitors.
	CountActive(ctx context.Context) (int, error)
}
