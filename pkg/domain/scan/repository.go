package scan

import (
	"context"

	"github.com/a11ylens/api/pkg/domain/shared"
)

// Repository is the append-only scan store. Implementations enforce a
// maximum retained record count, evicting oldest first. Records are
// immutable once saved.
type Repository interface {
	// Save appends a record, pruning beyond the retention cap.
	Save(ctx context.Context, record *Record) error

	// FindByID returns a record by its exact identifier.
	FindByID(ctx context.Context, id shared.ID) (*Record, error)

	// List returns records most recent first, optionally filtered by
	// substring match on the target URL.
	List(ctx context.Context, targetFilter string, limit, offset int) ([]*Record, error)

	// ListByHost returns all records for a normalized host, oldest
	// first, for trend and diff derivation.
	ListByHost(ctx context.Context, host string) ([]*Record, error)

	// Count returns the number of retained records matching the
	// filter; an empty filter counts everything.
	Count(ctx context.Context, targetFilter string) (int, error)
}
