// Package memory provides mutex-guarded in-memory repositories. They
// back the memory database driver and the test suites; the scheduler
// and the HTTP handlers run on separate goroutines, so every
// repository serializes access.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/a11ylens/api/pkg/domain/scan"
	"github.com/a11ylens/api/pkg/domain/shared"
)

// DefaultMaxRecords bounds the retained scan history.
const DefaultMaxRecords = 100

// ScanRepository is an append-only, capped scan store. Oldest records
// are evicted first once the cap is reached.
type ScanRepository struct {
	mu      sync.RWMutex
	records []*scan.Record
	byID    map[string]*scan.Record
	max     int
}

// NewScanRepository creates a scan repository retaining at most max
// records; max <= 0 selects the default cap.
func NewScanRepository(max int) *ScanRepository {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &ScanRepository{
		records: make([]*scan.Record, 0, max),
		byID:    make(map[string]*scan.Record),
		max:     max,
	}
}

// Save appends a record, evicting the oldest when over the cap.
func (r *ScanRepository) Save(_ context.Context, record *scan.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	r.byID[record.ID.String()] = record

	for len(r.records) > r.max {
		evicted := r.records[0]
		r.records = r.records[1:]
		delete(r.byID, evicted.ID.String())
	}
	return nil
}

// FindByID returns a record by exact identifier.
func (r *ScanRepository) FindByID(_ context.Context, id shared.ID) (*scan.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id.String()]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "scan not found", shared.ErrNotFound)
	}
	return record, nil
}

// List returns records most recent first, filtered by substring match
// on the target URL when targetFilter is non-empty.
func (r *ScanRepository) List(_ context.Context, targetFilter string, limit, offset int) ([]*scan.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter := strings.ToLower(targetFilter)
	results := make([]*scan.Record, 0, limit)
	skipped := 0
	for i := len(r.records) - 1; i >= 0; i-- {
		record := r.records[i]
		if filter != "" && !strings.Contains(strings.ToLower(record.TargetURL), filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		results = append(results, record)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// ListByHost returns the full history for a normalized host, oldest
// first.
func (r *ScanRepository) ListByHost(_ context.Context, host string) ([]*scan.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*scan.Record
	for _, record := range r.records {
		if record.Host == host {
			results = append(results, record)
		}
	}
	return results, nil
}

// Count returns the number of retained records matching the filter.
func (r *ScanRepository) Count(_ context.Context, targetFilter string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if targetFilter == "" {
		return len(r.records), nil
	}

	filter := strings.ToLower(targetFilter)
	count := 0
	for _, record := range r.records {
		if strings.Contains(strings.ToLower(record.TargetURL), filter) {
			count++
		}
	}
	return count, nil
}
