package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/a11ylens/api/pkg/domain/monitor"
	"github.com/a11ylens/api/pkg/domain/shared"
)

// MonitorRepository implements monitor.Repository backed by
// PostgreSQL.
type MonitorRepository struct {
	db *DB
}

// NewMonitorRepository creates a monitor repository.
func NewMonitorRepository(db *DB) *MonitorRepository {
	return &MonitorRepository{db: db}
}

const monitorColumns = `id, url, host, contact, frequency, schedule_cron, active, last_scan_at, last_score, next_due_at, created_at, updated_at`

// Create persists a new monitor. A (host, contact) collision is
// reported as a conflict.
func (r *MonitorRepository) Create(ctx context.Context, m *monitor.Monitor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO monitors (id, url, host, contact, frequency, schedule_cron, active, last_scan_at, last_score, next_due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.URL, m.Host, m.Contact, string(m.Frequency),
		nullStringValue(m.ScheduleCron), m.Active,
		nullTimeValue(m.LastScanAt), nullIntValue(m.LastScore),
		m.NextDueAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError("MONITOR_EXISTS", "monitor already registered for this host and contact", shared.ErrConflict)
		}
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	return nil
}

// Update persists changes to an existing monitor.
func (r *MonitorRepository) Update(ctx context.Context, m *monitor.Monitor) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE monitors
		SET url = $2, frequency = $3, schedule_cron = $4, active = $5,
		    last_scan_at = $6, last_score = $7, next_due_at = $8, updated_at = $9
		WHERE id = $1`,
		m.ID, m.URL, string(m.Frequency), nullStringValue(m.ScheduleCron),
		m.Active, nullTimeValue(m.LastScanAt), nullIntValue(m.LastScore),
		m.NextDueAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update monitor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return shared.NewDomainError("MONITOR_NOT_FOUND", "monitor not found", shared.ErrNotFound)
	}
	return nil
}

// FindByID retrieves a monitor by its identifier.
func (r *MonitorRepository) FindByID(ctx context.Context, id shared.ID) (*monitor.Monitor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+monitorColumns+` FROM monitors WHERE id = $1`, id)
	m, err := monitorRow(row)
	if err == sql.ErrNoRows {
		return nil, shared.NewDomainError("MONITOR_NOT_FOUND", "monitor not found", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find monitor: %w", err)
	}
	return m, nil
}

// FindByTarget retrieves the monitor registered for a normalized
// host and contact pair.
func (r *MonitorRepository) FindByTarget(ctx context.Context, host, contact string) (*monitor.Monitor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+monitorColumns+` FROM monitors WHERE host = $1 AND contact = $2`, host, contact)
	m, err := monitorRow(row)
	if err == sql.ErrNoRows {
		return nil, shared.NewDomainError("MONITOR_NOT_FOUND", "monitor not found", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find monitor by target: %w", err)
	}
	return m, nil
}

// List returns all monitors, newest first.
func (r *MonitorRepository) List(ctx context.Context) ([]*monitor.Monitor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+monitorColumns+` FROM monitors ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitors: %w", err)
	}
	defer rows.Close()
	return monitorRows(rows)
}

// ListDue returns active monitors whose next run time has passed.
func (r *MonitorRepository) ListDue(ctx context.Context, now time.Time) ([]*monitor.Monitor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+monitorColumns+` FROM monitors
		WHERE active AND next_due_at <= $1
		ORDER BY next_due_at ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due monitors: %w", err)
	}
	defer rows.Close()
	return monitorRows(rows)
}

// CountActive returns the number of active monitors.
func (r *MonitorRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM monitors WHERE active`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active monitors: %w", err)
	}
	return count, nil
}

func monitorRow(row rowScanner) (*monitor.Monitor, error) {
	var (
		m         monitor.Monitor
		frequency string
		cron      sql.NullString
		lastScan  sql.NullTime
		lastScore sql.NullInt64
	)
	err := row.Scan(
		&m.ID, &m.URL, &m.Host, &m.Contact, &frequency, &cron,
		&m.Active, &lastScan, &lastScore, &m.NextDueAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Frequency = monitor.Frequency(frequency)
	m.ScheduleCron = nullString(cron)
	m.LastScanAt = nullTime(lastScan)
	m.LastScore = nullInt(lastScore)
	return &m, nil
}

func monitorRows(rows *sql.Rows) ([]*monitor.Monitor, error) {
	var monitors []*monitor.Monitor
	for rows.Next() {
		m, err := monitorRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		monitors = append(monitors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return monitors, nil
}
