package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/a11ylens/api/pkg/domain/scan"
	"github.com/a11ylens/api/pkg/domain/shared"
)

// ScanRepository implements scan.Repository backed by PostgreSQL.
// A retention cap keeps the table bounded: once maxHistory records
// exist, saving a new one deletes the oldest.
type ScanRepository struct {
	db         *DB
	maxHistory int
}

// NewScanRepository creates a scan repository with the given
// retention cap.
func NewScanRepository(db *DB, maxHistory int) *ScanRepository {
	return &ScanRepository{db: db, maxHistory: maxHistory}
}

const scanColumns = `id, target_url, host, score, level, summary, issues, warnings, passes, page, created_at`

// Save persists a scan record and prunes records beyond the
// retention cap, oldest first.
func (r *ScanRepository) Save(ctx context.Context, rec *scan.Record) error {
	summary, err := toJSONB(rec.Summary)
	if err != nil {
		return err
	}
	issues, err := toJSONB(rec.Issues)
	if err != nil {
		return err
	}
	warnings, err := toJSONB(rec.Warnings)
	if err != nil {
		return err
	}
	passes, err := toJSONB(rec.Passes)
	if err != nil {
		return err
	}
	page, err := toJSONB(rec.Page)
	if err != nil {
		return err
	}

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scans (id, target_url, host, score, level, summary, issues, warnings, passes, page, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			rec.ID, rec.TargetURL, rec.Host, rec.Score, string(rec.Level),
			summary, issues, warnings, passes, page, rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert scan: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM scans WHERE id IN (
				SELECT id FROM scans ORDER BY created_at DESC OFFSET $1
			)`, r.maxHistory)
		if err != nil {
			return fmt.Errorf("failed to prune scans: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a scan record by its identifier.
func (r *ScanRepository) FindByID(ctx context.Context, id shared.ID) (*scan.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+scanColumns+` FROM scans WHERE id = $1`, id)
	rec, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, shared.NewDomainError("SCAN_NOT_FOUND", "scan not found", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find scan: %w", err)
	}
	return rec, nil
}

// List returns up to limit records whose target URL contains the
// filter, newest first. An empty filter matches everything.
func (r *ScanRepository) List(ctx context.Context, targetFilter string, limit, offset int) ([]*scan.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+scanColumns+` FROM scans
		WHERE $1 = '' OR target_url ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, targetFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByHost returns all records for a normalized host, oldest
// first.
func (r *ScanRepository) ListByHost(ctx context.Context, host string) ([]*scan.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+scanColumns+` FROM scans
		WHERE host = $1
		ORDER BY created_at ASC`, host)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans by host: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Count returns the number of retained scan records matching the
// filter.
func (r *ScanRepository) Count(ctx context.Context, targetFilter string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM scans
		WHERE $1 = '' OR target_url ILIKE '%' || $1 || '%'`, targetFilter).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*scan.Record, error) {
	var (
		rec      scan.Record
		level    string
		summary  []byte
		issues   []byte
		warnings []byte
		passes   []byte
		page     []byte
	)
	err := row.Scan(
		&rec.ID, &rec.TargetURL, &rec.Host, &rec.Score, &level,
		&summary, &issues, &warnings, &passes, &page, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Level = scan.ComplianceLevel(level)
	if err := fromJSONB(summary, &rec.Summary); err != nil {
		return nil, err
	}
	if err := fromJSONB(issues, &rec.Issues); err != nil {
		return nil, err
	}
	if err := fromJSONB(warnings, &rec.Warnings); err != nil {
		return nil, err
	}
	if err := fromJSONB(passes, &rec.Passes); err != nil {
		return nil, err
	}
	if err := fromJSONB(page, &rec.Page); err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRows(rows *sql.Rows) ([]*scan.Record, error) {
	var records []*scan.Record
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return records, nil
}
