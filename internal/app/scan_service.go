// Package app contains the application services that orchestrate
// domain logic, fetching, and persistence.
package app

import (
	"context"
	"time"

	"github.com/a11ylens/api/internal/app/analyzer"
	"github.com/a11ylens/api/internal/metrics"
	"github.com/a11ylens/api/pkg/domain/scan"
	"github.com/a11ylens/api/pkg/domain/shared"
	"github.com/a11ylens/api/pkg/logger"
	"github.com/a11ylens/api/pkg/pagination"
)

// PageFetcher retrieves the HTML body of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// ScanService runs accessibility scans and serves scan history.
type ScanService struct {
	fetcher PageFetcher
	repo    scan.Repository
	logger  *logger.Logger
}

// NewScanService creates a new ScanService.
func NewScanService(fetcher PageFetcher, repo scan.Repository, log *logger.Logger) *ScanService {
	return &ScanService{
		fetcher: fetcher,
		repo:    repo,
		logger:  log.With("service", "scan"),
	}
}

// ScanInput represents the input for running a scan.
type ScanInput struct {
	URL string `json:"url" validate:"required,max=2048"`
}

// Scan fetches the target page, evaluates the rule catalogue against
// it, and persists the resulting record.
func (s *ScanService) Scan(ctx context.Context, input ScanInput) (*scan.Record, error) {
	return s.run(ctx, input.URL, "api")
}

// ScanForMonitor runs a scan on behalf of the monitor scheduler.
func (s *ScanService) ScanForMonitor(ctx context.Context, rawURL string) (*scan.Record, error) {
	return s.run(ctx, rawURL, "monitor")
}

func (s *ScanService) run(ctx context.Context, rawURL, trigger string) (*scan.Record, error) {
	normalized, err := shared.NormalizeURL(rawURL)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(trigger, "invalid").Inc()
		return nil, err
	}

	s.logger.Info("starting scan", "url", normalized, "trigger", trigger)
	start := time.Now()

	markup, err := s.fetcher.Fetch(ctx, normalized)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(trigger, "fetch_error").Inc()
		s.logger.WithError(err).Warn("page fetch failed", "url", normalized)
		return nil, err
	}

	result := analyzer.Evaluate(markup)
	rec := scan.NewRecord(normalized, result.Issues, result.Warnings, result.Passes, result.Page)

	if err := s.repo.Save(ctx, rec); err != nil {
		metrics.ScansTotal.WithLabelValues(trigger, "store_error").Inc()
		s.logger.WithError(err).Error("failed to save scan", "url", normalized)
		return nil, err
	}

	metrics.ScansTotal.WithLabelValues(trigger, "success").Inc()
	metrics.ScanDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	metrics.ScanScore.Observe(float64(rec.Score))
	for _, issue := range rec.Issues {
		metrics.ScanIssuesTotal.WithLabelValues(string(issue.Rule.Severity)).Add(float64(issue.Count))
	}

	s.logger.Info("scan complete",
		"url", normalized,
		"scan_id", rec.ID.String(),
		"score", rec.Score,
		"level", string(rec.Level),
		"issues", len(rec.Issues),
		"duration", time.Since(start),
	)
	return rec, nil
}

// GetScan retrieves a scan record by its identifier.
func (s *ScanService) GetScan(ctx context.Context, id string) (*scan.Record, error) {
	scanID, err := shared.IDFromString(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SCAN_ID", "invalid scan id", shared.ErrInvalidInput)
	}
	return s.repo.FindByID(ctx, scanID)
}

// History returns retained scan records, newest first, optionally
// filtered by a target URL substring.
func (s *ScanService) History(ctx context.Context, targetFilter string, page, perPage int) (pagination.Result[*scan.Record], error) {
	p := pagination.New(page, perPage)

	records, err := s.repo.List(ctx, targetFilter, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Result[*scan.Record]{}, err
	}
	total, err := s.repo.Count(ctx, targetFilter)
	if err != nil {
		return pagination.Result[*scan.Record]{}, err
	}

	return pagination.NewResult(records, int64(total), p), nil
}

// TrendReport describes how a host's scans have evolved over time.
type TrendReport struct {
	Host       string             `json:"host"`
	DataPoints []scan.DataPoint   `json:"data_points"`
	Trend      *scan.TrendSummary `json:"trend,omitempty"`
	Diffs      []scan.PairDiff    `json:"diffs,omitempty"`
}

// Trend builds the trend report for the host of the given URL. The
// trend summary is absent when fewer than two scans exist.
func (s *ScanService) Trend(ctx context.Context, rawURL string) (*TrendReport, error) {
	normalized, err := shared.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	host := shared.NormalizeHost(normalized)

	history, err := s.repo.ListByHost(ctx, host)
	if err != nil {
		return nil, err
	}

	return &TrendReport{
		Host:       host,
		DataPoints: scan.DataPoints(history),
		Trend:      scan.ComputeTrend(history),
		Diffs:      scan.DiffHistory(history),
	}, nil
}
