package scan

import (
	"time"

	"github.com/a11ylens/api/pkg/domain/shared"
)

// Direction labels the sign of a score delta over a scan history.
type Direction string

// Trend directions.
const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

// DataPoint is one scan in a trend series.
type DataPoint struct {
	ScanID     shared.ID       `json:"scan_id"`
	ScannedAt  time.Time       `json:"scanned_at"`
	Score      int             `json:"score"`
	IssueCount int             `json:"issue_count"`
	Level      ComplianceLevel `json:"compliance_level"`
}

// TrendSummary compares the earliest and latest record of a history.
type TrendSummary struct {
	FirstScannedAt  time.Time `json:"first_scanned_at"`
	LatestScannedAt time.Time `json:"latest_scanned_at"`
	FirstScore      int       `json:"first_score"`
	LatestScore     int       `json:"latest_score"`
	ScoreDelta      int       `json:"score_delta"`
	FirstIssues     int       `json:"first_issues"`
	LatestIssues    int       `json:"latest_issues"`
	IssueDelta      int       `json:"issue_delta"`
	Direction       Direction `json:"direction"`
}

// ComputeTrend derives a trend summary from a history ordered oldest
// first. Returns nil when fewer than two records exist; a single scan
// has no trend. The computation is a read-only derivation.
func ComputeTrend(history []*Record) *TrendSummary {
	if len(history) < 2 {
		return nil
	}

	first := history[0]
	latest := history[len(history)-1]

	summary := &TrendSummary{
		FirstScannedAt:  first.CreatedAt,
		LatestScannedAt: latest.CreatedAt,
		FirstScore:      first.Score,
		LatestScore:     latest.Score,
		ScoreDelta:      latest.Score - first.Score,
		FirstIssues:     len(first.Issues),
		LatestIssues:    len(latest.Issues),
		IssueDelta:      len(latest.Issues) - len(first.Issues),
	}

	switch {
	case summary.ScoreDelta > 0:
		summary.Direction = DirectionImproving
	case summary.ScoreDelta < 0:
		summary.Direction = DirectionDeclining
	default:
		summary.Direction = DirectionStable
	}

	return summary
}

// DataPoints projects a history into trend data points.
func DataPoints(history []*Record) []DataPoint {
	points := make([]DataPoint, 0, len(history))
	for _, rec := range history {
		points = append(points, DataPoint{
			ScanID:     rec.ID,
			ScannedAt:  rec.CreatedAt,
			Score:      rec.Score,
			IssueCount: len(rec.Issues),
			Level:      rec.Level,
		})
	}
	return points
}
