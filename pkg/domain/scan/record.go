// Package scan defines the scan record entity, the score/compliance
// classifier, and the trend/diff derivations over a target's history.
package scan

import (
	"time"

	"github.com/a11ylens/api/pkg/domain/rule"
	"github.com/a11ylens/api/pkg/domain/shared"
)

// MaxExcerpts caps how many offending element excerpts are retained
// per issue. Count always reflects the true total.
const MaxExcerpts = 5

// Issue records a rule whose predicate found at least one violation.
type Issue struct {
	Rule     rule.Definition `json:"rule"`
	Count    int             `json:"count"`
	Excerpts []string        `json:"excerpts,omitempty"`
}

// Warning is a soft finding from an advisory rule.
type Warning struct {
	Rule     rule.Definition `json:"rule"`
	Count    int             `json:"count"`
	Excerpts []string        `json:"excerpts,omitempty"`
}

// Pass records an applicable rule whose predicate found no violation.
type Pass struct {
	Rule rule.Definition `json:"rule"`
}

// SeveritySummary counts issues by severity.
type SeveritySummary struct {
	Critical int `json:"critical"`
	Serious  int `json:"serious"`
	Moderate int `json:"moderate"`
	Minor    int `json:"minor"`
}

// PageMetadata describes the scanned document.
type PageMetadata struct {
	Title     string `json:"title"`
	Language  string `json:"language"`
	Images    int    `json:"images"`
	Links     int    `json:"links"`
	Forms     int    `json:"forms"`
	Landmarks int    `json:"landmarks"`
	Headings  int    `json:"headings"`
}

// Record is one immutable scan result. Created once per scan
// invocation and appended to the scan store.
type Record struct {
	ID        shared.ID       `json:"id"`
	TargetURL string          `json:"target_url"`
	Host      string          `json:"host"`
	CreatedAt time.Time       `json:"created_at"`
	Score     int             `json:"score"`
	Level     ComplianceLevel `json:"compliance_level"`
	Summary   SeveritySummary `json:"summary"`
	Issues    []Issue         `json:"issues"`
	Warnings  []Warning       `json:"warnings"`
	Passes    []Pass          `json:"passes"`
	Page      PageMetadata    `json:"page"`
}

// NewRecord assembles a scan record from evaluator output, deriving
// the score, compliance level, and severity summary.
func NewRecord(targetURL string, issues []Issue, warnings []Warning, passes []Pass, page PageMetadata) *Record {
	if issues == nil {
		issues = []Issue{}
	}
	if warnings == nil {
		warnings = []Warning{}
	}
	if passes == nil {
		passes = []Pass{}
	}

	score, level := Classify(issues, passes)

	var summary SeveritySummary
	for _, issue := range issues {
		switch issue.Rule.Severity {
		case rule.SeverityCritical:
			summary.Critical++
		case rule.SeveritySerious:
			summary.Serious++
		case rule.SeverityModerate:
			summary.Moderate++
		case rule.SeverityMinor:
			summary.Minor++
		}
	}

	return &Record{
		ID:        shared.NewID(),
		TargetURL: targetURL,
		Host:      shared.NormalizeHost(targetURL),
		CreatedAt: time.Now().UTC(),
		Score:     score,
		Level:     level,
		Summary:   summary,
		Issues:    issues,
		Warnings:  warnings,
		Passes:    passes,
		Page:      page,
	}
}

// IssueRuleIDs returns the set of rule identifiers present as issues.
func (r *Record) IssueRuleIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(r.Issues))
	for _, issue := range r.Issues {
		ids[issue.Rule.ID] = struct{}{}
	}
	return ids
}
