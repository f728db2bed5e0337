package scan

import (
	"math"

	"github.com/a11ylens/api/pkg/domain/rule"
)

// ComplianceLevel is an ordinal classification of a scan result.
type ComplianceLevel string

// Compliance levels, best to worst.
const (
	LevelCompliant          ComplianceLevel = "compliant"
	LevelNeedsImprovement   ComplianceLevel = "needs-improvement"
	LevelPartiallyCompliant ComplianceLevel = "partially-compliant"
	LevelNonCompliant       ComplianceLevel = "non-compliant"
)

// Rank returns the ordinal position of the level, compliant lowest.
func (l ComplianceLevel) Rank() int {
	switch l {
	case LevelCompliant:
		return 0
	case LevelNeedsImprovement:
		return 1
	case LevelPartiallyCompliant:
		return 2
	case LevelNonCompliant:
		return 3
	default:
		return -1
	}
}

// Classify converts evaluator output into a 0-100 score and a
// compliance level.
//
// Score is the rounded percentage of applicable rules that passed.
// When no rule was applicable the score is 0.
//
// The level escalates on the issue severity multiset, most severe
// wins: any critical issue is non-compliant; otherwise more than one
// serious issue is partially-compliant; otherwise any issue at all is
// needs-improvement; otherwise compliant. A single serious issue alone
// therefore classifies as needs-improvement.
func Classify(issues []Issue, passes []Pass) (int, ComplianceLevel) {
	score := 0
	if total := len(passes) + len(issues); total > 0 {
		score = int(math.Round(100 * float64(len(passes)) / float64(total)))
	}

	critical := 0
	serious := 0
	for _, issue := range issues {
		switch issue.Rule.Severity {
		case rule.SeverityCritical:
			critical++
		case rule.SeveritySerious:
			serious++
		}
	}

	level := LevelCompliant
	switch {
	case critical > 0:
		level = LevelNonCompliant
	case serious > 1:
		level = LevelPartiallyCompliant
	case len(issues) > 0:
		level = LevelNeedsImprovement
	}

	return score, level
}
