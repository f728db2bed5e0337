package scan

import (
	"sort"
	"time"

	"github.com/a11ylens/api/pkg/domain/shared"
)

// PairDiff is the issue-set difference between two consecutive scans
// of the same host. Differences are computed over rule identifiers;
// occurrence-count changes for the same rule are not reported.
type PairDiff struct {
	EarlierID shared.ID `json:"earlier_id"`
	LaterID   shared.ID `json:"later_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`

	// Fixed lists rule IDs present as issues earlier but absent later.
	Fixed []string `json:"fixed"`

	// Introduced lists rule IDs absent earlier but present later.
	Introduced []string `json:"introduced"`
}

// DiffPair computes the issue-set difference between an earlier and a
// later record.
func DiffPair(earlier, later *Record) PairDiff {
	before := earlier.IssueRuleIDs()
	after := later.IssueRuleIDs()

	diff := PairDiff{
		EarlierID:  earlier.ID,
		LaterID:    later.ID,
		From:       earlier.CreatedAt,
		To:         later.CreatedAt,
		Fixed:      []string{},
		Introduced: []string{},
	}

	for id := range before {
		if _, still := after[id]; !still {
			diff.Fixed = append(diff.Fixed, id)
		}
	}
	for id := range after {
		if _, existed := before[id]; !existed {
			diff.Introduced = append(diff.Introduced, id)
		}
	}

	sort.Strings(diff.Fixed)
	sort.Strings(diff.Introduced)
	return diff
}

// DiffHistory computes pairwise diffs for each consecutive pair of a
// history ordered oldest first.
func DiffHistory(history []*Record) []PairDiff {
	if len(history) < 2 {
		return []PairDiff{}
	}

	diffs := make([]PairDiff, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		diffs = append(diffs, DiffPair(history[i-1], history[i]))
	}
	return diffs
}
