// Package analyzer evaluates a page's markup against the accessibility
// rule catalogue. The document is parsed and indexed once; each rule's
// predicate then runs independently over the index.
package analyzer

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/a11ylens/api/pkg/domain/rule"
	"github.com/a11ylens/api/pkg/domain/scan"
)

// Result is the raw evaluator output before scoring.
type Result struct {
	Issues   []scan.Issue
	Warnings []scan.Warning
	Passes   []scan.Pass
	Page     scan.PageMetadata
}

// Evaluate parses markup and applies every catalogue rule. Malformed
// markup degrades gracefully: the HTML5 parser always produces a tree,
// so broken documents simply yield fewer matching elements instead of
// failing the scan.
func Evaluate(markup string) *Result {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors; fall back to an
		// empty document so evaluation still runs.
		doc, _ = html.Parse(strings.NewReader(""))
	}

	page := buildPage(doc)

	result := &Result{
		Issues:   []scan.Issue{},
		Warnings: []scan.Warning{},
		Passes:   []scan.Pass{},
		Page: scan.PageMetadata{
			Title:     page.title,
			Language:  page.lang,
			Images:    len(page.images),
			Links:     len(page.links),
			Forms:     page.forms,
			Landmarks: page.landmarks,
			Headings:  len(page.headings),
		},
	}

	for _, def := range rule.Catalogue() {
		predicate, ok := predicates[def.ID]
		if !ok {
			continue
		}

		violations, applicable := predicate(page)
		if !applicable {
			continue
		}

		switch {
		case len(violations) == 0:
			result.Passes = append(result.Passes, scan.Pass{Rule: def})
		case def.Advisory:
			result.Warnings = append(result.Warnings, scan.Warning{
				Rule:     def,
				Count:    len(violations),
				Excerpts: capExcerpts(violations),
			})
		default:
			result.Issues = append(result.Issues, scan.Issue{
				Rule:     def,
				Count:    len(violations),
				Excerpts: capExcerpts(violations),
			})
		}
	}

	return result
}

// capExcerpts keeps the first few excerpts; issue counts still carry
// the true total.
func capExcerpts(violations []string) []string {
	if len(violations) <= scan.MaxExcerpts {
		return violations
	}
	return violations[:scan.MaxExcerpts]
}
