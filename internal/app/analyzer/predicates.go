package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/a11ylens/api/pkg/contrast"
)

// predicateFunc inspects the page index for one rule. It returns the
// violating element excerpts and whether the rule was applicable at
// all. An inapplicable rule yields neither an issue nor a pass.
//
// Predicates are pure over the Page: they share no mutable state and
// their evaluation order never affects the result set.
type predicateFunc func(p *Page) (violations []string, applicable bool)

// dataTableMinCells is the cell count above which a table is treated
// as a data table rather than layout scaffolding.
const dataTableMinCells = 4

var genericLinkPhrases = map[string]bool{
	"click here":       true,
	"here":             true,
	"click":            true,
	"read more":        true,
	"learn more":       true,
	"more":             true,
	"more info":        true,
	"more information": true,
	"link":             true,
	"continue":         true,
	"continue reading": true,
	"details":          true,
	"this page":        true,
}

var (
	focusBlockPattern   = regexp.MustCompile(`(?is)[^{}]*:focus[^{]*\{[^}]*\}`)
	outlineOffPattern   = regexp.MustCompile(`(?i)outline\s*:\s*(?:none|0)`)
	focusReplacePattern = regexp.MustCompile(`(?i)box-shadow|border`)
)

var interactiveTags = map[atom.Atom]bool{
	atom.A:        true,
	atom.Button:   true,
	atom.Input:    true,
	atom.Select:   true,
	atom.Textarea: true,
	atom.Option:   true,
	atom.Summary:  true,
	atom.Area:     true,
}

var interactiveRoles = map[string]bool{
	"button":     true,
	"link":       true,
	"checkbox":   true,
	"radio":      true,
	"tab":        true,
	"menuitem":   true,
	"switch":     true,
	"option":     true,
	"combobox":   true,
	"listbox":    true,
	"textbox":    true,
	"searchbox":  true,
	"slider":     true,
	"spinbutton": true,
}

// nonLabelableInputTypes are input types excluded from the form-label
// rule: either invisible or natively labelled by the browser.
var nonLabelableInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

var predicates = map[string]predicateFunc{
	"img-alt": func(p *Page) ([]string, bool) {
		if len(p.images) == 0 {
			return nil, false
		}
		var violations []string
		for _, img := range p.images {
			if !hasAttr(img, "alt") && strings.TrimSpace(attr(img, "aria-label")) == "" {
				violations = append(violations, excerpt(img))
			}
		}
		return violations, true
	},

	"html-lang": func(p *Page) ([]string, bool) {
		if p.lang == "" {
			return []string{"<html>"}, true
		}
		return nil, true
	},

	"document-title": func(p *Page) ([]string, bool) {
		if p.title == "" {
			return []string{"<head>"}, true
		}
		return nil, true
	},

	"heading-presence": func(p *Page) ([]string, bool) {
		if len(p.headings) == 0 {
			return []string{"document contains no heading elements"}, true
		}
		return nil, true
	},

	"heading-order": func(p *Page) ([]string, bool) {
		if len(p.headings) == 0 {
			return nil, false
		}
		var violations []string
		for i := 1; i < len(p.headings); i++ {
			if p.headings[i].level > p.headings[i-1].level+1 {
				violations = append(violations, excerpt(p.headings[i].node))
			}
		}
		return violations, true
	},

	"duplicate-id": func(p *Page) ([]string, bool) {
		seen := make(map[string]int, len(p.ids))
		for _, id := range p.ids {
			seen[id]++
		}
		var violations []string
		for _, id := range p.ids {
			if seen[id] > 1 {
				violations = append(violations, `id="`+id+`" used `+strconv.Itoa(seen[id])+` times`)
				seen[id] = 0 // report each duplicated value once
			}
		}
		return violations, true
	},

	"landmarks": func(p *Page) ([]string, bool) {
		if p.landmarks == 0 {
			return []string{"no main/nav/header/footer landmark found"}, true
		}
		return nil, true
	},

	"table-headers": func(p *Page) ([]string, bool) {
		var violations []string
		applicable := false
		for _, table := range p.tables {
			cells, headers := countTableCells(table)
			if cells <= dataTableMinCells {
				continue // layout table, not a data table
			}
			applicable = true
			if headers == 0 {
				violations = append(violations, excerpt(table))
			}
		}
		return violations, applicable
	},

	"iframe-title": func(p *Page) ([]string, bool) {
		if len(p.iframes) == 0 {
			return nil, false
		}
		var violations []string
		for _, frame := range p.iframes {
			if strings.TrimSpace(attr(frame, "title")) == "" {
				violations = append(violations, excerpt(frame))
			}
		}
		return violations, true
	},

	"form-labels": func(p *Page) ([]string, bool) {
		var violations []string
		applicable := false
		for _, input := range p.inputs {
			if input.DataAtom == atom.Input {
				inputType := strings.ToLower(attr(input, "type"))
				if nonLabelableInputTypes[inputType] {
					continue
				}
			}
			applicable = true
			if !hasFormLabel(p, input) {
				violations = append(violations, excerpt(input))
			}
		}
		return violations, applicable
	},

	"link-name": func(p *Page) ([]string, bool) {
		if len(p.links) == 0 {
			return nil, false
		}
		var violations []string
		for _, link := range p.links {
			if accessibleName(link) == "" {
				violations = append(violations, excerpt(link))
			}
		}
		return violations, true
	},

	"button-name": func(p *Page) ([]string, bool) {
		if len(p.buttons) == 0 {
			return nil, false
		}
		var violations []string
		for _, button := range p.buttons {
			if accessibleName(button) == "" {
				violations = append(violations, excerpt(button))
			}
		}
		return violations, true
	},

	"link-text-quality": func(p *Page) ([]string, bool) {
		if len(p.links) == 0 {
			return nil, false
		}
		var violations []string
		for _, link := range p.links {
			text := strings.ToLower(normalizeText(textContent(link)))
			if genericLinkPhrases[text] {
				violations = append(violations, excerpt(link))
			}
		}
		return violations, true
	},

	"keyboard-trap": func(p *Page) ([]string, bool) {
		var violations []string
		for _, el := range p.elements {
			handler := attr(el, "onkeydown") + attr(el, "onkeypress")
			if handler == "" {
				continue
			}
			lower := strings.ToLower(handler)
			if strings.Contains(lower, "preventdefault") &&
				!strings.Contains(lower, "tab") &&
				!strings.Contains(lower, "escape") {
				violations = append(violations, excerpt(el))
			}
		}
		return violations, true
	},

	"focus-visible": func(p *Page) ([]string, bool) {
		var violations []string
		for _, block := range focusBlockPattern.FindAllString(p.styleText, -1) {
			if outlineOffPattern.MatchString(block) && !focusReplacePattern.MatchString(block) {
				violations = append(violations, normalizeText(block))
			}
		}
		for _, el := range p.elements {
			style := attr(el, "style")
			if style == "" {
				continue
			}
			if outlineOffPattern.MatchString(style) && !focusReplacePattern.MatchString(style) {
				violations = append(violations, excerpt(el))
			}
		}
		return violations, true
	},

	"keyboard-access": func(p *Page) ([]string, bool) {
		var violations []string
		for _, el := range p.elements {
			if !hasAttr(el, "onclick") {
				continue
			}
			if interactiveTags[el.DataAtom] {
				continue
			}
			if interactiveRoles[strings.ToLower(attr(el, "role"))] {
				continue
			}
			if isKeyboardOperable(el) {
				continue
			}
			violations = append(violations, excerpt(el))
		}
		return violations, true
	},

	"color-contrast": func(p *Page) ([]string, bool) {
		var violations []string
		applicable := false
		for _, el := range p.elements {
			decls := inlineStyle(el)
			if decls == nil {
				continue
			}
			fg, okFg := contrast.Parse(decls["color"])
			bgValue := decls["background-color"]
			if bgValue == "" {
				bgValue = decls["background"]
			}
			bg, okBg := contrast.Parse(bgValue)
			if !okFg || !okBg {
				continue // unknown color, skip rather than guess
			}
			applicable = true
			if contrast.Ratio(fg, bg) < contrast.RatioAA {
				violations = append(violations, excerpt(el))
			}
		}
		return violations, applicable
	},

	"viewport-meta": func(p *Page) ([]string, bool) {
		if !p.hasViewportMeta {
			return []string{"no viewport meta tag found"}, true
		}
		return nil, true
	},

	"skip-link": func(p *Page) ([]string, bool) {
		if len(p.links) == 0 {
			return nil, false
		}
		limit := 3
		if len(p.links) < limit {
			limit = len(p.links)
		}
		for _, link := range p.links[:limit] {
			href := attr(link, "href")
			text := strings.ToLower(normalizeText(textContent(link)))
			if strings.HasPrefix(href, "#") || strings.Contains(text, "skip") {
				return nil, true
			}
		}
		return []string{"no skip link among the first links"}, true
	},

	"autoplay-media": func(p *Page) ([]string, bool) {
		if len(p.media) == 0 {
			return nil, false
		}
		var violations []string
		for _, el := range p.media {
			if hasAttr(el, "autoplay") {
				violations = append(violations, excerpt(el))
			}
		}
		return violations, true
	},

	"positive-tabindex": func(p *Page) ([]string, bool) {
		var violations []string
		for _, el := range p.elements {
			raw := attr(el, "tabindex")
			if raw == "" {
				continue
			}
			if value, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && value > 0 {
				violations = append(violations, excerpt(el))
			}
		}
		return violations, true
	},

	"meta-refresh": func(p *Page) ([]string, bool) {
		if p.hasMetaRefresh {
			return []string{`<meta http-equiv="refresh">`}, true
		}
		return nil, true
	},
}

// countTableCells counts data cells and header cells in a table.
func countTableCells(table *html.Node) (cells, headers int) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Td:
				cells++
			case atom.Th:
				headers++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return cells, headers
}

// hasFormLabel reports whether a form control has any accessible
// label: an associated <label for>, a wrapping label, an ARIA label,
// or a title attribute.
func hasFormLabel(p *Page, input *html.Node) bool {
	if id := attr(input, "id"); id != "" && p.labelFor[id] {
		return true
	}
	if ancestorLabel(input) {
		return true
	}
	for _, key := range []string{"aria-label", "aria-labelledby", "title"} {
		if strings.TrimSpace(attr(input, key)) != "" {
			return true
		}
	}
	return false
}

// isKeyboardOperable reports whether a clickable element is reachable
// and operable from the keyboard: a non-negative tabindex paired with
// a key handler.
func isKeyboardOperable(el *html.Node) bool {
	raw := attr(el, "tabindex")
	if raw == "" {
		return false
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return false
	}
	return hasAttr(el, "onkeydown") || hasAttr(el, "onkeypress") || hasAttr(el, "onkeyup")
}
