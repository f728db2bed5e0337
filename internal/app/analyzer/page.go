package analyzer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// heading is a heading element with its numeric level.
type heading struct {
	node  *html.Node
	level int
}

// Page is a single-walk index over a parsed document. Predicates read
// from the index and never mutate it, which keeps every rule
// independent of evaluation order.
type Page struct {
	doc *html.Node

	title string
	lang  string

	elements []*html.Node
	images   []*html.Node
	links    []*html.Node
	buttons  []*html.Node
	inputs   []*html.Node
	tables   []*html.Node
	iframes  []*html.Node
	media    []*html.Node
	headings []heading

	labelFor  map[string]bool
	ids       []string
	styleText string

	forms     int
	landmarks int

	hasViewportMeta bool
	hasMetaRefresh  bool
}

var landmarkRoles = map[string]bool{
	"main":        true,
	"navigation":  true,
	"banner":      true,
	"contentinfo": true,
}

// buildPage walks the parsed document once and precomputes the
// element sets the rule predicates operate on.
func buildPage(doc *html.Node) *Page {
	p := &Page{
		doc:      doc,
		labelFor: make(map[string]bool),
	}

	var styles strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.elements = append(p.elements, n)

			if id := attr(n, "id"); id != "" {
				p.ids = append(p.ids, id)
			}

			switch n.DataAtom {
			case atom.Html:
				p.lang = strings.TrimSpace(attr(n, "lang"))
			case atom.Title:
				if p.title == "" {
					p.title = strings.TrimSpace(textContent(n))
				}
			case atom.Img:
				p.images = append(p.images, n)
			case atom.A:
				if hasAttr(n, "href") {
					p.links = append(p.links, n)
				}
			case atom.Button:
				p.buttons = append(p.buttons, n)
			case atom.Input, atom.Select, atom.Textarea:
				p.inputs = append(p.inputs, n)
			case atom.Table:
				p.tables = append(p.tables, n)
			case atom.Iframe:
				p.iframes = append(p.iframes, n)
			case atom.Audio, atom.Video:
				p.media = append(p.media, n)
			case atom.Form:
				p.forms++
			case atom.Main, atom.Nav, atom.Header, atom.Footer:
				p.landmarks++
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				p.headings = append(p.headings, heading{node: n, level: int(n.Data[1] - '0')})
			case atom.Label:
				if target := attr(n, "for"); target != "" {
					p.labelFor[target] = true
				}
			case atom.Style:
				styles.WriteString(textContent(n))
				styles.WriteString("\n")
			case atom.Meta:
				name := strings.ToLower(attr(n, "name"))
				equiv := strings.ToLower(attr(n, "http-equiv"))
				if name == "viewport" {
					p.hasViewportMeta = true
				}
				if equiv == "refresh" {
					p.hasMetaRefresh = true
				}
			}

			// ARIA roles count as landmarks alongside semantic tags.
			if role := strings.ToLower(attr(n, "role")); role != "" {
				if landmarkRoles[role] {
					p.landmarks++
				}
				if role == "button" && n.DataAtom != atom.Button {
					p.buttons = append(p.buttons, n)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p.styleText = styles.String()
	return p
}

// attr returns the value of an attribute, or "" when absent.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasAttr reports whether the attribute is present, even if empty.
func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// textContent collects the concatenated text of a subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

// normalizeText collapses whitespace runs and trims the result.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

const maxExcerptLen = 120

// excerpt renders the opening tag of an element for issue reports.
func excerpt(n *html.Node) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.Data)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(a.Val)
		sb.WriteByte('"')
	}
	sb.WriteByte('>')

	s := sb.String()
	if len(s) > maxExcerptLen {
		cut := maxExcerptLen - 3
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}

// inlineStyle parses a style attribute into property/value pairs.
// Property names are lowercased; values keep their case.
func inlineStyle(n *html.Node) map[string]string {
	raw := attr(n, "style")
	if raw == "" {
		return nil
	}

	decls := make(map[string]string)
	for _, part := range strings.Split(raw, ";") {
		key, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			decls[key] = value
		}
	}
	return decls
}

// ancestorLabel reports whether the node is wrapped in a label.
func ancestorLabel(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Label {
			return true
		}
	}
	return false
}

// childImageAlt returns the first non-empty alt of a descendant image.
func childImageAlt(n *html.Node) string {
	var alt string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if alt != "" {
			return
		}
		if node.Type == html.ElementNode && node.DataAtom == atom.Img {
			if v := strings.TrimSpace(attr(node, "alt")); v != "" {
				alt = v
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return alt
}

// accessibleName resolves the text a screen reader would announce for
// a link or button: content text, ARIA label/labelledby, title, value,
// or a descendant image's alt.
func accessibleName(n *html.Node) string {
	if name := normalizeText(textContent(n)); name != "" {
		return name
	}
	for _, key := range []string{"aria-label", "aria-labelledby", "title", "value", "alt"} {
		if v := strings.TrimSpace(attr(n, key)); v != "" {
			return v
		}
	}
	return childImageAlt(n)
}
