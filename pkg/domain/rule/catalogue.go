package rule

const wcagBase = "https://www.w3.org/WAI/WCAG21/Understanding/"

var definitions = []Definition{
	{
		ID:          "img-alt",
		Name:        "Images must have alternative text",
		Standard:    "WCAG 2.1 SC 1.1.1",
		Level:       LevelA,
		Category:    CategoryStructural,
		Severity:    SeverityCritical,
		Description: "Informative images need an alt attribute so screen readers can announce them.",
		FixGuidance: "Add a descriptive alt attribute, or alt=\"\" for purely decorative images.",
		Reference:   wcagBase + "non-text-content.html",
	},
	{
		ID:          "html-lang",
		Name:        "Document must declare a language",
		Standard:    "WCAG 2.1 SC 3.1.1",
		Level:       LevelA,
		Category:    CategoryStructural,
		Severity:    SeveritySerious,
		Description: "The root html element needs a lang attribute so assistive technology picks the right voice.",
		FixGuidance: "Add lang=\"en\" (or the page's language) to the <html> element.",
		Reference:   wcagBase + "language-of-page.html",
	},
	{
		ID:          "document-title",
		Name:        "Document must have a title",
		Standard:    "WCAG 2.1 SC 2.4.2",
		Level:       LevelA,
		Category:    CategoryStructural,
		Severity:    SeveritySerious,
		Description: "A non-empty <title> identifies the page in tabs, bookmarks, and screen reader announcements.",
		FixGuidance: "Add a concise, descriptive <title> element inside <head>.",
		Reference:   wcagBase + "page-titled.html",
	},
	{
		ID:          "heading-presence",
		Name:        "Page should contain headings",
		Standard:    "WCAG 2.1 SC 2.4.6",
		Level:       LevelAA,
		Category:    CategoryStructural,
		Severity:    SeverityModerate,
		Description: "Pages without any heading elements are hard to navigate with a screen reader outline.",
		FixGuidance: "Structure the content with h1-h6 headings.",
		Reference:   wcagBase + "headings-and-labels.html",
	},
	{
		ID:          "heading-order",
		Name:        "Heading levels must not skip",
		Standard:    "WCAG 2.1 SC 1.3.1",
		Level:       LevelA,
		Category:    CategoryStructural,
		Severity:    SeverityModerate,
		Description: "A heading more than one level deeper than its predecessor breaks the document outline.",
		FixGuidance: "Increase heading levels one step at a time (h2 after h1, not h4).",
		Reference:   wcagBase + "info-and-relationships.html",
	},
	{
		ID:          "duplicate-id",
		Name:        "Element ids must be unique",
		Standard:    "WCAG 2.1 SC 4.1.1",
		Level:       LevelA,
		Category:    CategoryStructural,
		Severity:    SeverityModerate,
		Description: "Duplicate id attributes break label associations and ARIA references.",
		FixGuidance: "Make every id attribute value unique within the page.",
		Reference:   wcagBase + "parsing.html",
	},
	{
		ID:          "landmarks",
		Name:        "Page must expose landmark regions",
		Standard:    "WCAG 2.1 SC 1.3.1",
		Level:       LevelA,
		Category:    CategorySemantic,
		Severity:    SeverityModerate,
		Description: "Without main/nav/header/footer landmarks, screen reader users cannot jump between page regions.",
		FixGuidance: "Use semantic elements (<main>, <nav>, <header>, <footer>) or equivalent ARIA roles.",
		Reference:   wcagBase + "info-and-relationships.html",
	},
	{
		ID:          "table-headers",
		Name:        "Data tables need header cells",
		Standard:    "WCAG 2.1 SC 1.3.1",
		Level:       LevelA,
		Category:    CategorySemantic,
		Severity:    SeveritySerious,
		Description: "Data tables without <th> cells give screen readers no way to relate cells to their headers.",
		FixGuidance: "Mark header cells with <th> (and scope attributes for complex tables).",
		Reference:   wcagBase + "info-and-relationships.html",
	},
	{
		ID:          "iframe-title",
		Name:        "Frames must have a title",
		Standard:    "WCAG 2.1 SC 4.1.2",
		Level:       LevelA,
		Category:    CategorySemantic,
		Severity:    SeveritySerious,
		Description: "An iframe without a title attribute is announced as an anonymous frame.",
		FixGuidance: "Add a title attribute describing the frame's content.",
		Reference:   wcagBase + "name-role-value.html",
	},
	{
		ID:          "form-labels",
		Name:        "Form controls must have labels",
		Standard:    "WCAG 2.1 SC 3.3.2",
		Level:       LevelA,
		Category:    CategoryInteractive,
		Severity:    SeverityCritical,
		Description: "Inputs without an associated label, aria-label, or title cannot be identified by assistive technology.",
		FixGuidance: "Associate a <label for=\"...\">, wrap the control in a label, or add aria-label.",
		Reference:   wcagBase + "labels-or-instructions.html",
	},
	{
		ID:          "link-name",
		Name:        "Links must have an accessible name",
		Standard:    "WCAG 2.1 SC 2.4.4",
		Level:       LevelA,
		Category:    CategoryInteractive,
		Severity:    SeveritySerious,
		Description: "Links with no text, image alt, or ARIA label are announced as \"link\" with no destination.",
		FixGuidance: "Give the link visible text, or aria-label, or alt text on its image.",
		Reference:   wcagBase + "link-purpose-in-context.html",
	},
	{
		ID:          "button-name",
		Name:        "Buttons must have an accessible name",
		Standard:    "WCAG 2.1 SC 4.1.2",
		Level:       LevelA,
		Category:    CategoryInteractive,
		Severity:    SeverityCritical,
		Description: "Buttons without text content or an ARIA label cannot be operated confidently by screen reader users.",
		FixGuidance: "Add visible text, a value attribute, or aria-label to the button.",
		Reference:   wcagBase + "name-role-value.html",
	},
	{
		ID:          "link-text-quality",
		Name:        "Link text should describe the destination",
		Standard:    "WCAG 2.1 SC 2.4.9",
		Level:       LevelAAA,
		Category:    CategoryInteractive,
		Severity:    SeverityMinor,
		Advisory:    true,
		Description: "Generic phrases like \"click here\" or \"read more\" carry no meaning out of context.",
		FixGuidance: "Rewrite link text to name the destination or action.",
		Reference:   wcagBase + "link-purpose-link-only.html",
	},
	{
		ID:          "keyboard-trap",
		Name:        "Key handlers must not trap focus",
		Standard:    "WCAG 2.1 SC 2.1.2",
		Level:       LevelA,
		Category:    CategoryInteractive,
		Severity:    SeverityCritical,
		Description: "A key handler that suppresses default behavior without handling Tab or Escape can trap keyboard focus.",
		FixGuidance: "Let Tab and Escape propagate, or move focus explicitly when intercepting keys.",
		Reference:   wcagBase + "no-keyboard-trap.html",
	},
	{
		ID:          "focus-visible",
		Name:        "Focus indicator must not be removed",
		Standard:    "WCAG 2.1 SC 2.4.7",
		Level:       LevelAA,
		Category:    CategoryInteractive,
		Severity:    SeveritySerious,
		Description: "Styles that disable the focus outline without a replacement leave keyboard users with no visible focus.",
		FixGuidance: "Keep the outline, or replace it with a visible box-shadow or border on :focus.",
		Reference:   wcagBase + "focus-visible.html",
	},
	{
		ID:          "keyboard-access",
		Name:        "Click targets must be keyboard reachable",
		Standard:    "WCAG 2.1 SC 2.1.1",
		Level:       LevelA,
		Category:    CategoryInteractive,
		Severity:    SeveritySerious,
		Description: "Non-interactive elements with click handlers are unreachable without a mouse unless given tabindex and key handling.",
		FixGuidance: "Use a <button> or <a>, or add tabindex=\"0\" plus a key handler.",
		Reference:   wcagBase + "keyboard.html",
	},
	{
		ID:          "color-contrast",
		Name:        "Text must meet minimum contrast",
		Standard:    "WCAG 2.1 SC 1.4.3",
		Level:       LevelAA,
		Category:    CategoryVisual,
		Severity:    SeveritySerious,
		Description: "Inline-styled text below a 4.5:1 contrast ratio is hard to read for low-vision users. The large-text 3:1 allowance is not evaluated from static markup.",
		FixGuidance: "Darken the text or lighten the background until the ratio reaches 4.5:1.",
		Reference:   wcagBase + "contrast-minimum.html",
	},
	{
		ID:          "viewport-meta",
		Name:        "Page should declare a responsive viewport",
		Standard:    "WCAG 2.1 SC 1.4.10",
		Level:       LevelAA,
		Category:    CategoryVisual,
		Severity:    SeverityModerate,
		Description: "Without a viewport meta tag, mobile browsers render a scaled desktop layout that is hard to zoom and reflow.",
		FixGuidance: "Add <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">.",
		Reference:   wcagBase + "reflow.html",
	},
	{
		ID:          "skip-link",
		Name:        "Page should offer a skip link",
		Standard:    "WCAG 2.1 SC 2.4.1",
		Level:       LevelA,
		Category:    CategoryVisual,
		Severity:    SeverityModerate,
		Advisory:    true,
		Description: "A skip-to-content link near the top lets keyboard users bypass repeated navigation.",
		FixGuidance: "Make the first focusable link an in-page anchor to the main content.",
		Reference:   wcagBase + "bypass-blocks.html",
	},
	{
		ID:          "autoplay-media",
		Name:        "Media must not autoplay",
		Standard:    "WCAG 2.1 SC 1.4.2",
		Level:       LevelA,
		Category:    CategoryVisual,
		Severity:    SeveritySerious,
		Description: "Autoplaying audio or video interferes with screen reader output and cannot always be stopped.",
		FixGuidance: "Remove the autoplay attribute, or start muted with visible controls.",
		Reference:   wcagBase + "audio-control.html",
	},
	{
		ID:          "positive-tabindex",
		Name:        "Avoid positive tabindex values",
		Standard:    "WCAG 2.1 SC 2.4.3",
		Level:       LevelA,
		Category:    CategoryVisual,
		Severity:    SeveritySerious,
		Description: "tabindex values greater than zero override the natural focus order and produce confusing navigation.",
		FixGuidance: "Use tabindex=\"0\" and source order instead of positive values.",
		Reference:   wcagBase + "focus-order.html",
	},
	{
		ID:          "meta-refresh",
		Name:        "Page must not auto-refresh",
		Standard:    "WCAG 2.1 SC 2.2.1",
		Level:       LevelA,
		Category:    CategoryVisual,
		Severity:    SeveritySerious,
		Description: "A meta refresh reloads or redirects the page on a timer the user cannot control.",
		FixGuidance: "Remove the meta refresh; let users trigger navigation themselves.",
		Reference:   wcagBase + "timing-adjustable.html",
	},
}

var definitionsByID = func() map[string]Definition {
	m := make(map[string]Definition, len(definitions))
	for _, d := range definitions {
		m[d.ID] = d
	}
	return m
}()

// Catalogue returns the full rule catalogue. The returned slice is
// shared; callers must not modify it.
func Catalogue() []Definition {
	return definitions
}

// Lookup returns the definition for a rule ID.
func Lookup(id string) (Definition, bool) {
	d, ok := definitionsByID[id]
	return d, ok
}

// Count returns the number of rules in the catalogue.
func Count() int {
	return len(definitions)
}
