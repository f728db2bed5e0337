package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ylens/api/pkg/domain/rule"
	"github.com/a11ylens/api/pkg/domain/scan"
)

const cleanPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Acme Widgets</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
  <a href="#main">Skip to content</a>
  <header><nav><a href="/pricing">Pricing plans</a></nav></header>
  <main id="main">
    <h1>Widgets</h1>
    <h2>Catalogue</h2>
    <img src="w.png" alt="A blue widget">
    <form>
      <label for="email">Email address</label>
      <input type="text" id="email">
      <button type="submit">Subscribe</button>
    </form>
  </main>
  <footer><p>Copyright Acme</p></footer>
</body>
</html>`

func issuesByID(result *Result) map[string]scan.Issue {
	out := make(map[string]scan.Issue, len(result.Issues))
	for _, issue := range result.Issues {
		out[issue.Rule.ID] = issue
	}
	return out
}

func passedIDs(result *Result) map[string]bool {
	out := make(map[string]bool, len(result.Passes))
	for _, pass := range result.Passes {
		out[pass.Rule.ID] = true
	}
	return out
}

func TestEvaluateCleanPage(t *testing.T) {
	result := Evaluate(cleanPage)

	assert.Empty(t, issuesByID(result), "clean page yields no issues")
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Passes)

	passed := passedIDs(result)
	for _, id := range []string{"img-alt", "html-lang", "document-title", "form-labels", "landmarks", "viewport-meta"} {
		assert.True(t, passed[id], "expected pass for %s", id)
	}

	assert.Equal(t, "Acme Widgets", result.Page.Title)
	assert.Equal(t, "en", result.Page.Language)
	assert.Equal(t, 1, result.Page.Images)
	assert.Equal(t, 2, result.Page.Links)
	assert.Equal(t, 1, result.Page.Forms)
	assert.Equal(t, 2, result.Page.Headings)
}

func TestEvaluateMissingAltAndLang(t *testing.T) {
	result := Evaluate(`<html><head><title>Test</title></head>
		<body><img src="x.png"><p>hello</p></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "img-alt")
	require.Contains(t, issues, "html-lang")
	assert.Equal(t, 1, issues["img-alt"].Count)

	critical := 0
	for _, issue := range result.Issues {
		if issue.Rule.Severity == rule.SeverityCritical {
			critical++
		}
	}
	assert.Equal(t, 1, critical, "only the missing alt is critical")

	passed := passedIDs(result)
	assert.True(t, passed["document-title"])
}

func TestEvaluateExcerptCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<html lang="en"><head><title>T</title></head><body>`)
	for i := 0; i < 8; i++ {
		sb.WriteString(`<img src="x.png">`)
	}
	sb.WriteString(`</body></html>`)

	result := Evaluate(sb.String())
	issues := issuesByID(result)
	require.Contains(t, issues, "img-alt")
	assert.Equal(t, 8, issues["img-alt"].Count, "count carries the true total")
	assert.Len(t, issues["img-alt"].Excerpts, scan.MaxExcerpts)
}

func TestEvaluateExcerptTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 80)
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body>` +
		`<img src="` + long + `"></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "img-alt")
	require.NotEmpty(t, issues["img-alt"].Excerpts)

	got := issues["img-alt"].Excerpts[0]
	assert.True(t, utf8.ValidString(got), "truncation keeps valid UTF-8")
	assert.LessOrEqual(t, len(got), maxExcerptLen)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestEvaluateAdvisoryRulesWarn(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body>
		<a href="#main">Skip to content</a>
		<main id="main"><h1>Hi</h1>
		<a href="/a">click here</a>
		<a href="/b">Product documentation</a>
		</main></body></html>`)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "link-text-quality", result.Warnings[0].Rule.ID)
	assert.Equal(t, 1, result.Warnings[0].Count)

	_, isIssue := issuesByID(result)["link-text-quality"]
	assert.False(t, isIssue, "advisory findings never appear as issues")
}

func TestEvaluateHeadingOrder(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body>
		<main><h1>One</h1><h3>Jumped</h3></main></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "heading-order")
	assert.Equal(t, 1, issues["heading-order"].Count)

	result = Evaluate(`<html lang="en"><head><title>T</title></head><body>
		<main><h1>One</h1><h2>Two</h2><h1>Back up is fine</h1></main></body></html>`)
	assert.NotContains(t, issuesByID(result), "heading-order")
}

func TestEvaluateDuplicateIDs(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body>
		<main><h1 id="x">A</h1><p id="x">B</p><p id="y">C</p></main></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "duplicate-id")
	assert.Equal(t, 1, issues["duplicate-id"].Count, "each duplicated value reported once")
	assert.Contains(t, issues["duplicate-id"].Excerpts[0], `id="x"`)
}

func TestEvaluateFormLabels(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body><main><h1>F</h1>
		<form>
			<input type="text" id="named"><label for="named">Name</label>
			<label>Wrapped <input type="text"></label>
			<input type="text" aria-label="Search">
			<input type="text">
			<input type="hidden" name="csrf">
			<input type="submit" value="Go">
		</form></main></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "form-labels")
	assert.Equal(t, 1, issues["form-labels"].Count, "only the bare text input is unlabelled")
}

func TestEvaluateLinkAndButtonNames(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body><main><h1>B</h1>
		<a href="/empty"></a>
		<a href="/icon" aria-label="Settings"></a>
		<a href="/img"><img src="i.png" alt="Throughput chart"></a>
		<button></button>
		<button title="Close"></button>
		</main></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "link-name")
	assert.Equal(t, 1, issues["link-name"].Count)
	require.Contains(t, issues, "button-name")
	assert.Equal(t, 1, issues["button-name"].Count)
}

func TestEvaluateColorContrast(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body><main><h1>C</h1>
		<p style="color: #777777; background-color: #ffffff">Low contrast</p>
		<p style="color: black; background-color: white">High contrast</p>
		<p style="color: mysteryblue; background-color: white">Unknown color skipped</p>
		</main></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "color-contrast")
	assert.Equal(t, 1, issues["color-contrast"].Count)
}

func TestEvaluateColorContrastInapplicable(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body><main><h1>C</h1>
		<p>No inline colors anywhere</p></main></body></html>`)

	assert.NotContains(t, issuesByID(result), "color-contrast")
	assert.False(t, passedIDs(result)["color-contrast"], "rule without any resolvable colors is inapplicable")
}

func TestEvaluateInteractiveRules(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body><main><h1>I</h1>
		<div onclick="open()">Not keyboard reachable</div>
		<div onclick="ok()" tabindex="0" onkeydown="ok()">Operable</div>
		<span tabindex="5">Jumps the tab order</span>
		<div onkeydown="event.preventDefault()">Trap</div>
		<p style="outline: none">No focus indicator</p>
		</main></body></html>`)

	issues := issuesByID(result)
	assert.Contains(t, issues, "keyboard-access")
	assert.Equal(t, 1, issues["keyboard-access"].Count)
	assert.Contains(t, issues, "positive-tabindex")
	assert.Contains(t, issues, "keyboard-trap")
	assert.Contains(t, issues, "focus-visible")
}

func TestEvaluateMediaAndFrames(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title>
		<meta http-equiv="refresh" content="5"></head><body><main><h1>M</h1>
		<video src="v.mp4" autoplay></video>
		<audio src="a.mp3" controls></audio>
		<iframe src="embed.html"></iframe>
		<iframe src="map.html" title="Office map"></iframe>
		</main></body></html>`)

	issues := issuesByID(result)
	assert.Contains(t, issues, "autoplay-media")
	assert.Equal(t, 1, issues["autoplay-media"].Count)
	assert.Contains(t, issues, "iframe-title")
	assert.Equal(t, 1, issues["iframe-title"].Count)
	assert.Contains(t, issues, "meta-refresh")
}

func TestEvaluateTableHeaders(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body><main><h1>T</h1>
		<table><tr><td>a</td><td>b</td></tr></table>
		<table>
			<tr><td>1</td><td>2</td><td>3</td></tr>
			<tr><td>4</td><td>5</td><td>6</td></tr>
		</table></main></body></html>`)

	issues := issuesByID(result)
	require.Contains(t, issues, "table-headers")
	assert.Equal(t, 1, issues["table-headers"].Count, "small layout tables are exempt")

	result = Evaluate(`<html lang="en"><head><title>T</title></head><body><main><h1>T</h1>
		<table>
			<tr><th>h1</th><th>h2</th><th>h3</th></tr>
			<tr><td>1</td><td>2</td><td>3</td></tr>
			<tr><td>4</td><td>5</td><td>6</td></tr>
		</table></main></body></html>`)
	assert.True(t, passedIDs(result)["table-headers"])
}

func TestEvaluateMalformedMarkup(t *testing.T) {
	assert.NotPanics(t, func() {
		result := Evaluate(`<html lang="en"><head><title>Broken</head><body><main><h1>Unclosed`)
		require.NotNil(t, result)
	})

	result := Evaluate(`<div><img src="x.png"`)
	require.NotNil(t, result)
	assert.Contains(t, issuesByID(result), "html-lang")
}

func TestEvaluateEmptyDocument(t *testing.T) {
	result := Evaluate("")
	require.NotNil(t, result)

	issues := issuesByID(result)
	assert.Contains(t, issues, "html-lang")
	assert.Contains(t, issues, "document-title")
	assert.Contains(t, issues, "heading-presence")
	assert.NotContains(t, issues, "img-alt", "no images means the rule is inapplicable")
}

func TestEvaluateSkipLink(t *testing.T) {
	result := Evaluate(`<html lang="en"><head><title>T</title></head><body>
		<a href="/one">One</a><a href="/two">Two</a><a href="/three">Three</a>
		<main><h1>S</h1><a href="#main">Skip to content</a></main></body></html>`)

	var warned bool
	for _, w := range result.Warnings {
		if w.Rule.ID == "skip-link" {
			warned = true
		}
	}
	assert.True(t, warned, "skip link past the first links does not count")

	result = Evaluate(`<html lang="en"><head><title>T</title></head><body>
		<a href="#main">Skip to content</a>
		<main id="main"><h1>S</h1></main></body></html>`)
	for _, w := range result.Warnings {
		assert.NotEqual(t, "skip-link", w.Rule.ID)
	}
}
