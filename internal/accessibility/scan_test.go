package accessibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributes(t *testing.T) {
	attrs := parseAttributes(`<input TYPE="text" id='email' disabled data-x=raw title="" (click)="go()" @click="go" />`)

	typ, ok := attrs.Value("type")
	assert.True(t, ok)
	assert.Equal(t, "text", typ)

	id, _ := attrs.Value("id")
	assert.Equal(t, "email", id)

	assert.True(t, attrs.Has("disabled"))
	assert.False(t, attrs["disabled"].HasValue)

	raw, _ := attrs.Value("data-x")
	assert.Equal(t, "raw", raw)

	assert.True(t, attrs.Has("title"))
	assert.True(t, attrs["title"].HasValue)
	assert.True(t, attrs.Has("(click)"))
	assert.True(t, attrs.Has("@click"))
	assert.False(t, attrs.Has("input"))
}

func TestParseAttributes_FirstOccurrenceWins(t *testing.T) {
	attrs := parseAttributes(`<a href="/first" href="#">x`)

	href, _ := attrs.Value("href")
	assert.Equal(t, "/first", href)
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "input", tagName(`<INPUT type="text">`))
	assert.Equal(t, "textarea", tagName(`<textarea>`))
	assert.Equal(t, "", tagName(`not a tag`))
}

func TestScanHeadings(t *testing.T) {
	text := "<H1 class=\"title\">A</H1>\n<h2>\nB\n</h2><header>x</header><h4>unclosed<h3>C</h3>"

	headings := scanHeadings(text)

	require.Len(t, headings, 3)
	assert.Equal(t, 1, headings[0].level)
	assert.Equal(t, 2, headings[1].level)
	assert.Equal(t, "<h2>\nB\n</h2>", headings[1].fragment)
	// <h4> has no matching </h4> and is ignored
	assert.Equal(t, 3, headings[2].level)
}

func TestScanHeadings_MismatchedCloseIsSkipped(t *testing.T) {
	headings := scanHeadings("<h1>A</h2> more </h1><h2>B</h2>")

	require.Len(t, headings, 2)
	assert.Equal(t, "<h1>A</h2> more </h1>", headings[0].fragment)
	assert.Equal(t, 2, headings[1].level)
}

func TestCheckSkippedHeading(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected int
	}{
		{"one to three", "<h1>A</h1><h3>B</h3>", 1},
		{"sequential", "<h1>A</h1><h2>B</h2><h3>C</h3>", 0},
		{"going back up", "<h1>A</h1><h2>B</h2><h3>C</h3><h1>D</h1>", 0},
		{"equal levels", "<h2>A</h2><h2>B</h2>", 0},
		{"two skips", "<h1>A</h1><h4>B</h4><h6>C</h6>", 2},
		{"first heading may be any level", "<h3>A</h3>", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, countViolations(CategorySkippedHeadings, tt.markup))
		})
	}
}

func TestDocument_LineOf(t *testing.T) {
	doc := NewDocument("first\nsecond <img>\nthird <img>")

	assert.Equal(t, 2, doc.LineOf("<img>"))
	assert.Equal(t, 1, doc.LineOf("first"))
	assert.Equal(t, 0, doc.LineOf("missing"))
	assert.Equal(t, 0, doc.LineOf(""))
}

func TestDeclarationScanner(t *testing.T) {
	doc := NewDocument(`<p style="color: #000; background-color: #fff">a</p><style>.x { background-color: #888; color: #777 }</style><span style="color: red">b</span>`)

	candidates := declarationScanner{}.Scan(doc)

	require.Len(t, candidates, 1)
	assert.Equal(t, "color: #000; background-color: #fff", candidates[0].Fragment)
	assert.Equal(t, "p", candidates[0].Tag)
	assert.Equal(t, 10, candidates[0].Offset)
}

func TestDeclarationScanner_SingleQuotedStyle(t *testing.T) {
	doc := NewDocument(`<div class="x" style='background-color:#888888;color:#777777'>a</div>`)

	candidates := declarationScanner{}.Scan(doc)

	require.Len(t, candidates, 1)
	assert.Equal(t, "background-color:#888888;color:#777777", candidates[0].Fragment)
}

func TestCheckMissingAlt(t *testing.T) {
	tests := []struct {
		markup    string
		violation bool
	}{
		{`<img src="x.jpg">`, true},
		{`<img src="x.jpg" alt="A cat">`, false},
		{`<img src="x.jpg" alt="">`, false},
		{`<img src='x.jpg' alt=''>`, false},
		{`<img src="x.jpg" alt>`, false},
		{`<IMG SRC="x.jpg" ALT="caps">`, false},
		{`<img src="x.jpg" data-alt="nope">`, true},
		{"<img\n  src=\"x.jpg\"\n/>", true},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			assert.Equal(t, boolToCount(tt.violation), countViolations(CategoryMissingAlt, tt.markup))
		})
	}
}

func TestCheckMissingKeyboardAccess(t *testing.T) {
	tests := []struct {
		markup    string
		violation bool
	}{
		{`<div onclick="go()">Go</div>`, true},
		{`<span ng-click="go()">Go</span>`, true},
		{`<li @click="go">Go</li>`, true},
		{`<td (click)="go()">Go</td>`, true},
		{`<div @click.prevent="go()">Go</div>`, true},
		{`<span v-on:click.stop="go">Go</span>`, true},
		{`<div @click.prevent="go()" tabindex="0">Go</div>`, false},
		{`<div @clicked="go()">Go</div>`, false},
		{`<img src="x.png" alt="x" onclick="zoom()">`, true},
		{`<div role="button" onclick="go()">Go</div>`, true},
		{`<div role="button" tabindex="0" onclick="go()">Go</div>`, false},
		{`<span tabindex="-1" onclick="go()">Go</span>`, false},
		{`<div>Static</div>`, false},
		{`<button onclick="go()">Go</button>`, false},
		{`<a href="/x" onclick="go()">Go</a>`, false},
		{`<link rel="stylesheet" onclick="x">`, false},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			assert.Equal(t, boolToCount(tt.violation), countViolations(CategoryMissingTabIndex, tt.markup))
		})
	}
}

func TestCheckMissingLabel(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected int
	}{
		{"no label", `<input type="text" id="name" />`, 1},
		{"aria-label", `<input type="text" aria-label="Search" />`, 0},
		{"aria-labelledby", `<span id="l">Q</span><input type="text" aria-labelledby="l">`, 0},
		{"title", `<input type="text" title="Query">`, 0},
		{"matching label", `<label for="email">Email</label><input type="text" id="email" />`, 0},
		{"label for other id", `<label for="other">Other</label><input type="text" id="email" />`, 1},
		{"nested in label", `<label>Name <input type="text"></label>`, 0},
		{"after closed label", `<label>Name</label><input type="text">`, 1},
		{"select", `<select name="c"><option>1</option></select>`, 1},
		{"textarea labelled", `<label for="msg">Message</label><textarea id="msg"></textarea>`, 0},
		{"skipped types", `<input type="hidden"><input type="submit"><input type="button"><input type="reset"><input type="image" src="x.png">`, 0},
		{"type is case-insensitive", `<input type="HIDDEN" name="x">`, 0},
		{"duplicates counted once", `<input type="text"><input type="text">`, 1},
		{"default type is text", `<input name="q">`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, countViolations(CategoryMissingLabels, tt.markup))
		})
	}
}

func TestHasSkipLink(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		found  bool
	}{
		{"skip class", `<a href="#main" class="skip-link">Skip to Content</a>`, true},
		{"skip class without fragment href", `<a href="/home" class="btn SKIP-nav">Home</a>`, true},
		{"fragment href with keyword", `<a href="#main">Jump to content</a>`, true},
		{"keyword across lines", "<a href=\"#top\">\n  Skip\n</a>", true},
		{"keyword with nested markup", `<a href="#c"><span>Main</span></a>`, true},
		{"keyword without fragment href", `<a href="/main">Skip</a>`, false},
		{"fragment href without keyword", `<a href="#top">Back to top</a>`, false},
		{"no anchors", `<p>Some content here</p>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.found, hasSkipLink(tt.markup))
		})
	}
}

func TestFontSizeInPixels(t *testing.T) {
	tests := []struct {
		declaration string
		px          float64
	}{
		{"font-size: 12px", 12},
		{"font-size:16px", 16},
		{"FONT-SIZE: 10pt", 13.33},
		{"font-size: 0.75em", 12},
		{"font-size: 1rem", 16},
		{"font-size: .5rem", 8},
	}

	for _, tt := range tests {
		t.Run(tt.declaration, func(t *testing.T) {
			px, ok := fontSizeInPixels(tt.declaration)
			require.True(t, ok)
			assert.InDelta(t, tt.px, px, 0.001)
		})
	}
}

func TestCheckFontSizeTooSmall(t *testing.T) {
	tests := []struct {
		markup   string
		expected int
	}{
		{`<p style="font-size: 12px;">x</p>`, 1},
		{`<p style="font-size: 14px;">x</p>`, 0},
		{`<p style="font-size: 13.5px;">x</p>`, 1},
		{`<p style="font-size: 10pt;">x</p>`, 1},
		{`<p style="font-size: 11pt;">x</p>`, 0},
		{`<p style="font-size: 0.8em;">x</p>`, 1},
		{`<p style="font-size: 1rem;">x</p>`, 0},
		{`<p style="font-size: 80%;">x</p>`, 0},
		{`<style>p { font-size: 9px } small { font-size: 8px }</style>`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			assert.Equal(t, tt.expected, countViolations(CategoryFontSizeTooSmall, tt.markup))
		})
	}
}

func TestCheckBrokenLink(t *testing.T) {
	tests := []struct {
		markup    string
		violation bool
	}{
		{`<a href="#">text</a>`, true},
		{`<a href="">text</a>`, true},
		{`<a href=" # ">text</a>`, true},
		{`<a href="#!">text</a>`, true},
		{`<a href="javascript:void(0)">text</a>`, true},
		{`<a href="javascript:void(0);">text</a>`, true},
		{`<a href="javascript:;">text</a>`, true},
		{`<a href="JavaScript:alert(1)">text</a>`, true},
		{`<a href="https://example.com">text</a>`, false},
		{`<a href="#section-2">text</a>`, false},
		{`<a href="/relative">text</a>`, false},
		{`<a name="anchor">text</a>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.markup, func(t *testing.T) {
			assert.Equal(t, boolToCount(tt.violation), countViolations(CategoryBrokenLinks, tt.markup))
		})
	}
}

// countViolations runs a single rule over markup and returns its violation count.
func countViolations(category, markup string) int {
	var skip []string
	for _, r := range DefaultRules() {
		if r.Category != category {
			skip = append(skip, r.Category)
		}
	}

	report := NewEngine().Without(skip...).Analyze(markup)
	group, ok := report.Issues[category]
	if !ok {
		return 0
	}
	return len(group.Details)
}

func boolToCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
