// Package accessibility provides the rule-based accessibility analysis engine.
// Each rule pairs a pattern scanner with a decision predicate and static
// message templates; the engine runs every rule independently over the same
// document and aggregates violations into a scored report.
package accessibility

// Rule categories. These are the keys of the report's issue map.
const (
	CategoryMissingAlt       = "missing_alt"
	CategorySkippedHeadings  = "skipped_headings"
	CategoryLowColorContrast = "low_color_contrast"
	CategoryMissingTabIndex  = "missing_tabindex"
	CategoryMissingLabels    = "missing_labels"
	CategoryMissingSkipLink  = "missing_skip_link"
	CategoryFontSizeTooSmall = "font_size_too_small"
	CategoryBrokenLinks      = "broken_links"
)

// Check decides whether a scanned candidate is a violation of its rule.
type Check func(doc *Document, c Candidate) bool

// Rule is an immutable descriptor for one accessibility concern.
type Rule struct {
	Category      string
	Title         string
	Weight        int    // Points deducted per violation
	SuggestedFix  string // Static fix text attached to every violation
	SampleSnippet string // Correct markup example
	FaultySample  string // Used as the faulted snippet when a candidate has no fragment
	Scanner       Scanner
	Check         Check
}

// defaultRules is the registry. Order only affects issue insertion order.
var defaultRules = []Rule{
	{
		Category:      CategoryMissingAlt,
		Title:         "Missing alt attribute for image",
		Weight:        5,
		SuggestedFix:  "Add an alt attribute describing the image. Use alt=\"\" for purely decorative images.",
		SampleSnippet: `<img src="logo.png" alt="Company logo">`,
		Scanner:       newTagScanner(imgTagPattern, false),
		Check:         checkMissingAlt,
	},
	{
		Category:      CategorySkippedHeadings,
		Title:         "Skipped heading levels",
		Weight:        10,
		SuggestedFix:  "Ensure headings follow a logical order without skipping levels (e.g., <h1>, <h2>, <h3>).",
		SampleSnippet: "<h1>Page title</h1>\n<h2>Section</h2>\n<h3>Subsection</h3>",
		Scanner:       headingScanner{},
		Check:         checkSkippedHeading,
	},
	{
		Category:      CategoryLowColorContrast,
		Title:         "Low color contrast",
		Weight:        5,
		SuggestedFix:  "Ensure a contrast ratio of at least 4.5:1 between text and background colors (WCAG AA).",
		SampleSnippet: `<p style="color: #1a1a1a; background-color: #ffffff;">Readable text</p>`,
		Scanner:       declarationScanner{},
		Check:         checkLowContrast,
	},
	{
		Category:      CategoryMissingTabIndex,
		Title:         "Missing keyboard accessibility",
		Weight:        5,
		SuggestedFix:  "Use a native <button> or <a> element, or add tabindex=\"0\" and an appropriate role to clickable elements.",
		SampleSnippet: `<div role="button" tabindex="0" onclick="openMenu()">Menu</div>`,
		Scanner:       newTagScanner(clickableTagPattern, false),
		Check:         checkMissingKeyboardAccess,
	},
	{
		Category:      CategoryMissingLabels,
		Title:         "Form field missing label",
		Weight:        5,
		SuggestedFix:  "Associate every form field with a <label for=\"...\">, wrap it in a <label>, or add aria-label/aria-labelledby.",
		SampleSnippet: "<label for=\"email\">Email</label>\n<input type=\"email\" id=\"email\">",
		Scanner:       newTagScanner(formControlPattern, true),
		Check:         checkMissingLabel,
	},
	{
		Category:      CategoryMissingSkipLink,
		Title:         "Missing skip navigation link",
		Weight:        5,
		SuggestedFix:  "Add a \"Skip to content\" link at the top of the page that targets the main content.",
		SampleSnippet: `<a href="#main-content" class="skip-link">Skip to main content</a>`,
		FaultySample:  "<body>\n  <nav>...</nav>\n  <main id=\"main-content\">...</main>\n</body>",
		Scanner:       documentScanner{},
		Check:         checkMissingSkipLink,
	},
	{
		Category:      CategoryFontSizeTooSmall,
		Title:         "Font size too small",
		Weight:        5,
		SuggestedFix:  "Use a font size of at least 14px (or relative units) so text stays readable and resizable.",
		SampleSnippet: `<p style="font-size: 16px;">Body text</p>`,
		Scanner:       newPatternScanner(fontSizePattern),
		Check:         checkFontSizeTooSmall,
	},
	{
		Category:      CategoryBrokenLinks,
		Title:         "Broken link or placeholder href",
		Weight:        5,
		SuggestedFix:  "Give every link a real destination. Use a <button> for actions instead of href=\"#\" or javascript: URLs.",
		SampleSnippet: `<a href="https://example.com/pricing">View pricing</a>`,
		Scanner:       newTagScanner(anchorTagPattern, false),
		Check:         checkBrokenLink,
	},
}

// DefaultRules returns a copy of the built-in rule registry in execution order.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// IsKnownCategory reports whether category names a built-in rule.
func IsKnownCategory(category string) bool {
	for _, r := range defaultRules {
		if r.Category == category {
			return true
		}
	}
	return false
}
