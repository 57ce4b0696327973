package accessibility

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	anchorWithBodyPattern = regexp.MustCompile(`(?is)<a\b[^>]*>(.*?)</a\s*>`)
	skipLinkKeywords      = []string{"skip", "jump", "main", "content"}

	clickHandlers = map[string]bool{
		"onclick":    true,
		"ng-click":   true,
		"@click":     true,
		"(click)":    true,
		"v-on:click": true,
	}

	unlabeledInputTypes = map[string]bool{
		"hidden": true,
		"submit": true,
		"button": true,
		"reset":  true,
		"image":  true,
	}

	placeholderHrefs = map[string]bool{"": true, "#": true, "#!": true}
)

// checkMissingAlt flags images without an alt attribute in any form.
// An empty alt marks a decorative image and is accepted.
func checkMissingAlt(_ *Document, c Candidate) bool {
	return !c.Attrs.Has("alt")
}

// checkSkippedHeading flags forward jumps of more than one level.
func checkSkippedHeading(_ *Document, c Candidate) bool {
	return c.Level > c.PrevLevel+1
}

// checkLowContrast flags color pairs below the AA ratio. Pairs where either
// color cannot be parsed are skipped.
func checkLowContrast(_ *Document, c Candidate) bool {
	decls := parseDeclarations(c.Fragment)
	fg, ok := ParseColor(decls["color"])
	if !ok {
		return false
	}
	bg, ok := ParseColor(decls["background-color"])
	if !ok {
		return false
	}
	return ContrastRatio(fg, bg) < MinContrastRatio
}

// checkMissingKeyboardAccess flags non-focusable elements that handle clicks
// but cannot be reached with the keyboard. A role such as button only helps
// together with a tabindex, so the tabindex is what decides.
func checkMissingKeyboardAccess(_ *Document, c Candidate) bool {
	if !hasClickHandler(c.Attrs) {
		return false
	}
	return !c.Attrs.Has("tabindex")
}

// hasClickHandler accepts event modifiers such as @click.prevent.
func hasClickHandler(attrs Attributes) bool {
	for name := range attrs {
		base, _, _ := strings.Cut(name, ".")
		if clickHandlers[base] {
			return true
		}
	}
	return false
}

// checkMissingLabel flags form controls with no accessible name source.
func checkMissingLabel(doc *Document, c Candidate) bool {
	if c.Tag == "input" {
		inputType, _ := c.Attrs.Value("type")
		if unlabeledInputTypes[strings.ToLower(strings.TrimSpace(inputType))] {
			return false
		}
	}

	if c.Attrs.Has("aria-label") || c.Attrs.Has("aria-labelledby") || c.Attrs.Has("title") {
		return false
	}

	labels := doc.labelIndex()
	if id, ok := c.Attrs.Value("id"); ok {
		if id = strings.TrimSpace(id); id != "" && labels.forIDs[id] {
			return false
		}
	}

	return !labels.insideLabel(c.Offset)
}

// checkMissingSkipLink flags documents without any skip navigation link.
func checkMissingSkipLink(doc *Document, _ Candidate) bool {
	return !hasSkipLink(doc.Text)
}

func hasSkipLink(text string) bool {
	for _, tag := range anchorTagPattern.FindAllString(text, -1) {
		class, _ := parseAttributes(tag).Value("class")
		if strings.Contains(strings.ToLower(class), "skip") {
			return true
		}
	}

	for _, m := range anchorWithBodyPattern.FindAllStringSubmatchIndex(text, -1) {
		openTag := text[m[0]:m[2]]
		href, ok := parseAttributes(openTag).Value("href")
		if !ok || !strings.HasPrefix(strings.TrimSpace(href), "#") {
			continue
		}
		body := strings.ToLower(text[m[2]:m[3]])
		for _, keyword := range skipLinkKeywords {
			if strings.Contains(body, keyword) {
				return true
			}
		}
	}

	return false
}

// checkFontSizeTooSmall flags font-size declarations below 14px once
// converted (pt x 1.333, em/rem x 16).
func checkFontSizeTooSmall(_ *Document, c Candidate) bool {
	px, ok := fontSizeInPixels(c.Fragment)
	return ok && px < 14
}

func fontSizeInPixels(declaration string) (float64, bool) {
	m := fontSizePattern.FindStringSubmatch(declaration)
	if m == nil {
		return 0, false
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "pt":
		return size * 1.333, true
	case "em", "rem":
		return size * 16, true
	default:
		return size, true
	}
}

// checkBrokenLink flags anchors whose href goes nowhere.
func checkBrokenLink(_ *Document, c Candidate) bool {
	href, ok := c.Attrs.Value("href")
	if !ok {
		return false
	}
	href = strings.TrimSpace(href)
	if placeholderHrefs[href] {
		return true
	}
	return strings.HasPrefix(strings.ToLower(href), "javascript:")
}
