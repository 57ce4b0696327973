package accessibility

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	imgTagPattern       = regexp.MustCompile(`(?is)<img\b[^>]*>`)
	anchorTagPattern    = regexp.MustCompile(`(?is)<a\b[^>]*>`)
	clickableTagPattern = regexp.MustCompile(`(?is)<(?:div|span|li|tr|td|img)\b[^>]*>`)
	formControlPattern  = regexp.MustCompile(`(?is)<(?:input|select|textarea)\b[^>]*>`)
	fontSizePattern     = regexp.MustCompile(`(?i)font-size\s*:\s*(\d*\.?\d+)\s*(px|pt|rem|em)\b`)

	headingOpenPattern = regexp.MustCompile(`(?i)<h([1-9])(?:\s[^>]*)?>`)
	// headingClosePatterns[n] matches </hn>; Go regexp has no backreferences
	headingClosePatterns = func() [10]*regexp.Regexp {
		var patterns [10]*regexp.Regexp
		for level := 1; level <= 9; level++ {
			patterns[level] = regexp.MustCompile(`(?i)</h` + strconv.Itoa(level) + `\s*>`)
		}
		return patterns
	}()

	styledTagPattern = regexp.MustCompile(`(?is)<[a-z][a-z0-9-]*\b[^>]*\bstyle\s*=[^>]*>`)
)

// Candidate is one element or fragment extracted by a scanner.
type Candidate struct {
	Fragment string     // Matched markup, used as the faulted snippet and for line lookup
	Offset   int        // Byte offset of Fragment in the document
	Tag      string     // Lower-cased element name for tag candidates
	Attrs    Attributes // Attributes for tag candidates
	Line     int        // Fixed line number; 0 means resolve from Fragment

	Level     int // Heading level (heading candidates)
	PrevLevel int // Level of the preceding heading (heading candidates)
}

// Scanner extracts candidate fragments from a document. Scanners never fail:
// no match means no candidates.
type Scanner interface {
	Scan(doc *Document) []Candidate
}

// tagScanner extracts opening tags matching pattern and tokenizes their attributes.
type tagScanner struct {
	pattern *regexp.Regexp
	unique  bool // drop repeated occurrences of identical tag text
}

func newTagScanner(pattern *regexp.Regexp, unique bool) tagScanner {
	return tagScanner{pattern: pattern, unique: unique}
}

func (s tagScanner) Scan(doc *Document) []Candidate {
	var candidates []Candidate
	seen := make(map[string]bool)

	for _, loc := range s.pattern.FindAllStringIndex(doc.Text, -1) {
		fragment := doc.Text[loc[0]:loc[1]]
		if s.unique {
			if seen[fragment] {
				continue
			}
			seen[fragment] = true
		}
		candidates = append(candidates, Candidate{
			Fragment: fragment,
			Offset:   loc[0],
			Tag:      tagName(fragment),
			Attrs:    parseAttributes(fragment),
		})
	}

	return candidates
}

// patternScanner emits every match of pattern as a candidate.
type patternScanner struct {
	pattern *regexp.Regexp
}

func newPatternScanner(pattern *regexp.Regexp) patternScanner {
	return patternScanner{pattern: pattern}
}

func (s patternScanner) Scan(doc *Document) []Candidate {
	var candidates []Candidate
	for _, loc := range s.pattern.FindAllStringIndex(doc.Text, -1) {
		candidates = append(candidates, Candidate{
			Fragment: doc.Text[loc[0]:loc[1]],
			Offset:   loc[0],
		})
	}
	return candidates
}

// heading is one recognized <hN>...</hN> element.
type heading struct {
	level    int
	fragment string
	offset   int
}

// scanHeadings returns headings in document order. An opening tag only counts
// when a closing tag of the same level follows it; matches never overlap.
func scanHeadings(text string) []heading {
	var headings []heading

	pos := 0
	for pos < len(text) {
		open := headingOpenPattern.FindStringSubmatchIndex(text[pos:])
		if open == nil {
			break
		}
		openStart, openEnd := pos+open[0], pos+open[1]
		level := int(text[pos+open[2]] - '0')

		closing := headingClosePatterns[level].FindStringIndex(text[openEnd:])
		if closing == nil {
			pos = openEnd
			continue
		}
		closeEnd := openEnd + closing[1]

		headings = append(headings, heading{
			level:    level,
			fragment: text[openStart:closeEnd],
			offset:   openStart,
		})
		pos = closeEnd
	}

	return headings
}

// headingScanner emits one candidate per adjacent pair of headings, carrying
// the later heading as the fragment.
type headingScanner struct{}

func (headingScanner) Scan(doc *Document) []Candidate {
	headings := scanHeadings(doc.Text)

	var candidates []Candidate
	for i := 1; i < len(headings); i++ {
		candidates = append(candidates, Candidate{
			Fragment:  headings[i].fragment,
			Offset:    headings[i].offset,
			Tag:       "h" + strconv.Itoa(headings[i].level),
			Level:     headings[i].level,
			PrevLevel: headings[i-1].level,
		})
	}
	return candidates
}

// declarationScanner emits inline style attribute values that set both color
// and background-color. Stylesheets and text content are not inspected.
type declarationScanner struct{}

func (declarationScanner) Scan(doc *Document) []Candidate {
	var candidates []Candidate

	for _, loc := range styledTagPattern.FindAllStringIndex(doc.Text, -1) {
		tag := doc.Text[loc[0]:loc[1]]
		style, ok := parseAttributes(tag).Value("style")
		if !ok {
			continue
		}
		decls := parseDeclarations(style)
		_, hasColor := decls["color"]
		_, hasBackground := decls["background-color"]
		if !hasColor || !hasBackground {
			continue
		}

		trimmed := strings.TrimSpace(style)
		offset := loc[0]
		if i := strings.Index(tag, trimmed); i >= 0 {
			offset += i
		}
		candidates = append(candidates, Candidate{
			Fragment: trimmed,
			Offset:   offset,
			Tag:      tagName(tag),
		})
	}

	return candidates
}

// parseDeclarations splits a CSS declaration list into lower-cased property
// names and their values. The first declaration of a property wins.
func parseDeclarations(run string) map[string]string {
	decls := make(map[string]string)
	for _, part := range strings.Split(run, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, seen := decls[name]; seen {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(value), "!important"))
		decls[name] = value
	}
	return decls
}

// documentScanner emits a single document-level candidate pinned to line 1.
// Blank documents yield nothing.
type documentScanner struct{}

func (documentScanner) Scan(doc *Document) []Candidate {
	if strings.TrimSpace(doc.Text) == "" {
		return nil
	}
	return []Candidate{{Line: 1}}
}
