package accessibility

import (
	"regexp"
	"sort"
	"strings"
)

var (
	labelOpenPattern  = regexp.MustCompile(`(?i)<label\b[^>]*>`)
	labelClosePattern = regexp.MustCompile(`(?i)</label\s*>`)
)

// Document is the per-analysis view of the input markup: the raw text and its
// line index. It is never shared between analyses.
type Document struct {
	Text  string
	Lines []string

	labels *labelIndex
}

// NewDocument builds a Document for the given markup.
func NewDocument(text string) *Document {
	return &Document{
		Text:  text,
		Lines: strings.Split(text, "\n"),
	}
}

// LineOf returns the 1-based number of the first line containing needle, or 0
// if no line does. Fragments spanning several lines never match; repeated
// fragments always resolve to their first occurrence.
func (d *Document) LineOf(needle string) int {
	if needle == "" {
		return 0
	}
	for i, line := range d.Lines {
		if strings.Contains(line, needle) {
			return i + 1
		}
	}
	return 0
}

// labelIndex records where <label> elements open and close and which ids they
// reference through their for attribute.
type labelIndex struct {
	opens  []int
	closes []int
	forIDs map[string]bool
}

func (d *Document) labelIndex() *labelIndex {
	if d.labels != nil {
		return d.labels
	}

	idx := &labelIndex{forIDs: make(map[string]bool)}
	for _, loc := range labelOpenPattern.FindAllStringIndex(d.Text, -1) {
		idx.opens = append(idx.opens, loc[0])
		attrs := parseAttributes(d.Text[loc[0]:loc[1]])
		if id, ok := attrs.Value("for"); ok {
			if id = strings.TrimSpace(id); id != "" {
				idx.forIDs[id] = true
			}
		}
	}
	for _, loc := range labelClosePattern.FindAllStringIndex(d.Text, -1) {
		idx.closes = append(idx.closes, loc[0])
	}

	d.labels = idx
	return idx
}

// insideLabel reports whether offset falls after an opening <label> that has
// not been closed yet.
func (idx *labelIndex) insideLabel(offset int) bool {
	lastOpen := lastBefore(idx.opens, offset)
	if lastOpen < 0 {
		return false
	}
	return lastOpen > lastBefore(idx.closes, offset)
}

// lastBefore returns the greatest value in sorted that is < offset, or -1.
func lastBefore(sorted []int, offset int) int {
	i := sort.SearchInts(sorted, offset)
	if i == 0 {
		return -1
	}
	return sorted[i-1]
}
