package accessibility

import (
	"regexp"
	"strings"
)

var (
	tagNamePattern = regexp.MustCompile(`^<\s*([a-zA-Z][a-zA-Z0-9:-]*)`)
	// name, then an optional double-quoted, single-quoted or unquoted value
	attributePattern = regexp.MustCompile(`([^\s"'<>/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'<>]+)))?`)
)

// Attribute is a single attribute token from an opening tag.
type Attribute struct {
	Value    string
	HasValue bool // false for bare markers such as <img alt>
}

// Attributes maps lower-cased attribute names to their first occurrence.
type Attributes map[string]Attribute

// Has reports whether the attribute is present in any form.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Value returns the attribute value and whether the attribute is present.
func (a Attributes) Value(name string) (string, bool) {
	attr, ok := a[name]
	return attr.Value, ok
}

// tagName returns the lower-cased element name of an opening tag.
func tagName(tag string) string {
	m := tagNamePattern.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// parseAttributes tokenizes the attributes of a single opening tag such as
// `<input type="text" id=name disabled>`. It does not build any tree.
func parseAttributes(tag string) Attributes {
	attrs := make(Attributes)

	body := strings.TrimPrefix(tag, "<")
	if loc := tagNamePattern.FindStringIndex(tag); loc != nil {
		body = tag[loc[1]:]
	}
	body = strings.TrimSuffix(body, ">")
	body = strings.TrimSuffix(body, "/")

	for _, m := range attributePattern.FindAllStringSubmatchIndex(body, -1) {
		name := strings.ToLower(body[m[2]:m[3]])
		if _, seen := attrs[name]; seen {
			continue
		}

		attr := Attribute{}
		for group := 2; group <= 4; group++ {
			start, end := m[2*group], m[2*group+1]
			if start >= 0 {
				attr.Value = body[start:end]
				attr.HasValue = true
				break
			}
		}
		attrs[name] = attr
	}

	return attrs
}
