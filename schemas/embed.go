// Package schemas holds the JSON Schema documents published with the checker.
package schemas

import _ "embed"

// Report is the JSON Schema for an accessibility report.
//
//go:embed report.schema.json
var Report string
