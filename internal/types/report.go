// Package types provides type definitions for structured data used throughout the a11y-checker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// IssueDetail is one concrete violation inside an issue group.
type IssueDetail struct {
	SuggestedFix   string `json:"suggestedFix"`
	FaultedSnippet string `json:"faultedSnippet"`
	SampleSnippet  string `json:"sampleSnippet"`
}

// IssueGroup collects every violation of a single rule category.
type IssueGroup struct {
	Title   string        `json:"title"`
	Line    int           `json:"line"` // Line of the first violation in the group (0 when unknown)
	Details []IssueDetail `json:"details"`
}

// Report is the result of analyzing one block of markup.
// Issues is sparse: categories without violations are absent.
type Report struct {
	ComplianceScore int                    `json:"complianceScore"`
	Issues          map[string]*IssueGroup `json:"issues"`
}

// NewReport returns an empty report with a perfect score.
func NewReport() *Report {
	return &Report{
		ComplianceScore: 100,
		Issues:          make(map[string]*IssueGroup),
	}
}

// ViolationCount returns the total number of violations across all categories.
func (r *Report) ViolationCount() int {
	count := 0
	for _, group := range r.Issues {
		count += len(group.Details)
	}
	return count
}

// HasIssues reports whether any category has at least one violation.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	HTML string `json:"html" validate:"required"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RuleInfo describes a registered rule for listings (CLI and API).
type RuleInfo struct {
	Category     string `json:"category"`
	Title        string `json:"title"`
	Weight       int    `json:"weight"`
	SuggestedFix string `json:"suggestedFix"`
}
