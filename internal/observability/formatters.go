// Package observability provides human-readable output for CLI runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/a11y-checker/internal/fetch"
	"github.com/jonathan/a11y-checker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of details listed per category
	maxItemsToShow = 3
)

// Printer handles formatted text output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs the score and every issue group in the given category
// order. Categories missing from the report are skipped.
func (p *Printer) PrintReport(source string, report *types.Report, categories []string) {
	if report == nil {
		return
	}

	title := fmt.Sprintf("ACCESSIBILITY REPORT: %s", source)
	if !report.HasIssues() {
		p.printBox(title, fmt.Sprintf("Compliance score: %d/100\n\n✅ NO ISSUES FOUND", report.ComplianceScore))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compliance score: %d/100\n", report.ComplianceScore))
	sb.WriteString(fmt.Sprintf("Found %d violations in %d categories\n", report.ViolationCount(), len(report.Issues)))

	for _, category := range categories {
		group, ok := report.Issues[category]
		if !ok {
			continue
		}

		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("⚠ %s (%d)\n", group.Title, len(group.Details)))
		if group.Line > 0 {
			sb.WriteString(fmt.Sprintf("  first seen on line %d\n", group.Line))
		}

		count := min(len(group.Details), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", oneLine(group.Details[i].FaultedSnippet)))
		}
		if len(group.Details) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(group.Details)-maxItemsToShow))
		}
		sb.WriteString(fmt.Sprintf("  Fix: %s\n", oneLine(group.Details[0].SuggestedFix)))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs structural information gathered during ingestion.
func (p *Printer) PrintSummary(summary *fetch.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	if summary.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", summary.Title))
	}
	if summary.Lang != "" {
		sb.WriteString(fmt.Sprintf("Language: %s\n", summary.Lang))
	}
	sb.WriteString(fmt.Sprintf("Images:   %d\n", summary.Images))
	sb.WriteString(fmt.Sprintf("Links:    %d\n", summary.Links))
	sb.WriteString(fmt.Sprintf("Headings: %d\n", summary.Headings))
	sb.WriteString(fmt.Sprintf("Forms:    %d", summary.Forms))

	p.printBox("DOCUMENT SUMMARY", sb.String())
}

// PrintRules outputs the rule registry as a table.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRules(rules []types.RuleInfo) {
	fmt.Fprintf(p.out, "%-22s %6s  %s\n", "CATEGORY", "WEIGHT", "TITLE")
	for _, r := range rules {
		fmt.Fprintf(p.out, "%-22s %6d  %s\n", r.Category, r.Weight, r.Title)
	}
}

// oneLine collapses whitespace so multi-line snippets fit in a box row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
