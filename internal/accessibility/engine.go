package accessibility

import (
	"github.com/jonathan/a11y-checker/internal/types"
)

const (
	maxScore = 100
	minScore = 0
)

// Violation is one rule failure for one located element.
type Violation struct {
	Category string
	Line     int
	Snippet  string
}

// Engine runs an ordered set of rules over markup. An Engine holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	rules []Rule
}

var defaultEngine = NewEngine()

// NewEngine creates an engine over the given rules, or over the built-in
// registry when none are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &Engine{rules: owned}
}

// Analyze runs the built-in rules over markup.
func Analyze(markup string) *types.Report {
	return defaultEngine.Analyze(markup)
}

// Rules returns the engine's rules in execution order.
func (e *Engine) Rules() []Rule {
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	return rules
}

// RuleInfos describes the engine's rules for listings.
func (e *Engine) RuleInfos() []types.RuleInfo {
	infos := make([]types.RuleInfo, 0, len(e.rules))
	for _, r := range e.rules {
		infos = append(infos, types.RuleInfo{
			Category:     r.Category,
			Title:        r.Title,
			Weight:       r.Weight,
			SuggestedFix: r.SuggestedFix,
		})
	}
	return infos
}

// Categories returns the categories present in report, in rule order.
func (e *Engine) Categories(report *types.Report) []string {
	var categories []string
	for _, r := range e.rules {
		if _, ok := report.Issues[r.Category]; ok {
			categories = append(categories, r.Category)
		}
	}
	return categories
}

// Without returns a new engine that skips the given categories.
func (e *Engine) Without(categories ...string) *Engine {
	skip := make(map[string]bool, len(categories))
	for _, c := range categories {
		skip[c] = true
	}

	kept := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		if !skip[r.Category] {
			kept = append(kept, r)
		}
	}
	return &Engine{rules: kept}
}

// Analyze runs every rule over markup and returns the aggregated report.
// Deductions are summed across all rules and clamped once at the end.
func (e *Engine) Analyze(markup string) *types.Report {
	doc := NewDocument(markup)
	report := types.NewReport()

	deducted := 0
	for i := range e.rules {
		deducted += e.rules[i].apply(doc, report)
	}

	report.ComplianceScore = clampScore(maxScore - deducted)
	return report
}

// apply runs a single rule and returns the points it deducts.
func (r *Rule) apply(doc *Document, report *types.Report) int {
	deducted := 0
	for _, c := range r.Scanner.Scan(doc) {
		if !r.Check(doc, c) {
			continue
		}
		r.record(report, r.locate(doc, c))
		deducted += r.Weight
	}
	return deducted
}

// locate resolves a candidate into a violation with a best-effort line.
func (r *Rule) locate(doc *Document, c Candidate) Violation {
	v := Violation{Category: r.Category, Line: c.Line, Snippet: c.Fragment}
	if v.Line == 0 {
		v.Line = doc.LineOf(c.Fragment)
	}
	if v.Snippet == "" {
		v.Snippet = r.FaultySample
	}
	return v
}

// record appends a violation under the rule's category, creating the group on
// first occurrence.
func (r *Rule) record(report *types.Report, v Violation) {
	group, ok := report.Issues[r.Category]
	if !ok {
		group = &types.IssueGroup{
			Title: r.Title,
			Line:  v.Line,
		}
		report.Issues[r.Category] = group
	}

	group.Details = append(group.Details, types.IssueDetail{
		SuggestedFix:   r.SuggestedFix,
		FaultedSnippet: v.Snippet,
		SampleSnippet:  r.SampleSnippet,
	})
}

func clampScore(score int) int {
	return max(minScore, min(maxScore, score))
}
