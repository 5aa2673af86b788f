package rules

import (
	"sort"

	"codexplain/internal/models"
)

// Rule recognizes one structural pattern. Apply returns zero or more
// suggestions; rules are independent and not mutually exclusive.
type Rule interface {
	ID() string
	Apply(ctx *Context) []models.Suggestion
}

// Engine holds the rule list in declaration order.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with all built-in rules registered. The
// rule list is fixed at construction and never mutated, so a single
// engine is safe to share across concurrent analyses.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			NewNestedMembershipRule(),
			NewMemoizeRecursionRule(),
			NewLoopConcatRule(),
			NewBranchingRecursionRule(),
		},
	}
}

// Run evaluates every rule. Output order mirrors rule declaration order;
// multiple matches of the same rule are ordered by source span.
func (e *Engine) Run(ctx *Context) []models.Suggestion {
	all := make([]models.Suggestion, 0)
	for _, rule := range e.rules {
		matches := rule.Apply(ctx)
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].StartLine < matches[j].StartLine
		})
		all = append(all, matches...)
	}
	return all
}

// RuleIDs returns the registered rule identifiers in evaluation order.
func (e *Engine) RuleIDs() []string {
	ids := make([]string, len(e.rules))
	for i, r := range e.rules {
		ids[i] = r.ID()
	}
	return ids
}
