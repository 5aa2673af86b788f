package rules

import (
	"fmt"

	"codexplain/internal/models"
)

// BranchingRecursionRule flags branching (non-halving) recursion, which
// classifies exponential, and proposes the standard rewrites.
type BranchingRecursionRule struct{}

func NewBranchingRecursionRule() *BranchingRecursionRule {
	return &BranchingRecursionRule{}
}

func (r *BranchingRecursionRule) ID() string {
	return "branching-recursion"
}

func (r *BranchingRecursionRule) Apply(ctx *Context) []models.Suggestion {
	var suggestions []models.Suggestion

	for _, finding := range ctx.Findings {
		if finding.Recursion != models.RecursionBranching {
			continue
		}
		fn := ctx.FunctionNode(finding.Function)
		if fn == nil {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			Rule:      r.ID(),
			StartLine: fn.Span.StartLine,
			EndLine:   fn.Span.EndLine,
			Text: fmt.Sprintf("Convert `%s` to dynamic programming (bottom-up "+
				"table) or an iterative traversal with an explicit stack.",
				finding.Function),
			Rationale: fmt.Sprintf(
				"`%s` issues %d recursive calls per invocation, so the call tree "+
					"grows exponentially; overlapping subproblems make it a textbook "+
					"dynamic-programming candidate.",
				finding.Function, finding.BranchFactor),
		})
	}

	return suggestions
}
