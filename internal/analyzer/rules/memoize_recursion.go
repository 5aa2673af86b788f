package rules

import (
	"fmt"
	"strings"

	"codexplain/internal/models"
	"codexplain/internal/tree"
)

// cacheTokens are identifiers whose presence inside a recursive function
// is taken as evidence of existing memoization.
var cacheTokens = []string{"cache", "memo", "lru_cache", "seen", "table"}

// MemoizeRecursionRule flags linear recursion classified O(n) or worse
// with no cache or lookup structure referenced inside the function.
type MemoizeRecursionRule struct{}

func NewMemoizeRecursionRule() *MemoizeRecursionRule {
	return &MemoizeRecursionRule{}
}

func (r *MemoizeRecursionRule) ID() string {
	return "memoize-recursion"
}

func (r *MemoizeRecursionRule) Apply(ctx *Context) []models.Suggestion {
	var suggestions []models.Suggestion

	for _, finding := range ctx.Findings {
		if finding.Recursion != models.RecursionLinear {
			continue
		}
		if finding.Class.Order() < models.ClassLinear.Order() {
			continue
		}
		fn := ctx.FunctionNode(finding.Function)
		if fn == nil || referencesCache(fn) {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			Rule:      r.ID(),
			StartLine: fn.Span.StartLine,
			EndLine:   fn.Span.EndLine,
			Text: fmt.Sprintf("Memoize `%s` (e.g. functools.lru_cache) or rewrite "+
				"it as an iterative loop.", finding.Function),
			Rationale: fmt.Sprintf(
				"`%s` recurses once per call with no cache in sight; repeated "+
					"invocations with the same argument redo the whole chain, and deep "+
					"inputs risk exhausting the call stack.", finding.Function),
		})
	}

	return suggestions
}

// referencesCache scans every attribute of the function's subtree for a
// cache-like identifier.
func referencesCache(fn *tree.Node) bool {
	found := false
	fn.Descend(func(n *tree.Node) bool {
		if found {
			return false
		}
		for _, value := range n.Attributes {
			lowered := strings.ToLower(value)
			for _, token := range cacheTokens {
				if strings.Contains(lowered, token) {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}
