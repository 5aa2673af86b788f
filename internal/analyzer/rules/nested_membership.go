package rules

import (
	"fmt"
	"strings"

	"codexplain/internal/models"
	"codexplain/internal/tree"
)

// NestedMembershipRule finds a membership test over a sequence inside a
// loop body. The `in` scan is itself a hidden inner loop, so the combined
// shape is the classic accidental O(n^2) search.
type NestedMembershipRule struct{}

func NewNestedMembershipRule() *NestedMembershipRule {
	return &NestedMembershipRule{}
}

func (r *NestedMembershipRule) ID() string {
	return "nested-membership"
}

func (r *NestedMembershipRule) Apply(ctx *Context) []models.Suggestion {
	var suggestions []models.Suggestion

	ctx.Root.Descend(func(n *tree.Node) bool {
		if !n.IsLoop() {
			return true
		}
		if !containsMembershipTest(n) {
			return true
		}
		suggestions = append(suggestions, models.Suggestion{
			Rule:      r.ID(),
			StartLine: n.Span.StartLine,
			EndLine:   n.Span.EndLine,
			Text: "Replace the membership test in the loop body with a set or " +
				"dict lookup built before the loop.",
			Rationale: fmt.Sprintf(
				"Scanning a sequence with `in` inside a loop repeats a linear search "+
					"on every iteration; a hash-based structure makes each lookup O(1). "+
					"(lines %d-%d)", n.Span.StartLine, n.Span.EndLine),
		})
		// The outermost matching loop covers the whole scan; skip its
		// subtree so inner loops do not duplicate the suggestion.
		return false
	})

	return suggestions
}

// containsMembershipTest looks for an `in` comparison in a condition or
// expression beneath the loop, or an index/count scan call. The loop's
// own iteration header does not count.
func containsMembershipTest(loop *tree.Node) bool {
	found := false
	loop.Descend(func(n *tree.Node) bool {
		if found {
			return false
		}
		switch n.Kind {
		case tree.KindConditional:
			if isMembershipExpr(n.Attr(tree.AttrCondition)) {
				found = true
			}
		case tree.KindLoopWhile:
			if n != loop && isMembershipExpr(n.Attr(tree.AttrCondition)) {
				found = true
			}
		case tree.KindCall:
			callee := n.Attr(tree.AttrCallee)
			if strings.HasSuffix(callee, ".index") || strings.HasSuffix(callee, ".count") {
				found = true
			}
		case tree.KindAssignment:
			if isMembershipExpr(n.Attr(tree.AttrValue)) {
				found = true
			}
		}
		return !found
	})
	return found
}

func isMembershipExpr(expr string) bool {
	return strings.Contains(expr, " in ") || strings.Contains(expr, " not in ")
}
