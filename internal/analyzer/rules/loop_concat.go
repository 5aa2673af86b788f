package rules

import (
	"fmt"
	"strings"

	"codexplain/internal/models"
	"codexplain/internal/tree"
)

// LoopConcatRule flags repeated concatenation of a growing sequence
// inside a loop: `s += piece` or `s = s + piece`.
type LoopConcatRule struct{}

func NewLoopConcatRule() *LoopConcatRule {
	return &LoopConcatRule{}
}

func (r *LoopConcatRule) ID() string {
	return "loop-concat"
}

func (r *LoopConcatRule) Apply(ctx *Context) []models.Suggestion {
	var suggestions []models.Suggestion

	ctx.Root.Descend(func(n *tree.Node) bool {
		if !n.IsLoop() {
			return true
		}
		for _, assign := range growingConcats(n) {
			suggestions = append(suggestions, models.Suggestion{
				Rule:      r.ID(),
				StartLine: assign.Span.StartLine,
				EndLine:   assign.Span.EndLine,
				Text: fmt.Sprintf("Accumulate the pieces of `%s` in a list and join "+
					"them once after the loop, or pre-size the result.",
					assign.Attr(tree.AttrTarget)),
				Rationale: "Concatenating onto a growing sequence copies the whole " +
					"accumulated value on every iteration, turning a linear loop into " +
					"quadratic work.",
			})
		}
		// Assignments in inner loops were already collected here.
		return false
	})

	return suggestions
}

// growingConcats collects assignments under the loop that extend their
// own target by concatenation.
func growingConcats(loop *tree.Node) []*tree.Node {
	var matches []*tree.Node
	loop.Descend(func(n *tree.Node) bool {
		if n.Kind != tree.KindAssignment {
			return true
		}
		if isSelfConcat(n) {
			matches = append(matches, n)
		}
		return true
	})
	return matches
}

// sequenceVarNames are common names for string or list accumulators.
// Numeric accumulators (`total += x * y`) must not match; only additions
// that look like they grow a sequence count.
var sequenceVarNames = []string{
	"str", "s", "result", "output", "text", "content", "message", "data",
	"out", "parts", "items", "buf", "buffer", "html", "body", "line", "lines",
}

func isSelfConcat(n *tree.Node) bool {
	target := strings.TrimSpace(n.Attr(tree.AttrTarget))
	value := n.Attr(tree.AttrValue)

	switch n.Attr(tree.AttrOperator) {
	case "+=":
		return looksLikeSequence(target, value)
	case "=":
		if target == "" || !strings.Contains(value, "+") {
			return false
		}
		for _, operand := range strings.Split(value, "+") {
			if strings.TrimSpace(operand) == target {
				return looksLikeSequence(target, value)
			}
		}
	}
	return false
}

// looksLikeSequence guards against flagging numeric accumulation: either
// the appended value is visibly a string or list, or the target carries a
// conventional accumulator name.
func looksLikeSequence(target, value string) bool {
	if strings.ContainsAny(value, `"'`) ||
		strings.Contains(value, "str(") ||
		strings.Contains(value, "[") {
		return true
	}
	lowered := strings.ToLower(target)
	for _, name := range sequenceVarNames {
		if lowered == name {
			return true
		}
	}
	return false
}
