package analyzer

import (
	"fmt"
	"strings"

	"codexplain/internal/models"
	"codexplain/internal/tree"
)

// Template renders the explanation text for one visited node. Templates
// must be pure: the same node and context always produce the same text.
type Template func(n *tree.Node, ctx tree.WalkContext) string

// TemplateTable maps explainable construct kinds to their templates.
// Kinds without an entry are skipped, which is how unsupported constructs
// degrade gracefully instead of failing the analysis.
type TemplateTable map[tree.Kind]Template

// DefaultTemplates returns the built-in template table. It is constructed
// once at engine creation and never mutated afterwards.
func DefaultTemplates() TemplateTable {
	return TemplateTable{
		tree.KindFunctionDef: func(n *tree.Node, _ tree.WalkContext) string {
			return fmt.Sprintf("Define function `%s` with %d parameter(s).",
				n.Attr(tree.AttrName), countParams(n.Attr(tree.AttrParams)))
		},
		tree.KindClassDef: func(n *tree.Node, _ tree.WalkContext) string {
			return fmt.Sprintf("Define class `%s`.", n.Attr(tree.AttrName))
		},
		tree.KindLoopFor: func(n *tree.Node, _ tree.WalkContext) string {
			return fmt.Sprintf("For-loop iterates `%s` over `%s`.",
				n.Attr(tree.AttrTarget), n.Attr(tree.AttrIterable))
		},
		tree.KindLoopWhile: func(n *tree.Node, _ tree.WalkContext) string {
			return fmt.Sprintf("While-loop continues while `%s` is true.",
				n.Attr(tree.AttrCondition))
		},
		tree.KindConditional: func(n *tree.Node, _ tree.WalkContext) string {
			return fmt.Sprintf("Branch checks whether `%s`.", n.Attr(tree.AttrCondition))
		},
		tree.KindTryExcept: func(_ *tree.Node, _ tree.WalkContext) string {
			return "Guard the enclosed statements with try/except error handling."
		},
		tree.KindCall: func(n *tree.Node, ctx tree.WalkContext) string {
			callee := n.Attr(tree.AttrCallee)
			switch ctx.Recursion.Edge {
			case tree.EdgeDirect:
				return fmt.Sprintf("Call `%s` recursively.", callee)
			case tree.EdgeMutual:
				return fmt.Sprintf("Call `%s`, recursing through an enclosing function.", callee)
			default:
				return fmt.Sprintf("Call `%s`.", callee)
			}
		},
		tree.KindAssignment: func(n *tree.Node, _ tree.WalkContext) string {
			if op := n.Attr(tree.AttrOperator); op != "=" && op != "" {
				return fmt.Sprintf("Update `%s` with `%s %s`.",
					n.Attr(tree.AttrTarget), op, n.Attr(tree.AttrValue))
			}
			return fmt.Sprintf("Assign `%s` into `%s`.",
				n.Attr(tree.AttrValue), n.Attr(tree.AttrTarget))
		},
		tree.KindReturn: func(n *tree.Node, _ tree.WalkContext) string {
			if v := n.Attr(tree.AttrValue); v != "" {
				return fmt.Sprintf("Return `%s`.", v)
			}
			return "Return from the function."
		},
	}
}

// Explain renders one bullet per visited node whose kind has a template,
// in traversal order. Bullet depth mirrors the nesting depth from the
// context snapshot.
func Explain(visits []tree.Visit, templates TemplateTable) []models.ExplanationBullet {
	bullets := make([]models.ExplanationBullet, 0, len(visits))
	for _, v := range visits {
		tmpl, ok := templates[v.Node.Kind]
		if !ok {
			continue
		}
		text := tmpl(v.Node, v.Ctx)
		if q := nestingQualifier(v.Node, v.Ctx); q != "" {
			text = fmt.Sprintf("%s (%s).", strings.TrimSuffix(text, "."), q)
		}
		bullets = append(bullets, models.ExplanationBullet{
			StartLine: v.Node.Span.StartLine,
			EndLine:   v.Node.Span.EndLine,
			Text:      text,
			Depth:     bulletDepth(v.Node, v.Ctx),
		})
	}
	return bullets
}

// bulletDepth is the nesting depth shown for a bullet. The snapshot
// counters include the visited node's own enter effect, which is
// subtracted so a loop header sits one level outside its body.
func bulletDepth(n *tree.Node, ctx tree.WalkContext) int {
	depth := ctx.LoopDepth + ctx.CondDepth
	if n.IsLoop() || n.Kind == tree.KindConditional {
		depth--
	}
	if depth < 0 {
		depth = 0
	}
	return depth
}

// nestingQualifier derives the positional qualifier from the snapshot,
// discounting the visited node's own contribution to the depth counters.
func nestingQualifier(n *tree.Node, ctx tree.WalkContext) string {
	loopDepth := ctx.LoopDepth
	condDepth := ctx.CondDepth
	if n.IsLoop() {
		loopDepth--
	}
	if n.Kind == tree.KindConditional {
		condDepth--
	}
	switch {
	case loopDepth >= 2:
		return "inside a nested loop"
	case loopDepth == 1:
		return "inside a loop"
	case condDepth >= 1:
		return "inside a conditional branch"
	}
	return ""
}

func countParams(params string) int {
	if strings.TrimSpace(params) == "" {
		return 0
	}
	depth := 0
	count := 1
	for _, r := range params {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				count++
			}
		}
	}
	return count
}
