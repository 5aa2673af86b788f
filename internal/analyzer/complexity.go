package analyzer

import (
	"strconv"
	"strings"

	"codexplain/internal/models"
	"codexplain/internal/tree"
)

// ModuleScope is the synthetic function name used for top-level code.
const ModuleScope = "module"

// scopeState accumulates the nesting and recursion evidence for a single
// function (or the module) while replaying the walk.
type scopeState struct {
	name string
	// baseLoopDepth is the loop depth at the function's definition site;
	// depths inside the scope are measured relative to it so loops in
	// nested function definitions stay with the inner function.
	baseLoopDepth int
	maxLoopDepth  int
	// callSites counts direct and mutual recursion edges per enclosing
	// statement line; a line with two or more sites means branching.
	callSites   map[int]int
	halvingCall bool
	halvingLoop bool
}

// Estimate reduces the walk output to one complexity finding per function
// plus a synthetic finding for module-level code (always last, with no
// recursion possible). Functions appear in encounter order.
func Estimate(visits []tree.Visit) []models.ComplexityFinding {
	scopes := map[string]*scopeState{
		ModuleScope: {name: ModuleScope, callSites: map[int]int{}},
	}
	order := []string{}

	for _, v := range visits {
		if v.Node.Kind == tree.KindFunctionDef {
			name := v.Node.Attr(tree.AttrName)
			if _, seen := scopes[name]; !seen {
				scopes[name] = &scopeState{
					name:          name,
					baseLoopDepth: v.Ctx.LoopDepth,
					callSites:     map[int]int{},
				}
				order = append(order, name)
			}
			continue
		}

		scope := scopes[ModuleScope]
		if v.Ctx.Function != "" {
			if s, ok := scopes[v.Ctx.Function]; ok {
				scope = s
			}
		}

		depth := v.Ctx.LoopDepth - scope.baseLoopDepth
		if depth > scope.maxLoopDepth {
			scope.maxLoopDepth = depth
		}

		switch v.Node.Kind {
		case tree.KindCall:
			if v.Ctx.Recursion.Edge != tree.EdgeNone {
				target := scopes[v.Ctx.Recursion.Target]
				if target == nil {
					break
				}
				line, _ := strconv.Atoi(v.Node.Attr(tree.AttrStmtLine))
				target.callSites[line]++
				if halvesParameter(v.Node.Attr(tree.AttrArgs)) {
					target.halvingCall = true
				}
			}
		case tree.KindAssignment:
			if depth >= 1 && isHalvingUpdate(v.Node) {
				scope.halvingLoop = true
			}
		}
	}

	findings := make([]models.ComplexityFinding, 0, len(order)+1)
	for _, name := range order {
		findings = append(findings, classify(scopes[name]))
	}
	findings = append(findings, classify(scopes[ModuleScope]))
	return findings
}

// classify applies the precedence table: divide-and-conquer, branching,
// linear recursion, then pure loop nesting. A depth-one loop that halves
// its own bound is checked before the generic depth-one row, otherwise
// the logarithmic class could never be reached.
func classify(s *scopeState) models.ComplexityFinding {
	finding := models.ComplexityFinding{
		Function:  s.name,
		LoopDepth: s.maxLoopDepth,
		Recursion: models.RecursionNone,
	}

	factor := 0
	for _, n := range s.callSites {
		if n > factor {
			factor = n
		}
	}

	switch {
	case factor >= 2 && s.halvingCall:
		finding.Recursion = models.RecursionDivideConquer
		finding.BranchFactor = factor
		finding.Class = models.ClassLinearithmic
	case factor >= 2:
		finding.Recursion = models.RecursionBranching
		finding.BranchFactor = factor
		finding.Class = models.ClassExponential
	case factor == 1 && s.maxLoopDepth == 0:
		finding.Recursion = models.RecursionLinear
		finding.Class = models.ClassLinear
	case factor == 1:
		// Linear recursion combined with loops falls outside the table;
		// resolved conservatively as one extra polynomial degree.
		finding.Recursion = models.RecursionLinear
		finding.Class = models.ClassPolynomial(s.maxLoopDepth + 1)
	case s.maxLoopDepth == 0:
		finding.Class = models.ClassConstant
	case s.maxLoopDepth == 1 && s.halvingLoop:
		finding.Class = models.ClassLogarithmic
	case s.maxLoopDepth == 1:
		finding.Class = models.ClassLinear
	default:
		finding.Class = models.ClassPolynomial(s.maxLoopDepth)
	}
	return finding
}

// halvesParameter reports whether an argument list shows the halving
// pattern: integer division by two, a right shift by one, or a midpoint
// variable. Any of these counts as divide-and-conquer evidence.
func halvesParameter(args string) bool {
	s := strings.ReplaceAll(args, " ", "")
	return strings.Contains(s, "//2") ||
		strings.Contains(s, ">>1") ||
		strings.Contains(strings.ToLower(s), "mid")
}

// isHalvingUpdate reports whether an assignment inside a loop shrinks its
// own target by a constant fraction, e.g. `n //= 2` or `n = n // 2`.
func isHalvingUpdate(n *tree.Node) bool {
	op := n.Attr(tree.AttrOperator)
	switch op {
	case "//=":
		return strings.TrimSpace(n.Attr(tree.AttrValue)) == "2"
	case ">>=":
		return strings.TrimSpace(n.Attr(tree.AttrValue)) == "1"
	}
	if op != "=" {
		return false
	}
	target := strings.TrimSpace(n.Attr(tree.AttrTarget))
	value := strings.ReplaceAll(n.Attr(tree.AttrValue), " ", "")
	if target == "" || !strings.Contains(value, target) {
		return false
	}
	return strings.Contains(value, "//2") || strings.Contains(value, ">>1")
}
