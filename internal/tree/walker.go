package tree

// RecursionEdge classifies a call that refers back to a function on the
// enclosing call stack.
type RecursionEdge int

const (
	EdgeNone RecursionEdge = iota
	// EdgeDirect: the callee is the innermost enclosing function.
	EdgeDirect
	// EdgeMutual: the callee is an outer enclosing function.
	EdgeMutual
)

// RecursionTag is attached to the context snapshot of a call node that
// closes a recursion edge. Target names the function being re-entered.
type RecursionTag struct {
	Edge   RecursionEdge
	Target string
}

// WalkContext is the immutable snapshot of traversal state taken at each
// visited node. It is scoped to a single walk and never persisted.
type WalkContext struct {
	// Function is the innermost enclosing function name, "" at module
	// level. For a FunctionDef node it is the function itself.
	Function string
	// LoopDepth counts enclosing loops, including the visited node when
	// it is itself a loop.
	LoopDepth int
	// CondDepth counts enclosing conditionals the same way.
	CondDepth int
	// FunctionStack is a copy of the enclosing function names, outermost
	// first.
	FunctionStack []string
	// Recursion tags call nodes that re-enter a function on the stack.
	Recursion RecursionTag
}

// Visit pairs a node with the context snapshot taken when it was reached.
type Visit struct {
	Node *Node
	Ctx  WalkContext
}

// Walk performs a pre-order depth-first traversal of the tree and returns
// the ordered visit sequence. The traversal uses an explicit stack so
// pathologically deep input cannot exhaust the goroutine stack. As a side
// effect it fills the derived "nested" attribute on loops found inside
// another loop. Loop and conditional depths follow stack discipline: both
// are restored to zero by the time Walk returns.
func Walk(root *Node) []Visit {
	type frame struct {
		node *Node
		exit bool
	}

	var (
		visits    []Visit
		loopDepth int
		condDepth int
		funcStack []string
	)

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.exit {
			switch {
			case f.node.IsLoop():
				loopDepth--
			case f.node.Kind == KindConditional:
				condDepth--
			case f.node.Kind == KindFunctionDef:
				funcStack = funcStack[:len(funcStack)-1]
			}
			continue
		}

		switch {
		case f.node.IsLoop():
			loopDepth++
			if loopDepth >= 2 {
				f.node.setAttr(AttrNested, "true")
			}
		case f.node.Kind == KindConditional:
			condDepth++
		case f.node.Kind == KindFunctionDef:
			funcStack = append(funcStack, f.node.Attr(AttrName))
		}

		ctx := WalkContext{
			LoopDepth:     loopDepth,
			CondDepth:     condDepth,
			FunctionStack: append([]string(nil), funcStack...),
		}
		if len(funcStack) > 0 {
			ctx.Function = funcStack[len(funcStack)-1]
		}
		if f.node.Kind == KindCall {
			ctx.Recursion = tagRecursion(f.node.Attr(AttrCallee), funcStack)
		}
		visits = append(visits, Visit{Node: f.node, Ctx: ctx})

		stack = append(stack, frame{node: f.node, exit: true})
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i]})
		}
	}

	return visits
}

func tagRecursion(callee string, funcStack []string) RecursionTag {
	if callee == "" || len(funcStack) == 0 {
		return RecursionTag{}
	}
	if callee == funcStack[len(funcStack)-1] {
		return RecursionTag{Edge: EdgeDirect, Target: callee}
	}
	for _, name := range funcStack[:len(funcStack)-1] {
		if callee == name {
			return RecursionTag{Edge: EdgeMutual, Target: callee}
		}
	}
	return RecursionTag{}
}
