// Package tree builds and traverses the normalized construct tree the
// rest of the engine consumes. The tree is language-agnostic: every node
// is one of a closed set of construct kinds with a line span and
// kind-specific attributes.
package tree

// Kind identifies a construct in the normalized tree.
type Kind string

const (
	KindModule      Kind = "module"
	KindFunctionDef Kind = "function_def"
	KindClassDef    Kind = "class_def"
	KindLoopFor     Kind = "loop_for"
	KindLoopWhile   Kind = "loop_while"
	KindConditional Kind = "conditional"
	KindTryExcept   Kind = "try_except"
	KindCall        Kind = "call"
	KindAssignment  Kind = "assignment"
	KindReturn      Kind = "return"
)

// Attribute keys. Which keys are present depends on the node kind.
const (
	AttrName      = "name"      // FunctionDef, ClassDef
	AttrParams    = "params"    // FunctionDef: comma-separated parameter list
	AttrCallee    = "callee"    // Call
	AttrArgs      = "args"      // Call: raw argument list text
	AttrStmtLine  = "stmt_line" // Call: start line of the enclosing statement
	AttrCondition = "condition" // Conditional, LoopWhile
	AttrTarget    = "target"    // LoopFor (loop variable), Assignment (lhs)
	AttrIterable  = "iterable"  // LoopFor
	AttrValue     = "value"     // Assignment (rhs), Return
	AttrOperator  = "operator"  // Assignment: "=", "+=", "//=", ...
	AttrNested    = "nested"    // Loop*: "true" once the walk finds it nested
)

// SourceSpan is a 1-indexed, inclusive line range. StartLine <= EndLine.
type SourceSpan struct {
	StartLine int
	EndLine   int
}

// Contains reports whether other lies fully within the span.
func (s SourceSpan) Contains(other SourceSpan) bool {
	return other.StartLine >= s.StartLine && other.EndLine <= s.EndLine
}

// Node is one typed construct. Children are owned exclusively by their
// parent and appear in source order.
type Node struct {
	Kind       Kind
	Span       SourceSpan
	Children   []*Node
	Attributes map[string]string
}

// Attr returns the attribute value for key, or "" when absent.
func (n *Node) Attr(key string) string {
	if n.Attributes == nil {
		return ""
	}
	return n.Attributes[key]
}

func (n *Node) setAttr(key, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[key] = value
}

// IsLoop reports whether the node is a for- or while-loop.
func (n *Node) IsLoop() bool {
	return n.Kind == KindLoopFor || n.Kind == KindLoopWhile
}

// Descend calls fn for n and every node below it in pre-order. When fn
// returns false the subtree under that node is skipped.
func (n *Node) Descend(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Descend(fn)
	}
}
