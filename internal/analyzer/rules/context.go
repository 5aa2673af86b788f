// Package rules implements the suggestion engine: a fixed, ordered list
// of independent pattern rules matched against the construct tree and the
// complexity findings.
package rules

import (
	"codexplain/internal/models"
	"codexplain/internal/tree"
)

// Context carries everything a rule may inspect. Rules never mutate it.
type Context struct {
	Root     *tree.Node
	Findings []models.ComplexityFinding
}

// Finding returns the complexity finding for a function, or nil.
func (c *Context) Finding(function string) *models.ComplexityFinding {
	for i := range c.Findings {
		if c.Findings[i].Function == function {
			return &c.Findings[i]
		}
	}
	return nil
}

// FunctionNode locates the definition node for a function name, or nil.
func (c *Context) FunctionNode(name string) *tree.Node {
	var found *tree.Node
	c.Root.Descend(func(n *tree.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == tree.KindFunctionDef && n.Attr(tree.AttrName) == name {
			found = n
			return false
		}
		return true
	})
	return found
}
