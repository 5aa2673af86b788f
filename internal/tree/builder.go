package tree

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"codexplain/internal/models"
)

// kindByType maps tree-sitter python grammar node types onto the
// normalized construct vocabulary. Grammar types not listed here are
// structural wrappers (blocks, expression statements, operators); the
// builder recurses through them transparently so that, for example, a
// call buried in a binary expression still becomes a child of the
// enclosing return statement.
var kindByType = map[string]Kind{
	"function_definition":  KindFunctionDef,
	"class_definition":     KindClassDef,
	"for_statement":        KindLoopFor,
	"while_statement":      KindLoopWhile,
	"if_statement":         KindConditional,
	"elif_clause":          KindConditional,
	"try_statement":        KindTryExcept,
	"call":                 KindCall,
	"assignment":           KindAssignment,
	"augmented_assignment": KindAssignment,
	"return_statement":     KindReturn,
}

// Build parses source text into a normalized construct tree. The only
// failure mode is *models.SyntaxError; it is fatal to the whole analysis.
// Each call creates its own parser instance, so Build is safe to invoke
// from concurrent goroutines.
func Build(source string) (*Node, error) {
	content := []byte(source)

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	cst, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	defer cst.Close()

	root := cst.RootNode()
	if root.HasError() {
		line, msg := firstSyntaxError(root)
		return nil, &models.SyntaxError{Line: line, Message: msg}
	}

	b := &builder{src: content}
	module := &Node{Kind: KindModule, Span: spanOf(root)}
	b.buildChildren(root, module, 0)
	return module, nil
}

type builder struct {
	src []byte
}

// buildChildren walks the CST below cst and attaches normalized nodes to
// parent. stmtLine is the start line of the nearest enclosing statement,
// propagated down so call nodes can be grouped per statement later.
func (b *builder) buildChildren(cst *sitter.Node, parent *Node, stmtLine int) {
	for i := 0; i < int(cst.NamedChildCount()); i++ {
		child := cst.NamedChild(i)
		line := stmtLine
		if isStatementType(child.Type()) {
			line = int(child.StartPoint().Row) + 1
		}

		kind, ok := kindByType[child.Type()]
		if !ok {
			// Unsupported or structural construct: keep descending so
			// nothing nested underneath is lost.
			b.buildChildren(child, parent, line)
			continue
		}

		node := &Node{Kind: kind, Span: spanOf(child)}
		b.fillAttributes(child, node, line)
		parent.Children = append(parent.Children, node)
		b.buildChildren(child, node, line)
	}
}

func (b *builder) fillAttributes(cst *sitter.Node, node *Node, stmtLine int) {
	switch cst.Type() {
	case "function_definition":
		node.setAttr(AttrName, b.fieldText(cst, "name"))
		node.setAttr(AttrParams, trimParens(b.fieldText(cst, "parameters")))
	case "class_definition":
		node.setAttr(AttrName, b.fieldText(cst, "name"))
	case "for_statement":
		node.setAttr(AttrTarget, b.fieldText(cst, "left"))
		node.setAttr(AttrIterable, b.fieldText(cst, "right"))
	case "while_statement":
		node.setAttr(AttrCondition, b.fieldText(cst, "condition"))
	case "if_statement", "elif_clause":
		node.setAttr(AttrCondition, b.fieldText(cst, "condition"))
	case "call":
		node.setAttr(AttrCallee, b.fieldText(cst, "function"))
		node.setAttr(AttrArgs, trimParens(b.fieldText(cst, "arguments")))
		node.setAttr(AttrStmtLine, strconv.Itoa(stmtLine))
	case "assignment":
		node.setAttr(AttrTarget, b.fieldText(cst, "left"))
		node.setAttr(AttrValue, b.fieldText(cst, "right"))
		node.setAttr(AttrOperator, "=")
	case "augmented_assignment":
		node.setAttr(AttrTarget, b.fieldText(cst, "left"))
		node.setAttr(AttrValue, b.fieldText(cst, "right"))
		node.setAttr(AttrOperator, b.fieldText(cst, "operator"))
	case "return_statement":
		if cst.NamedChildCount() > 0 {
			node.setAttr(AttrValue, cst.NamedChild(0).Content(b.src))
		}
	}
}

func (b *builder) fieldText(cst *sitter.Node, field string) string {
	c := cst.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return c.Content(b.src)
}

func spanOf(cst *sitter.Node) SourceSpan {
	return SourceSpan{
		StartLine: int(cst.StartPoint().Row) + 1,
		EndLine:   int(cst.EndPoint().Row) + 1,
	}
}

func isStatementType(t string) bool {
	switch t {
	case "assignment", "augmented_assignment", "expression_statement":
		return true
	}
	return strings.HasSuffix(t, "_statement") || strings.HasSuffix(t, "_definition")
}

func trimParens(s string) string {
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return strings.TrimSpace(s)
}

// firstSyntaxError locates the first ERROR or missing node and returns
// its 1-indexed line with a short description.
func firstSyntaxError(root *sitter.Node) (int, string) {
	line := int(root.StartPoint().Row) + 1
	msg := "invalid syntax"
	found := false

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if found {
			return
		}
		if n.Type() == "ERROR" {
			line = int(n.StartPoint().Row) + 1
			msg = "invalid syntax"
			found = true
			return
		}
		if n.IsMissing() {
			line = int(n.StartPoint().Row) + 1
			msg = fmt.Sprintf("missing %s", n.Type())
			found = true
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return line, msg
}
