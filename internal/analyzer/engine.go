// Package analyzer is the code analysis engine: it turns a source
// snippet into explanation bullets, per-function complexity findings and
// improvement suggestions. The engine is a pure function of the input
// string; the template and rule tables are built once at construction and
// never mutated, so one Engine may serve concurrent calls without locks.
package analyzer

import (
	"codexplain/internal/analyzer/rules"
	"codexplain/internal/models"
	"codexplain/internal/tree"
)

type Engine struct {
	templates TemplateTable
	rules     *rules.Engine
}

// New creates an engine with the built-in template table and rule set.
func New() *Engine {
	return &Engine{
		templates: DefaultTemplates(),
		rules:     rules.NewEngine(),
	}
}

// NewWithTemplates creates an engine with a substitute template table.
// Used by tests to exercise the generator with a minimal table.
func NewWithTemplates(templates TemplateTable) *Engine {
	return &Engine{
		templates: templates,
		rules:     rules.NewEngine(),
	}
}

// Analyze runs the whole pipeline on one snippet: build the construct
// tree, walk it once, then feed the visit sequence to the explanation
// generator and the complexity estimator, and finally match the
// suggestion rules. The only error is *models.SyntaxError; there are no
// partial results.
func (e *Engine) Analyze(source string) (*models.AnalysisResult, error) {
	root, err := tree.Build(source)
	if err != nil {
		return nil, err
	}

	visits := tree.Walk(root)

	result := models.NewAnalysisResult()
	result.Bullets = Explain(visits, e.templates)
	result.Complexity = Estimate(visits)
	result.Suggestions = e.rules.Run(&rules.Context{
		Root:     root,
		Findings: result.Complexity,
	})
	return result, nil
}

// RuleIDs exposes the suggestion rule identifiers in evaluation order.
func (e *Engine) RuleIDs() []string {
	return e.rules.RuleIDs()
}
