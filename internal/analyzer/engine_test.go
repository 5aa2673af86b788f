package analyzer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codexplain/internal/models"
)

func analyze(t *testing.T, src string) *models.AnalysisResult {
	t.Helper()
	result, err := New().Analyze(src)
	require.NoError(t, err)
	return result
}

func resultFinding(t *testing.T, result *models.AnalysisResult, name string) models.ComplexityFinding {
	t.Helper()
	for _, f := range result.Complexity {
		if f.Function == name {
			return f
		}
	}
	t.Fatalf("no finding for %q in %+v", name, result.Complexity)
	return models.ComplexityFinding{}
}

func TestAnalyze_EmptyFunction(t *testing.T) {
	result := analyze(t, `def noop():
    pass
`)
	require.Len(t, result.Bullets, 1)
	assert.Equal(t, "Define function `noop` with 0 parameter(s).", result.Bullets[0].Text)

	f := resultFinding(t, result, "noop")
	assert.Equal(t, models.ClassConstant, f.Class)
	assert.Equal(t, models.RecursionNone, f.Recursion)
	assert.Equal(t, 0, f.LoopDepth)

	assert.Empty(t, result.Suggestions)
}

func TestAnalyze_SingleLoop(t *testing.T) {
	result := analyze(t, `def total_of(items):
    total = 0
    for x in items:
        total += x
    return total
`)
	f := resultFinding(t, result, "total_of")
	assert.Equal(t, models.ClassLinear, f.Class)
	assert.Equal(t, 1, f.LoopDepth)
	assert.Empty(t, result.Suggestions)
}

func TestAnalyze_NestedLoopsWithMembership(t *testing.T) {
	result := analyze(t, `def has_duplicate(items):
    for i, x in enumerate(items):
        if x in items[:i]:
            return True
    return False
`)
	f := resultFinding(t, result, "has_duplicate")
	assert.Equal(t, models.ClassLinear, f.Class)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "nested-membership", result.Suggestions[0].Rule)
}

func TestAnalyze_NestedLoopsNumeric(t *testing.T) {
	result := analyze(t, `def cross_sum(xs, ys):
    total = 0
    for x in xs:
        for y in ys:
            total += x * y
    return total
`)
	f := resultFinding(t, result, "cross_sum")
	assert.Equal(t, models.ClassQuadratic, f.Class)
	assert.Equal(t, 2, f.LoopDepth)
	assert.Empty(t, result.Suggestions)
}

func TestAnalyze_LinearRecursionSuggestsMemoization(t *testing.T) {
	result := analyze(t, `def fact(n):
    if n <= 1:
        return 1
    return n * fact(n - 1)
`)
	f := resultFinding(t, result, "fact")
	assert.Equal(t, models.RecursionLinear, f.Recursion)
	assert.Equal(t, models.ClassLinear, f.Class)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "memoize-recursion", result.Suggestions[0].Rule)
}

func TestAnalyze_BranchingRecursionSuggestsDP(t *testing.T) {
	result := analyze(t, `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
`)
	f := resultFinding(t, result, "fib")
	assert.Equal(t, models.RecursionBranching, f.Recursion)
	assert.Equal(t, 2, f.BranchFactor)
	assert.Equal(t, models.ClassExponential, f.Class)

	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "branching-recursion", result.Suggestions[0].Rule)
}

func TestAnalyze_MalformedSource(t *testing.T) {
	result, err := New().Analyze(`def broken(:
    return 1
`)
	assert.Nil(t, result)

	var synErr *models.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 1, synErr.Line)
}

func TestAnalyze_EmptySourceYieldsModuleFinding(t *testing.T) {
	result := analyze(t, "")
	assert.Empty(t, result.Bullets)
	require.Len(t, result.Complexity, 1)
	assert.Equal(t, ModuleScope, result.Complexity[0].Function)
	assert.Equal(t, models.ClassConstant, result.Complexity[0].Class)
}

func TestAnalyze_ModuleFindingIsLast(t *testing.T) {
	result := analyze(t, `def a():
    pass

def b():
    pass

a()
`)
	names := make([]string, 0, len(result.Complexity))
	for _, f := range result.Complexity {
		names = append(names, f.Function)
	}
	assert.Equal(t, []string{"a", "b", ModuleScope}, names)
}

func TestAnalyze_Deterministic(t *testing.T) {
	src := `def has_duplicate(items):
    for i, x in enumerate(items):
        if x in items[:i]:
            return True
    return False

def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
`
	first := analyze(t, src)
	second := analyze(t, src)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON, "repeated analyses must be byte-identical")
}

func TestAnalyze_ResultSlicesNeverNil(t *testing.T) {
	result := analyze(t, "x = 1\n")
	assert.NotNil(t, result.Bullets)
	assert.NotNil(t, result.Complexity)
	assert.NotNil(t, result.Suggestions)
}

func TestAnalyze_SyntaxErrorUnwrap(t *testing.T) {
	_, err := New().Analyze("def f(\n")
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*models.SyntaxError)))
}

func TestEngine_RuleIDs(t *testing.T) {
	assert.Equal(t,
		[]string{"nested-membership", "memoize-recursion", "loop-concat", "branching-recursion"},
		New().RuleIDs())
}
