package analyzer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codexplain/internal/config"
	"codexplain/internal/models"
)

func plainReportConfig(format string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.Format = format
	cfg.Output.Colors = false
	return cfg
}

func TestGenerate_ConsoleReport(t *testing.T) {
	result := analyze(t, `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
`)
	report := NewReportGeneratorWithConfig(plainReportConfig("console")).Generate("fib.py", result)

	assert.Contains(t, report, "Code Explanation: fib.py")
	assert.Contains(t, report, "Step-by-step:")
	assert.Contains(t, report, "L1: Define function `fib` with 1 parameter(s).")
	assert.Contains(t, report, "Complexity estimate:")
	assert.Contains(t, report, "O(2^n)")
	assert.Contains(t, report, "branch factor 2")
	assert.Contains(t, report, "[branching-recursion]")
}

func TestGenerate_ConsoleReportCleanResult(t *testing.T) {
	result := analyze(t, "x = 1\n")
	report := NewReportGeneratorWithConfig(plainReportConfig("console")).Generate("stdin", result)

	assert.Contains(t, report, "Looks clean!")
	assert.NotContains(t, report, "Suggestions:")
}

func TestGenerate_SuggestionsHiddenWhenDisabled(t *testing.T) {
	result := analyze(t, `def fact(n):
    if n <= 1:
        return 1
    return n * fact(n - 1)
`)
	require.NotEmpty(t, result.Suggestions)

	cfg := plainReportConfig("console")
	cfg.Output.ShowSuggestions = false
	report := NewReportGeneratorWithConfig(cfg).Generate("fact.py", result)

	assert.NotContains(t, report, "memoize-recursion")
}

func TestGenerate_JSONReport(t *testing.T) {
	result := analyze(t, `def noop():
    pass
`)
	report := NewReportGeneratorWithConfig(plainReportConfig("json")).Generate("noop.py", result)

	var decoded models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(report), &decoded))
	assert.Equal(t, result.Bullets, decoded.Bullets)
	assert.Equal(t, result.Complexity, decoded.Complexity)
	// JSON output carries no console decoration.
	assert.NotContains(t, report, "Code Explanation")
}

func TestGenerate_BulletIndentFollowsDepth(t *testing.T) {
	result := analyze(t, `for x in xs:
    for y in ys:
        use(x, y)
`)
	report := NewReportGeneratorWithConfig(plainReportConfig("console")).Generate("loops.py", result)

	assert.Contains(t, report, "   L1: For-loop iterates `x` over `xs`.")
	assert.Contains(t, report, "     L2: For-loop iterates `y` over `ys` (inside a loop).")
	assert.Contains(t, report, "       L3: Call `use` (inside a nested loop).")
}
