package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"codexplain/internal/config"
	"codexplain/internal/models"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from one analysis result. The name
// labels the source in the header ("stdin", a file path, or "snippet").
func (r *ReportGenerator) Generate(name string, result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	default:
		return r.generateConsole(name, result)
	}
}

// generateJSON creates a JSON report
func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data)
}

// generateConsole creates a colorized console report
func (r *ReportGenerator) generateConsole(name string, result *models.AnalysisResult) string {
	var report strings.Builder

	useColors := true
	showSuggestions := true
	if r.config != nil {
		useColors = r.config.Output.Colors
		showSuggestions = r.config.Output.ShowSuggestions
	}

	if useColors {
		report.WriteString(color.CyanString("🔍 Code Explanation: %s\n", name))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString(fmt.Sprintf("Code Explanation: %s\n", name))
		report.WriteString("=======================================\n\n")
	}

	r.writeBullets(&report, result, useColors)
	r.writeComplexity(&report, result, useColors)

	if showSuggestions {
		r.writeSuggestions(&report, result, useColors)
	}

	return report.String()
}

func (r *ReportGenerator) writeBullets(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📝 Step-by-step:\n"))
	} else {
		report.WriteString("Step-by-step:\n")
	}

	if len(result.Bullets) == 0 {
		report.WriteString("   No executable statements detected.\n\n")
		return
	}
	for _, b := range result.Bullets {
		indent := strings.Repeat("  ", b.Depth)
		if useColors {
			report.WriteString(fmt.Sprintf("   %s%s %s\n",
				indent, color.CyanString("L%d:", b.StartLine), b.Text))
		} else {
			report.WriteString(fmt.Sprintf("   %sL%d: %s\n", indent, b.StartLine, b.Text))
		}
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeComplexity(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Complexity estimate:\n"))
	} else {
		report.WriteString("Complexity estimate:\n")
	}

	for _, f := range result.Complexity {
		class := string(f.Class)
		if useColors {
			class = r.classColor(f.Class)(class)
		}
		line := fmt.Sprintf("   %-16s %s", f.Function, class)
		if f.Recursion != models.RecursionNone {
			line += fmt.Sprintf("  (recursion: %s", f.Recursion)
			if f.BranchFactor > 0 {
				line += fmt.Sprintf(", branch factor %d", f.BranchFactor)
			}
			line += ")"
		} else if f.LoopDepth > 0 {
			line += fmt.Sprintf("  (loop depth %d)", f.LoopDepth)
		}
		report.WriteString(line + "\n")
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeSuggestions(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if len(result.Suggestions) == 0 {
		if useColors {
			report.WriteString(color.GreenString("🎉 No structural optimization detected. Looks clean!\n"))
		} else {
			report.WriteString("No structural optimization detected. Looks clean!\n")
		}
		return
	}

	if useColors {
		report.WriteString(color.WhiteString("💡 Suggestions:\n"))
	} else {
		report.WriteString("Suggestions:\n")
	}
	report.WriteString(strings.Repeat("─", 50) + "\n")

	for i, s := range result.Suggestions {
		if useColors {
			report.WriteString(fmt.Sprintf("%s [%s] lines %d-%d\n",
				color.YellowString("#%d", i+1), s.Rule, s.StartLine, s.EndLine))
			report.WriteString(color.GreenString("   💡 %s\n", s.Text))
			report.WriteString(fmt.Sprintf("   %s\n", s.Rationale))
		} else {
			report.WriteString(fmt.Sprintf("#%d [%s] lines %d-%d\n", i+1, s.Rule, s.StartLine, s.EndLine))
			report.WriteString(fmt.Sprintf("   %s\n", s.Text))
			report.WriteString(fmt.Sprintf("   %s\n", s.Rationale))
		}
		report.WriteString("\n")
	}
}

func (r *ReportGenerator) classColor(class models.ComplexityClass) func(format string, a ...interface{}) string {
	switch {
	case class.Order() <= models.ClassLinear.Order():
		return color.GreenString
	case class.Order() <= models.ClassLinearithmic.Order():
		return color.YellowString
	default:
		return color.RedString
	}
}
