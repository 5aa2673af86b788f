package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"codexplain/internal/analyzer"
	"codexplain/internal/config"
	"codexplain/internal/models"
	"codexplain/internal/watcher"
)

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
)

// defaultSnippet is analyzed when no files and no piped stdin are given.
const defaultSnippet = `def gcd(a, b):
    while b != 0:
        a, b = b, a % b
    return a
`

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codexplain [files or directories]",
	Short: "Explain Python snippets: step-by-step bullets, complexity, alternatives",
	Long: `codexplain parses a Python snippet into a construct tree and produces a
step-by-step explanation, an asymptotic complexity estimate per function,
and rule-based suggestions for alternative implementations.

Examples:
  codexplain                               # Explain the built-in demo snippet
  cat snippet.py | codexplain              # Explain code from stdin
  codexplain algo.py utils.py              # Explain specific files
  codexplain --format=json algo.py         # Output results in JSON format
  codexplain --watch algo.py               # Re-explain on every save
  codexplain --generate-config             # Generate sample config file`,
	Run: runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
		if err := cfg.Validate(); err != nil {
			color.Red("Invalid flags: %v\n", err)
			os.Exit(1)
		}
	}

	if len(args) == 0 {
		source, name := readStdinOrDefault()
		explainSource(cfg, name, source)
		return
	}

	var pyFiles []string
	for _, arg := range args {
		files, err := collectPythonFiles(arg)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		pyFiles = append(pyFiles, files...)
	}

	if len(pyFiles) == 0 {
		color.Yellow("⚠️  No Python files found to analyze\n")
		return
	}

	explainFiles(cfg, pyFiles)

	if watchFlag {
		watchFiles(cfg, args, pyFiles)
	}
}

// explainFiles analyzes every file with a bounded worker group. Results
// print in argument order regardless of which analysis finished first.
func explainFiles(cfg *config.Config, files []string) {
	engine := analyzer.New()
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)

	if cfg.Output.Verbose {
		color.Cyan("🔍 Analyzing %d Python file(s) with %d suggestion rules...\n\n",
			len(files), len(engine.RuleIDs()))
	}

	reports := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(cfg.Analysis.MaxWorkers)
	for i, file := range files {
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				reports[i] = fmt.Sprintf("Error reading %s: %v\n", file, err)
				return nil
			}
			if len(data) > cfg.Analysis.MaxSourceBytes {
				reports[i] = fmt.Sprintf("Skipping %s: larger than %d bytes\n",
					file, cfg.Analysis.MaxSourceBytes)
				return nil
			}
			reports[i] = renderReport(engine, reportGen, file, string(data))
			return nil
		})
	}
	_ = g.Wait()

	var out strings.Builder
	for _, report := range reports {
		out.WriteString(report)
		out.WriteString("\n")
	}
	writeOut(cfg, out.String())
}

func explainSource(cfg *config.Config, name, source string) {
	engine := analyzer.New()
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)
	writeOut(cfg, renderReport(engine, reportGen, name, source))
}

func renderReport(engine *analyzer.Engine, reportGen *analyzer.ReportGenerator, name, source string) string {
	result, err := engine.Analyze(source)
	if err != nil {
		var syntaxErr *models.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Sprintf("%s: syntax error on line %d: %s\n",
				name, syntaxErr.Line, syntaxErr.Message)
		}
		return fmt.Sprintf("%s: analysis failed: %v\n", name, err)
	}
	return reportGen.Generate(name, result)
}

func watchFiles(cfg *config.Config, roots []string, initial []string) {
	fw, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		color.Red("Error starting watch mode: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	err = fw.Watch(roots, func(changed []string) error {
		explainFiles(cfg, changed)
		return nil
	})
	if err != nil {
		color.Red("Error watching paths: %v\n", err)
		os.Exit(1)
	}

	color.Cyan("👀 Watching %d file(s) for changes. Press Ctrl+C to stop.\n", len(initial))
	select {}
}

// readStdinOrDefault returns piped stdin content, or the demo snippet
// when stdin is a terminal.
func readStdinOrDefault() (string, string) {
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err == nil && len(strings.TrimSpace(string(data))) > 0 {
			return string(data), "stdin"
		}
	}
	return defaultSnippet, "demo snippet"
}

func writeOut(cfg *config.Config, report string) {
	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
		return
	}
	fmt.Print(report)
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".codexplain.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize codexplain behavior\n")
	color.Cyan("🚀 Run 'codexplain --config=%s algo.py' to use it\n", configPath)
}

// collectPythonFiles recursively finds all .py files in the given path
func collectPythonFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var pyFiles []string
	err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip virtualenvs, caches, and VCS metadata
		if info.IsDir() {
			name := info.Name()
			if name == "venv" || name == ".venv" || name == "__pycache__" ||
				name == ".git" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(filePath, ".py") || strings.HasSuffix(filePath, ".pyw") {
			pyFiles = append(pyFiles, filePath)
		}

		return nil
	})

	return pyFiles, err
}
