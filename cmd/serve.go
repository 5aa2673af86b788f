package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codexplain/internal/config"
	"codexplain/internal/server"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP boundary around the analysis engine",
	Long: `serve starts a small HTTP server exposing the analysis engine.

POST /analyze with the snippet as the request body (or the form field
"code") returns the analysis result as JSON. A syntax error in the
snippet yields 422 with the offending line.

Example:
  codexplain serve --addr :8000
  curl -s --data-binary @algo.py localhost:8000/analyze`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if addrFlag != "" {
		cfg.Server.Address = addrFlag
	}

	color.Cyan("🚀 Serving on %s\n", cfg.Server.Address)
	if err := server.New(cfg).ListenAndServe(); err != nil {
		color.Red("Server stopped: %v\n", err)
		os.Exit(1)
	}
}
