package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, 4, cfg.Analysis.MaxWorkers)
	assert.Equal(t, 256*1024, cfg.Analysis.MaxSourceBytes)
	assert.Equal(t, "console", cfg.Output.Format)
	assert.True(t, cfg.Output.ShowSuggestions)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Contains(t, cfg.Files.Include, "**/*.py")
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingPathFallsBackToDefault(t *testing.T) {
	// Run from an empty directory so no stray config file is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codexplain.yml")
	content := `version: "2.0"
output:
  format: json
  colors: false
server:
  address: ":9001"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0", cfg.Version)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Colors)
	assert.Equal(t, ":9001", cfg.Server.Address)
	// Untouched sections keep their defaults.
	assert.Equal(t, 4, cfg.Analysis.MaxWorkers)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codexplain.yml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
		{"zero workers", func(c *Config) { c.Analysis.MaxWorkers = 0 }, "max_workers"},
		{"zero source cap", func(c *Config) { c.Analysis.MaxSourceBytes = 0 }, "max_source_bytes"},
		{"empty address", func(c *Config) { c.Server.Address = "" }, "server address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "codexplain.yml")

	cfg := DefaultConfig()
	cfg.ProjectName = "demo"
	cfg.Output.Format = "json"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.ProjectName)
	assert.Equal(t, "json", loaded.Output.Format)
}

func TestGenerateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codexplain.yml")
	require.NoError(t, GenerateConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}
