package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/pkg/constants"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_FORMAT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Verbose)
	assert.Equal(t, "auto", cfg.LogFormat)
	assert.Equal(t, constants.DefaultOutputDir, viper.GetString("output_dir"))
	assert.Equal(t, constants.DefaultFormat, viper.GetString("format"))
	assert.Equal(t, constants.MaxConcurrentCatalogs, viper.GetInt("concurrency"))
}

func TestLoadConfig_Env(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPECMAP_VERBOSE", "true")
	t.Setenv("SPECMAP_OUTPUT_DIR", "out")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, "out", viper.GetString("output_dir"))
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	writeFile(t, filepath.Join(dir, ".specmap.yaml"), "format: yaml\npublishers: [iso]\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Contains(t, cfg.ConfigFile, ".specmap.yaml")
	assert.Equal(t, "yaml", viper.GetString("format"))
	assert.Equal(t, []string{"iso"}, viper.GetStringSlice("publishers"))
}

func TestLoadConfig_DotEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPECMAP_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("SPECMAP_LOG_LEVEL"))

	writeFile(t, filepath.Join(dir, ".env"), "SPECMAP_LOG_LEVEL=debug\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_UpdateFromFlags(t *testing.T) {
	cfg := &Config{Output: "json", LogLevel: "warn"}

	cfg.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "json", cfg.Output, "empty flag keeps configured output")
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg.UpdateFromFlags(false, true, false, "yaml", "error")
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("SPECMAP_APP_TEST", "set")
	assert.Equal(t, "set", getEnvOrDefault("SPECMAP_APP_TEST", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("SPECMAP_APP_TEST_UNSET", "fallback"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
