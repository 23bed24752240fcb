package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/specmap/pkg/constants"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string // display format: table, json, yaml, wide

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (bound by each command)
// 2. Environment variables (SPECMAP_ prefix)
// 3. .env files
// 4. Config file (~/.specmap.yaml or ./.specmap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	setDefaults()

	// Set up Viper for environment variables
	viper.SetEnvPrefix("specmap")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try to read config file if it exists
	configFile := os.Getenv("SPECMAP_CONFIG")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".specmap")
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	return &Config{
		Verbose:    viper.GetBool("verbose"),
		Quiet:      viper.GetBool("quiet"),
		NoColor:    viper.GetBool("no_color"),
		Output:     viper.GetString("output"),
		ConfigFile: viper.ConfigFileUsed(),
		LogLevel:   viper.GetString("log_level"),
		LogFormat:  getEnvOrDefault("LOG_FORMAT", viper.GetString("log_format")),
		LogOutput:  getEnvOrDefault("LOG_OUTPUT", viper.GetString("log_output")),
	}, nil
}

// ReadConfigFile reads an explicit config file given with --config.
func ReadConfigFile(path string) error {
	viper.SetConfigFile(path)
	return viper.ReadInConfig()
}

// setDefaults registers the documented defaults.
func setDefaults() {
	viper.SetDefault("output_dir", constants.DefaultOutputDir)
	viper.SetDefault("format", constants.DefaultFormat)
	viper.SetDefault("concurrency", constants.MaxConcurrentCatalogs)
	viper.SetDefault("timeout", constants.SyncTimeout)
	viper.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	viper.SetDefault("cache_ttl", constants.CacheTTL)
	viper.SetDefault("max_retries", constants.MaxRetries)
	viper.SetDefault("log_format", "auto")
	viper.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
