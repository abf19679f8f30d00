package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Gamma  GammaConfig
	Paths  PathsConfig
	Poll   PollConfig
	Export ExportConfig
}

// GammaConfig holds remote generation service configuration
type GammaConfig struct {
	APIKey        string
	BaseURL       string
	ThemeID       string
	Timeout       time.Duration
	MaxInputChars int // head-truncation budget (~100k tokens at 4 chars/token)
}

// PathsConfig holds filesystem locations
type PathsConfig struct {
	InputDir       string
	OutputDir      string
	RecordsFile    string
	PriorityMarker string // extracted content containing this is processed first
}

// PollConfig holds polling driver configuration
type PollConfig struct {
	Interval          time.Duration
	MaxWait           time.Duration
	UnavailableBudget int // consecutive transient probe failures tolerated
}

// ExportConfig holds export resolver configuration
type ExportConfig struct {
	Format        string // "pdf" | "pptx"
	PreferBrowser bool
	DisableAPI    bool
	Headless      bool
	DownloadWait  time.Duration
	FileSuffix    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Gamma: GammaConfig{
			APIKey:        getEnv("GAMMA_API_KEY", ""),
			BaseURL:       getEnv("GAMMA_BASE_URL", "https://public-api.gamma.app/v1.0"),
			ThemeID:       getEnv("GAMMA_THEME_ID", ""),
			Timeout:       getEnvAsDuration("GAMMA_TIMEOUT", 45*time.Second),
			MaxInputChars: getEnvAsInt("GAMMA_MAX_INPUT_CHARS", 400000),
		},
		Paths: PathsConfig{
			InputDir:       getEnv("DECKPILOT_INPUT_DIR", "dataset"),
			OutputDir:      getEnv("DECKPILOT_OUTPUT_DIR", "output"),
			RecordsFile:    getEnv("DECKPILOT_RECORDS_FILE", "generation_records.json"),
			PriorityMarker: getEnv("DECKPILOT_PRIORITY_MARKER", ""),
		},
		Poll: PollConfig{
			Interval:          getEnvAsDuration("DECKPILOT_POLL_INTERVAL", 5*time.Second),
			MaxWait:           getEnvAsDuration("DECKPILOT_POLL_MAX_WAIT", 5*time.Minute),
			UnavailableBudget: getEnvAsInt("DECKPILOT_POLL_RETRY_BUDGET", 3),
		},
		Export: ExportConfig{
			Format:        getEnv("DECKPILOT_EXPORT_FORMAT", "pdf"),
			PreferBrowser: getEnvAsBool("USE_BROWSER_EXPORT", false),
			Headless:      getEnvAsBool("BROWSER_HEADLESS", true),
			DownloadWait:  getEnvAsDuration("DECKPILOT_DOWNLOAD_WAIT", 2*time.Minute),
			FileSuffix:    getEnv("DECKPILOT_OUTPUT_SUFFIX", "_deck"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Gamma.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GAMMA_API_KEY is required", ErrInvalidInput)
	}
	if c.Paths.InputDir == "" {
		return NewAppError("CONFIG_ERROR", "input directory is required", ErrInvalidInput)
	}
	if c.Export.Format != "pdf" && c.Export.Format != "pptx" {
		return NewAppError("CONFIG_ERROR", "export format must be pdf or pptx", ErrInvalidInput)
	}
	if c.Poll.Interval <= 0 || c.Poll.MaxWait <= 0 {
		return NewAppError("CONFIG_ERROR", "poll interval and max wait must be positive", ErrInvalidInput)
	}
	return nil
}
