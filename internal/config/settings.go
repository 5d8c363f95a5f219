package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName names the per-user config directory
	AppName = "rhymer"

	// SettingsFile is the settings file inside the config directory
	SettingsFile = "settings.yaml"

	// DataDirEnv overrides the data directory
	DataDirEnv = "RHYMER_DATA_DIR"
)

// AISettings controls generated suggestions
type AISettings struct {
	// Enabled turns generated rhymes and lines on or off
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Model is the Gemini model name
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the API key
	// Default: "GEMINI_API_KEY"
	APIKeyEnv string `yaml:"api_key_env"`
}

// Settings holds the application settings
type Settings struct {
	DatamuseURL       string        `yaml:"datamuse_url"`
	WiktionaryURL     string        `yaml:"wiktionary_url"`
	LookupTimeout     time.Duration `yaml:"lookup_timeout"`
	SupplementTimeout time.Duration `yaml:"supplement_timeout"`
	LinesTimeout      time.Duration `yaml:"lines_timeout"`
	AI                AISettings    `yaml:"ai"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"log_level"`

	// DataDir holds the database. Empty means the config directory.
	DataDir string `yaml:"data_dir,omitempty"`
}

// DefaultSettings returns the default settings
func DefaultSettings() *Settings {
	return &Settings{
		DatamuseURL:       "https://api.datamuse.com",
		WiktionaryURL:     "https://en.wiktionary.org/api/rest_v1/page",
		LookupTimeout:     10 * time.Second,
		SupplementTimeout: 8 * time.Second,
		LinesTimeout:      10 * time.Second,
		AI: AISettings{
			Enabled:   true,
			Model:     "gemini-2.5-flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		LogLevel: "info",
	}
}

// Dir returns the per-user config directory
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// LoadSettings loads the settings from the config directory. Missing files
// and missing fields fall back to defaults.
func LoadSettings(configDir string) (*Settings, error) {
	settings := DefaultSettings()
	settingsPath := filepath.Join(configDir, SettingsFile)

	data, err := os.ReadFile(settingsPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	default:
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	defaults := DefaultSettings()
	if settings.DatamuseURL == "" {
		settings.DatamuseURL = defaults.DatamuseURL
	}
	if settings.WiktionaryURL == "" {
		settings.WiktionaryURL = defaults.WiktionaryURL
	}
	if settings.LookupTimeout <= 0 {
		settings.LookupTimeout = defaults.LookupTimeout
	}
	if settings.SupplementTimeout <= 0 {
		settings.SupplementTimeout = defaults.SupplementTimeout
	}
	if settings.LinesTimeout <= 0 {
		settings.LinesTimeout = defaults.LinesTimeout
	}
	if settings.AI.APIKeyEnv == "" {
		settings.AI.APIKeyEnv = defaults.AI.APIKeyEnv
	}
	if settings.LogLevel == "" {
		settings.LogLevel = defaults.LogLevel
	}

	if dir := os.Getenv(DataDirEnv); dir != "" {
		settings.DataDir = dir
	}
	if settings.DataDir == "" {
		settings.DataDir = configDir
	}

	return settings, nil
}

// SaveSettings saves the settings to the config directory
func SaveSettings(configDir string, settings *Settings) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	return os.WriteFile(filepath.Join(configDir, SettingsFile), data, 0644)
}

// APIKey returns the generative API key from the environment, if any
func (s *Settings) APIKey() string {
	return os.Getenv(s.AI.APIKeyEnv)
}
