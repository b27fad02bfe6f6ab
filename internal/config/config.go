package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thenoetrevino/kanban/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultColumns is the column sequence used when none is configured
var DefaultColumns = []string{"ToDo", "Doing", "Done"}

// Config represents the application configuration
type Config struct {
	Columns        []string    `yaml:"columns"`
	BoardFile      string      `yaml:"board_file"`
	ArchiveFile    string      `yaml:"archive_file"`
	ArchiveOnClear *bool       `yaml:"archive_on_clear,omitempty"`
	LogFile        string      `yaml:"log_file,omitempty"`
	ColorScheme    ColorScheme `yaml:"theme"`
}

// Default returns a config with every field set to its default value
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads config from KANBAN_CONFIG or the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		config := Default()
		applyEnv(config)
		return config, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from the given path
// Returns default config if file doesn't exist
func LoadFrom(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	applyEnv(&config)

	// Fill in any missing values with defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return &config, nil
}

// Save saves the config to the given path, or the user's config path when empty
func (c *Config) Save(configPath string) error {
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return err
		}
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Validate checks that the column sequence is usable
func (c *Config) Validate() error {
	if len(c.Columns) == 0 {
		return ErrNoColumns
	}
	seen := make(map[string]bool, len(c.Columns))
	for i, name := range c.Columns {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: column %d is empty", ErrInvalidColumn, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q appears more than once", ErrInvalidColumn, name)
		}
		seen[name] = true
	}
	return nil
}

// BoardColumns returns the configured columns in workflow order
func (c *Config) BoardColumns() []models.Column {
	return models.NewColumns(c.Columns)
}

// ArchiveEnabled reports whether cleared tasks are written to the archive
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveOnClear == nil || *c.ArchiveOnClear
}

// Path returns the config file location that Load reads
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if path := os.Getenv("KANBAN_CONFIG"); path != "" {
		return expandHome(path), nil
	}

	// Try XDG_CONFIG_HOME next
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "kanban", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "kanban", "config.yaml"), nil
}

// applyEnv applies environment overrides
func applyEnv(c *Config) {
	if board := os.Getenv("KANBAN_BOARD_FILE"); board != "" {
		c.BoardFile = board
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if len(c.Columns) == 0 {
		c.Columns = append([]string(nil), DefaultColumns...)
	}
	if c.BoardFile == "" {
		c.BoardFile = filepath.Join(dataDir(), "board.jsonl")
	}
	if c.ArchiveFile == "" {
		c.ArchiveFile = filepath.Join(dataDir(), "archive.db")
	}
	if c.ArchiveOnClear == nil {
		enabled := true
		c.ArchiveOnClear = &enabled
	}
	c.BoardFile = expandHome(c.BoardFile)
	c.ArchiveFile = expandHome(c.ArchiveFile)
	c.LogFile = expandHome(c.LogFile)
	c.ColorScheme.ApplyDefaults()
}

// dataDir returns ~/.kanban, or a relative .kanban if home is unknown
func dataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".kanban"
	}
	return filepath.Join(homeDir, ".kanban")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
