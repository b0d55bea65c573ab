package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when no --config flag is given.
const DefaultPath = "restyaboard.yaml"

// CurrentVersion is the only configuration version this build understands.
const CurrentVersion = "1.0"

// DefaultViewColumn matches the editor column the preview opens in.
const DefaultViewColumn = 2

// Config is the restyaboard configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	State   StateConfig   `yaml:"state"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ViewerConfig holds the settings consulted by the tree and the card preview.
type ViewerConfig struct {
	ViewColumn        int  `yaml:"view_column"`
	StarredBoardsOnly bool `yaml:"starred_boards_only"`
	CopyLinks         bool `yaml:"copy_links"`
	OpenBrowser       bool `yaml:"open_browser"`
}

// StateConfig locates the persistent credential database.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus endpoint in the shell when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{
		Version: CurrentVersion,
		Viewer: ViewerConfig{
			ViewColumn:        DefaultViewColumn,
			StarredBoardsOnly: true,
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
	applyDefaults(c)
	return c
}

// Load reads configPath. A missing file yields the defaults; .env files are
// loaded first so ${VAR} references in the YAML can be expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	config := Default()
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Parse(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Parse decodes data over config, which should already hold defaults.
func Parse(data []byte, config *Config) error {
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Version != CurrentVersion {
		return fmt.Errorf("unsupported configuration version: %s (expected %s)", config.Version, CurrentVersion)
	}

	res := NormalizeConfig(config)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
	}
	applyDefaults(config)

	if err := ValidateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.State.Dir == "" {
		c.State.Dir = DefaultStateDir()
	}
}

// DefaultStateDir is <user config dir>/restyaboard, or .restyaboard when the
// platform has no config dir.
func DefaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".restyaboard"
	}
	return filepath.Join(dir, "restyaboard")
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Version: CurrentVersion,
		Viewer: ViewerConfig{
			ViewColumn:        DefaultViewColumn,
			StarredBoardsOnly: true,
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
