package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Daemon  DaemonConfig  `toml:"daemon"`
	History HistoryConfig `toml:"history"`
	Modes   ModesConfig   `toml:"modes"`
	UI      UISettings    `toml:"ui"`
}

// DaemonConfig describes how to start the search daemon.
type DaemonConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// HistoryConfig describes the history database location.
type HistoryConfig struct {
	DBPath string `toml:"db_path"`
}

// ModesConfig holds the input prefixes that select a mode.
type ModesConfig struct {
	// HistoryPrefix is the reserved prefix for browsing desktop-entry
	// launch history. Empty input resolves to the same mode.
	HistoryPrefix string         `toml:"history_prefix"`
	Plugins       []PluginConfig `toml:"plugins"`
	Web           []WebConfig    `toml:"web"`
}

// PluginConfig declares a daemon plugin shortcut.
type PluginConfig struct {
	Name     string `toml:"name"`
	Modifier string `toml:"modifier"`
	History  bool   `toml:"history"`
}

// WebConfig declares a web-search shortcut. The modifier is the kind
// followed by a space.
type WebConfig struct {
	Kind string `toml:"kind"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	VisibleRows int `toml:"visible_rows"`
	InputWidth  int `toml:"input_width"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	glintDir := filepath.Join(configDir, "glint")
	os.MkdirAll(glintDir, 0755)

	return &configService{
		filePath: filepath.Join(glintDir, "config.toml"),
	}
}

// Load loads the configuration from file, writing defaults on first run.
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cs.Save(cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Daemon: DaemonConfig{
			Command: "pop-launcher",
		},
		Modes: ModesConfig{
			HistoryPrefix: "!h ",
			Plugins: []PluginConfig{
				{Name: "find", Modifier: "find ", History: true},
				{Name: "run", Modifier: "run ", History: true},
				{Name: "calc", Modifier: "= ", History: false},
			},
			Web: []WebConfig{
				{Kind: "w"},
				{Kind: "g"},
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Daemon.Command == "" {
		cfg.Daemon.Command = "pop-launcher"
	}
	if cfg.History.DBPath == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = "."
		}
		cfg.History.DBPath = filepath.Join(cacheDir, "glint", "history.db")
	}
	if cfg.Modes.HistoryPrefix == "" {
		cfg.Modes.HistoryPrefix = "!h "
	}
	if cfg.UI.VisibleRows <= 0 {
		cfg.UI.VisibleRows = 10
	}
	if cfg.UI.InputWidth <= 0 {
		cfg.UI.InputWidth = 60
	}
}
