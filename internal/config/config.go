package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"symgrip/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version     int        `toml:"version"`
	BaseDir     string     `toml:"base_dir"`
	ExcludeDirs []string   `toml:"exclude_dirs"` // directory names skipped while searching
	UISettings  UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	IncludeKindColumn       bool `toml:"include_kind_column"`
	IncludeContainerColumns bool `toml:"include_container_columns"`
	EditorOnNavigate        bool `toml:"editor_on_navigate"` // open $EDITOR instead of the embedded pager
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
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	symgripDir := filepath.Join(configDir, "symgrip")
	os.MkdirAll(symgripDir, 0755)

	return &configService{
		filePath: filepath.Join(symgripDir, "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		// Return default config if file doesn't exist
		cfg := DefaultConfig()

		if cs.bus != nil {
			cs.bus.Publish(eventbus.ConfigLoadedEvent{BaseDir: cfg.BaseDir})
		}

		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{BaseDir: cfg.BaseDir})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
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

	if len(cfg.ExcludeDirs) == 0 {
		cfg.ExcludeDirs = defaultExcludeDirs()
	}

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
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		Version:     1,
		BaseDir:     wd,
		ExcludeDirs: defaultExcludeDirs(),
		UISettings: UISettings{
			IncludeKindColumn:       true,
			IncludeContainerColumns: false,
			EditorOnNavigate:        false,
		},
	}
}

func defaultExcludeDirs() []string {
	return []string{"node_modules", "testdata", "dist", "build", "target"}
}
