// Package config loads the application configuration: defaults, then the TOML file, then
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/bindery/internal/binding"
	"github.com/bethropolis/bindery/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"`
	History HistoryConfig `toml:"history"`
	Binding BindingConfig `toml:"binding"`
	UI      UIConfig      `toml:"ui"`
}

// HistoryConfig controls the undo/redo timeline.
type HistoryConfig struct {
	Capacity   int    `toml:"capacity"`
	RecordNoop bool   `toml:"record_noop"` // record applications that changed nothing
	IDStyle    string `toml:"id_style"`    // "uuid" or "sequence"
}

// BindingConfig controls how variables are applied.
type BindingConfig struct {
	AutoWrap         bool   `toml:"auto_wrap"`
	DefaultOperation string `toml:"default_operation"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	MessageTimeout  time.Duration `toml:"message_timeout"`
	SystemClipboard bool          `toml:"system_clipboard"`
	ThemeFile       string        `toml:"theme_file"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		History: HistoryConfig{
			Capacity: DefaultCapacity,
			IDStyle:  IDStyleUUID,
		},
		Binding: BindingConfig{
			AutoWrap:         AutoWrap,
			DefaultOperation: DefaultOperation,
		},
		UI: UIConfig{
			MessageTimeout:  MessageTimeout,
			SystemClipboard: SystemClipboard,
		},
	}
}

// DefaultPath returns the config file location under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName), nil
}

// loadFile decodes filePath on top of cfg. A missing file is not an error.
func loadFile(cfg *Config, filePath string) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.DebugTagf("config", "Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.DebugTagf("config", "Loaded configuration from: %s", filePath)
	return nil
}

// validate resets invalid values to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.History.Capacity <= 0 {
		c.History.Capacity = defaults.History.Capacity
	}
	switch c.History.IDStyle {
	case IDStyleUUID, IDStyleSequence:
	default:
		logger.Warnf("Config: unknown id_style %q, using %q", c.History.IDStyle, defaults.History.IDStyle)
		c.History.IDStyle = defaults.History.IDStyle
	}
	if _, ok := binding.ParseOperation(c.Binding.DefaultOperation); !ok {
		logger.Warnf("Config: unknown default_operation %q, using %q", c.Binding.DefaultOperation, defaults.Binding.DefaultOperation)
		c.Binding.DefaultOperation = defaults.Binding.DefaultOperation
	}
	if c.UI.MessageTimeout <= 0 {
		c.UI.MessageTimeout = defaults.UI.MessageTimeout
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// Load merges defaults, the config file and flag overrides, then validates the result.
// An empty path uses DefaultPath; flags may be nil. When the file cannot be read the
// returned config is still usable and the error is returned alongside it.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		if p, err := DefaultPath(); err == nil {
			effectivePath = p
		}
	}

	var loadErr error
	if effectivePath != "" {
		fileCfg := NewDefaultConfig()
		if err := loadFile(fileCfg, effectivePath); err != nil {
			loadErr = err
		} else {
			cfg = fileCfg
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, loadErr
}
