// Package config loads debugdeck settings.
//
// Sources, highest precedence first:
//  1. Overrides set with Loader.SetOverride (CLI flags)
//  2. DEBUGDECK_* environment variables (DEBUGDECK_PANEL_WIDTH, ...)
//  3. An explicit file (--config), else ./debugdeck.yaml
//  4. Global config: ~/.config/debugdeck/config.yaml
//  5. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "DEBUGDECK"

// ProjectConfigFile is looked up in the working directory.
const ProjectConfigFile = "debugdeck.yaml"

// Config is the root of debugdeck.yaml.
type Config struct {
	Panel     PanelConfig     `yaml:"panel" mapstructure:"panel"`
	Console   ConsoleConfig   `yaml:"console" mapstructure:"console"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Theme     ThemeConfig     `yaml:"theme" mapstructure:"theme"`
}

// PanelConfig holds the geometry given to new panels.
type PanelConfig struct {
	Width  int `yaml:"width" mapstructure:"width" validate:"gte=20,lte=500"`
	Height int `yaml:"height" mapstructure:"height" validate:"gte=5,lte=200"`

	// Anchor is the corner panels dock to until they are dragged.
	Anchor string `yaml:"anchor" mapstructure:"anchor" validate:"oneof=bottom-right bottom-left top-left top-right"`

	// DoubleClickMS is the window for a header double click, which cycles
	// the panel through the corners. 0 disables it.
	DoubleClickMS int `yaml:"double_click_ms" mapstructure:"double_click_ms" validate:"gte=0,lte=2000"`
}

// DoubleClick returns DoubleClickMS as a duration.
func (p PanelConfig) DoubleClick() time.Duration {
	return time.Duration(p.DoubleClickMS) * time.Millisecond
}

// ConsoleConfig configures the console log buffer and its ingest endpoint.
type ConsoleConfig struct {
	Capacity int `yaml:"capacity" mapstructure:"capacity" validate:"gte=10,lte=100000"`

	// IngestPort is the HTTP port accepting POST /log. 0 disables ingest.
	IngestPort int `yaml:"ingest_port" mapstructure:"ingest_port" validate:"gte=0,lte=65535"`
}

// DatabaseConfig locates the key-value store browsed by the database tool.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path" validate:"required"`

	// Root is the path the browser opens at.
	Root string `yaml:"root" mapstructure:"root" validate:"required"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name" validate:"required"`
	Insecure    bool   `yaml:"insecure" mapstructure:"insecure"`
}

// LogConfig controls the program's own logging. Logs always reach the
// console panel; File adds a copy on disk.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file,omitempty" mapstructure:"file"`
}

// ThemeConfig holds lipgloss color values (ANSI 256 numbers or hex).
type ThemeConfig struct {
	Accent    string `yaml:"accent" mapstructure:"accent" validate:"required"`
	Highlight string `yaml:"highlight" mapstructure:"highlight" validate:"required"`
	Danger    string `yaml:"danger" mapstructure:"danger" validate:"required"`
	Muted     string `yaml:"muted" mapstructure:"muted" validate:"required"`
	Text      string `yaml:"text" mapstructure:"text" validate:"required"`
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors collects every invalid field found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}

// Loader merges configuration sources.
type Loader struct {
	v          *viper.Viper
	validator  *validator.Validate
	overrides  map[string]interface{}
	configFile string
}

// NewLoader creates a loader with environment binding enabled.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:         v,
		validator: validator.New(),
		overrides: make(map[string]interface{}),
	}
}

// SetOverride sets a value that beats every other source. Keys use dot
// notation, e.g. "database.path".
func (l *Loader) SetOverride(key string, value interface{}) {
	l.overrides[key] = value
}

// SetConfigFile replaces the ./debugdeck.yaml lookup with an explicit file.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load reads every source and returns the validated result.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	if global := GlobalConfigPath(); global != "" && fileExists(global) {
		if err := l.loadConfigFile(global); err != nil {
			return nil, fmt.Errorf("load global config %s: %w", global, err)
		}
	}

	local := l.configFile
	if local == "" && fileExists(ProjectConfigFile) {
		local = ProjectConfigFile
	}
	if local != "" {
		if err := l.loadConfigFile(local); err != nil {
			return nil, fmt.Errorf("load config %s: %w", local, err)
		}
	}

	for key, value := range l.overrides {
		l.v.Set(key, value)
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := l.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func (l *Loader) Validate(cfg *Config) error {
	err := l.validator.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation error: %w", err)
	}
	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   e.Namespace(),
			Tag:     e.Tag(),
			Value:   e.Value(),
			Message: formatValidationError(e),
		})
	}
	return errs
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("panel.width", d.Panel.Width)
	l.v.SetDefault("panel.height", d.Panel.Height)
	l.v.SetDefault("panel.anchor", d.Panel.Anchor)
	l.v.SetDefault("panel.double_click_ms", d.Panel.DoubleClickMS)
	l.v.SetDefault("console.capacity", d.Console.Capacity)
	l.v.SetDefault("console.ingest_port", d.Console.IngestPort)
	l.v.SetDefault("database.path", d.Database.Path)
	l.v.SetDefault("database.root", d.Database.Root)
	l.v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	l.v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	l.v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.file", d.Log.File)
	l.v.SetDefault("theme.accent", d.Theme.Accent)
	l.v.SetDefault("theme.highlight", d.Theme.Highlight)
	l.v.SetDefault("theme.danger", d.Theme.Danger)
	l.v.SetDefault("theme.muted", d.Theme.Muted)
	l.v.SetDefault("theme.text", d.Theme.Text)
}

func (l *Loader) loadConfigFile(path string) error {
	l.v.SetConfigFile(path)
	return l.v.MergeInConfig()
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Panel: PanelConfig{
			Width:         48,
			Height:        14,
			Anchor:        "bottom-right",
			DoubleClickMS: 300,
		},
		Console: ConsoleConfig{
			Capacity:   1000,
			IngestPort: 0,
		},
		Database: DatabaseConfig{
			Path: defaultDatabasePath(),
			Root: "user",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "debugdeck",
			Insecure:    true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: ThemeConfig{
			Accent:    "86",
			Highlight: "205",
			Danger:    "196",
			Muted:     "241",
			Text:      "252",
		},
	}
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	return Write(DefaultConfig(), path)
}

// Write writes cfg as YAML, creating the parent directory.
func Write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0600)
}

// Load is shorthand for NewLoader().Load().
func Load() (*Config, error) {
	return NewLoader().Load()
}

// Exists reports whether a file exists at path.
func Exists(path string) bool {
	return fileExists(path)
}

// GlobalConfigPath returns ~/.config/debugdeck/config.yaml, or "" when the
// home directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "debugdeck", "config.yaml")
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "debugdeck.db"
	}
	return filepath.Join(home, ".local", "share", "debugdeck", "debugdeck.db")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func formatValidationError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s] (got '%v')", field, e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("'%s' must be at least %s (got '%v')", field, e.Param(), e.Value())
	case "lte":
		return fmt.Sprintf("'%s' must be at most %s (got '%v')", field, e.Param(), e.Value())
	default:
		return fmt.Sprintf("'%s' failed validation '%s'", field, e.Tag())
	}
}
