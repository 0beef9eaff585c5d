package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RegistryScope decides how long one identifier registry lives.
type RegistryScope string

const (
	// ScopeProgram shares one registry across every target, so ids that
	// coincide across targets alias to one name.
	ScopeProgram RegistryScope = "program"
	// ScopeTarget gives each target a fresh registry.
	ScopeTarget RegistryScope = "target"
)

// Defaults.
const (
	DefaultNamePrefix     = "b"
	DefaultDispatcherName = "whenFlagClicked"
	DefaultOutput         = "out.js"
	DefaultLogLevel       = "info"
)

// CompilerConfig holds compiler settings.
type CompilerConfig struct {
	// Output is where the CLI writes the generated source.
	Output string `yaml:"output"`

	Names NamesConfig `yaml:"names"`

	// DispatcherName is the naming hint of each target's start dispatcher.
	DispatcherName string `yaml:"dispatcher_name"`

	Logging LoggingConfig `yaml:"logging"`
}

// NamesConfig configures the identifier registry.
type NamesConfig struct {
	Prefix string        `yaml:"prefix"`
	Scope  RegistryScope `yaml:"scope"` // program, target
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// NewCompilerConfig creates a CompilerConfig with defaults and applies opts.
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{
		Output: DefaultOutput,
		Names: NamesConfig{
			Prefix: DefaultNamePrefix,
			Scope:  ScopeProgram,
		},
		DispatcherName: DefaultDispatcherName,
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithOutput sets the output path
func WithOutput(path string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Output = path
	}
}

// WithNamePrefix sets the registry prefix
func WithNamePrefix(prefix string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Names.Prefix = prefix
	}
}

// WithRegistryScope sets the registry scope
func WithRegistryScope(scope RegistryScope) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Names.Scope = scope
	}
}

// WithDispatcherName sets the dispatcher naming hint
func WithDispatcherName(name string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.DispatcherName = name
	}
}

// WithLogLevel sets the log level
func WithLogLevel(level string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.Logging.Level = level
	}
}

// Load reads a YAML config over the defaults. A missing file yields the
// defaults.
func Load(path string) (*CompilerConfig, error) {
	cfg := NewCompilerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config as YAML.
func (c *CompilerConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks that the settings are usable.
func (c *CompilerConfig) Validate() error {
	switch c.Names.Scope {
	case ScopeProgram, ScopeTarget:
	default:
		return fmt.Errorf("invalid names.scope: %q (valid: %s, %s)", c.Names.Scope, ScopeProgram, ScopeTarget)
	}

	if c.Names.Prefix == "" || c.Names.Prefix != sanitize(c.Names.Prefix) {
		return fmt.Errorf("invalid names.prefix: %q (must match [A-Za-z_][A-Za-z0-9_]*)", c.Names.Prefix)
	}

	if c.DispatcherName == "" {
		return fmt.Errorf("dispatcher_name must not be empty")
	}

	validLevel := false
	for _, level := range validLogLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Logging.Level, validLogLevels)
	}

	return nil
}

// sanitize keeps identifier characters and drops a leading digit, so a valid
// prefix is returned unchanged.
func sanitize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			out = append(out, ch)
		case ch >= '0' && ch <= '9' && len(out) > 0:
			out = append(out, ch)
		}
	}
	return string(out)
}
