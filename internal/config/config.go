package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/memokit/internal/errors"
	"github.com/vango-dev/memokit/pkg/hooks"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "memokit.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "memokit.yaml"

	// DefaultAddr is the default listen address of memokit serve.
	DefaultAddr = "localhost:8080"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "5s"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log output format.
	DefaultLogFormat = "text"

	// DefaultToastDelay matches toast.DefaultDelay.
	DefaultToastDelay = "3s"

	// DefaultToastPath is where the toast API is mounted.
	DefaultToastPath = "/toast"

	// DefaultMetricsNamespace is the Prometheus namespace.
	DefaultMetricsNamespace = "memokit"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName is the OpenTelemetry tracer name.
	DefaultTracerName = "memokit"
)

// Config represents the complete memokit configuration.
type Config struct {
	// Name is the service name used in logs.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Dev contains development checks.
	Dev DevConfig `json:"dev" yaml:"dev"`

	// Server contains HTTP server settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Log contains logging settings.
	Log LogConfig `json:"log" yaml:"log"`

	// Toast contains toast provider settings.
	Toast ToastConfig `json:"toast" yaml:"toast"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development-time checks.
type DevConfig struct {
	// Enabled turns on hooks.DevMode.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// HookOrder is the hook order check mode: off, warn or panic.
	HookOrder string `json:"hookOrder,omitempty" yaml:"hookOrder,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "5s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ToastConfig contains toast provider settings.
type ToastConfig struct {
	// Delay is how long a toast stays visible (e.g., "3s").
	Delay string `json:"delay,omitempty" yaml:"delay,omitempty"`

	// Path is the URL prefix of the toast API.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled serves metrics and records render telemetry.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Path is the URL path of the metrics endpoint.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled traces render passes with the global tracer provider.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// TracerName is the tracer name.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Dev: DevConfig{
			HookOrder: hooks.HookOrderOff.String(),
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Toast: ToastConfig{
			Delay: DefaultToastDelay,
			Path:  DefaultToastPath,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Find returns the configuration file in dir, preferring memokit.json.
func Find(dir string) (string, bool) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "memokit.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Load reads configuration from the specified directory.
// It looks for memokit.json, then memokit.yaml.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return nil, errors.New("E120").
			WithDetail("No memokit.json or memokit.yaml found in " + dir).
			WithSuggestion("Run 'memokit init' to write a default configuration")
	}
	return LoadFile(path)
}

// LoadFile reads and validates configuration from the specified file path.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON or YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveTo writes the configuration to the specified path in the format
// implied by its extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Dev.HookOrder == "" {
		c.Dev.HookOrder = hooks.HookOrderOff.String()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Toast.Delay == "" {
		c.Toast.Delay = DefaultToastDelay
	}
	if c.Toast.Path == "" {
		c.Toast.Path = DefaultToastPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

func invalid(field, format string, args ...any) *errors.Error {
	return errors.New("E121").
		WithDetailf("%s: "+format, append([]any{field}, args...)...)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := hooks.ParseHookOrderMode(c.Dev.HookOrder); !ok {
		return invalid("dev.hookOrder", "%q is not one of off, warn, panic", c.Dev.HookOrder).
			WithSuggestion("Use \"warn\" during development")
	}
	if c.Server.Addr == "" {
		return invalid("server.addr", "must not be empty")
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil || d < 0 {
		return invalid("server.shutdownTimeout", "%q is not a duration", c.Server.ShutdownTimeout)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return invalid("log.level", "%q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format", "%q is not one of text, json", c.Log.Format)
	}
	if d, err := time.ParseDuration(c.Toast.Delay); err != nil || d <= 0 {
		return invalid("toast.delay", "%q is not a positive duration", c.Toast.Delay)
	}
	if !strings.HasPrefix(c.Toast.Path, "/") {
		return invalid("toast.path", "%q must start with /", c.Toast.Path)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", "%q must start with /", c.Metrics.Path)
	}
	if c.Metrics.Enabled && c.Metrics.Path == c.Toast.Path {
		return invalid("metrics.path", "%q is already used by the toast API", c.Metrics.Path)
	}
	return nil
}

// HookOrderMode returns the parsed dev.hookOrder.
func (c *Config) HookOrderMode() hooks.HookOrderMode {
	mode, _ := hooks.ParseHookOrderMode(c.Dev.HookOrder)
	return mode
}

// LogLevel returns the parsed log.level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ToastDelay returns the parsed toast.delay.
func (c *Config) ToastDelay() time.Duration {
	d, _ := time.ParseDuration(c.Toast.Delay)
	return d
}

// ShutdownTimeout returns the parsed server.shutdownTimeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}
