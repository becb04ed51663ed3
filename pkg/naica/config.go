package naica

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration settings for a suite run.
// Settings can be merged from several sources (last wins).
type Config struct {
	// FailFast makes every case stop at its first failed operation.
	// Cases themselves always all run.
	FailFast bool `yaml:"fail_fast"`

	// NoColor disables colored console output.
	NoColor bool `yaml:"no_color"`

	// DisableLog replaces the logger with one that discards all messages.
	DisableLog bool `yaml:"disable_log"`

	// DisableReporter disables the console exporter.
	DisableReporter bool `yaml:"disable_reporter"`

	// Tags is a tag expression (e.g. "@smoke and not @slow") selecting
	// which feature scenarios are loaded.
	Tags string `yaml:"tags"`

	// AttachmentDirectory is where captured attachments are written.
	AttachmentDirectory string `yaml:"attachment_directory"`

	// ReportDirectory is where report exporters write their output.
	ReportDirectory string `yaml:"report_directory"`

	// Logger sets a custom logger. If nil, slog.Default() is used.
	Logger Logger `yaml:"-"`
}

// Properties returns the configured directories as Properties.
func (c *Config) Properties() StaticProperties {
	return StaticProperties{
		Attachments: c.AttachmentDirectory,
		Reports:     c.ReportDirectory,
	}
}

// MergeConfigs combines multiple configs into one.
// Later configs override earlier ones (last wins); booleans stay true once set.
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}

		if cfg.FailFast {
			result.FailFast = true
		}
		if cfg.NoColor {
			result.NoColor = true
		}
		if cfg.DisableLog {
			result.DisableLog = true
		}
		if cfg.DisableReporter {
			result.DisableReporter = true
		}
		if cfg.Tags != "" {
			result.Tags = cfg.Tags
		}
		if cfg.AttachmentDirectory != "" {
			result.AttachmentDirectory = cfg.AttachmentDirectory
		}
		if cfg.ReportDirectory != "" {
			result.ReportDirectory = cfg.ReportDirectory
		}
		if cfg.Logger != nil {
			result.Logger = cfg.Logger
		}
	}

	return result
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// LoadConfig decodes a YAML config. Unknown fields are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
