package config

import (
	"fmt"
	"time"

	"github.com/ashokvundavalli/AderantDevops-sub005/logger"
	"github.com/ashokvundavalli/AderantDevops-sub005/manifest"
	"github.com/ashokvundavalli/AderantDevops-sub005/observability"
	"github.com/ashokvundavalli/AderantDevops-sub005/plan"
	"github.com/ashokvundavalli/AderantDevops-sub005/resolver"
	"github.com/ashokvundavalli/AderantDevops-sub005/server"
	"github.com/ashokvundavalli/AderantDevops-sub005/validation"
)

// Config is the complete buildplan configuration.
type Config struct {
	Name          string              `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string              `yaml:"environment" mapstructure:"environment" validate:"oneof=development ci production"`
	Logging       logger.Config       `yaml:"logging" mapstructure:"logging"`
	Planner       PlannerConfig       `yaml:"planner" mapstructure:"planner"`
	Manifest      manifest.Config     `yaml:"manifest" mapstructure:"manifest"`
	Server        server.Config       `yaml:"server" mapstructure:"server"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// PlannerConfig tunes the planning pass.
type PlannerConfig struct {
	Mode             string `yaml:"mode" mapstructure:"mode" validate:"oneof=incremental full"`
	BootstrapModule  string `yaml:"bootstrap_module" mapstructure:"bootstrap_module" validate:"required"`
	AliasPolicy      string `yaml:"alias_policy" mapstructure:"alias_policy" validate:"oneof=strict first-match"`
	StrictIdentities bool   `yaml:"strict_identities" mapstructure:"strict_identities"`
	Configuration    string `yaml:"configuration" mapstructure:"configuration" validate:"required"`
	Platform         string `yaml:"platform" mapstructure:"platform" validate:"required"`
}

// ObservabilityConfig enables OTLP export of traces and metrics.
type ObservabilityConfig struct {
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// TracingConfig configures trace export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults fills every unset value.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "buildplan"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	c.Planner.ApplyDefaults()
	c.Manifest.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks struct tags first and then each section's own rules.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Manifest.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	return nil
}

// ApplyDefaults fills unset planner values.
func (c *PlannerConfig) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = string(plan.ModeIncremental)
	}
	if c.BootstrapModule == "" {
		c.BootstrapModule = resolver.DefaultBootstrapModule
	}
	if c.AliasPolicy == "" {
		c.AliasPolicy = string(resolver.AliasStrict)
	}
	if c.Configuration == "" {
		c.Configuration = "Debug"
	}
	if c.Platform == "" {
		c.Platform = "AnyCPU"
	}
}

// Options converts the configuration into planner options.
func (c *PlannerConfig) Options() plan.Options {
	return plan.Options{
		Mode:             plan.Mode(c.Mode),
		BootstrapModule:  c.BootstrapModule,
		AliasPolicy:      resolver.AliasPolicy(c.AliasPolicy),
		StrictIdentities: c.StrictIdentities,
		Configuration:    c.Configuration,
		Platform:         c.Platform,
	}
}

// ApplyDefaults fills unset exporter values.
func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Tracing.Endpoint == "" && c.Tracing.Enabled {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Metrics.Endpoint == "" && c.Metrics.Enabled {
		c.Metrics.Endpoint = "localhost:4318"
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = 15 * time.Second
	}
}

// TracerConfig returns the tracer settings for the service.
func (c *Config) TracerConfig(version string) observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    c.Name,
		ServiceVersion: version,
		Environment:    c.Environment,
		Endpoint:       c.Observability.Tracing.Endpoint,
		Insecure:       c.Observability.Tracing.Insecure,
		SampleRate:     c.Observability.Tracing.SampleRate,
	}
}

// MeterConfig returns the meter settings for the service.
func (c *Config) MeterConfig(version string) observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    c.Name,
		ServiceVersion: version,
		Environment:    c.Environment,
		Endpoint:       c.Observability.Metrics.Endpoint,
		Insecure:       c.Observability.Metrics.Insecure,
		Interval:       c.Observability.Metrics.Interval,
	}
}
