// Package config loads buildplan configuration.
//
// Viper reads a YAML file (buildplan.yml, config/buildplan.yml or an
// explicit path), a .env file is loaded into the environment through
// godotenv, and variables prefixed with BUILDPLAN_ override file values:
//
//	BUILDPLAN_PLANNER_MODE=full
//	BUILDPLAN_MANIFEST_ROOT=/src/workspace
//
// # Usage
//
//	var cfg config.Config
//	if err := config.Load("buildplan", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
