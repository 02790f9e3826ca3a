package app

import (
	"errors"
	"fmt"
)

// Actions selectable on the command line.
const (
	ActionBuild     = "build"
	ActionJava      = "java"
	ActionPruneLogs = "prunelogs"
)

// DefaultConfigPath is read when no configuration file is given.
const DefaultConfigPath = "build.conf"

var (
	// ErrUsage marks invalid combinations of command line options.
	ErrUsage = errors.New("invalid usage")
	// ErrConfig marks a configuration file that is missing, unreadable or
	// lacks a required value.
	ErrConfig = errors.New("configuration error")
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Action     string
	Targets    string
	Steps      []string
	ConfigPath string

	Incremental bool
	Verbose     bool
	Flash       bool
	Release     bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Action {
	case "":
		cfg.Action = ActionBuild
	case ActionBuild, ActionJava, ActionPruneLogs:
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrUsage, cfg.Action)
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfigPath
	}
	if cfg.Action == ActionBuild && cfg.Targets == "" {
		return nil, fmt.Errorf("%w: the build action needs a target specification", ErrUsage)
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	return &cfg, nil
}
