package config

import (
	"fmt"
	"strings"

	"github.com/conneroisu/jsconvert/internal/emit"
	"github.com/conneroisu/jsconvert/internal/logging"
	"github.com/conneroisu/jsconvert/internal/source"
)

// EmitOptions returns the emitter options described by the configuration.
func (c ConvertConfig) EmitOptions() emit.Options {
	return emit.Options{
		ArrayName: c.ArrayName,
		Target:    emit.Target(c.Target),
		Package:   c.Package,
	}
}

// LoggerConfig returns the logger configuration described by the log
// section. The level is assumed valid.
func (c LogConfig) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Level); err == nil {
		cfg.Level = level
	}
	cfg.Format = c.Format
	return cfg
}

// validateConfig validates configuration values for correctness
func validateConfig(config *Config) error {
	if err := validateConvertConfig(&config.Convert); err != nil {
		return fmt.Errorf("convert config: %w", err)
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("watch config: debounce %s must not be negative", config.Watch.Debounce)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

func validateConvertConfig(config *ConvertConfig) error {
	for _, group := range []struct {
		name  string
		paths []string
	}{
		{"before", config.Before},
		{"convert", config.Convert},
		{"after", config.After},
	} {
		for _, path := range group.paths {
			if err := validatePath(path); err != nil {
				return fmt.Errorf("invalid %s path %q: %w", group.name, path, err)
			}
		}
	}

	if config.Output != "" {
		if err := validatePath(config.Output); err != nil {
			return fmt.Errorf("invalid output path %q: %w", config.Output, err)
		}
	}

	if err := config.EmitOptions().Validate(); err != nil {
		return err
	}

	if _, err := source.NewReader(config.Encoding); err != nil {
		return fmt.Errorf("encoding %q is not supported", config.Encoding)
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return err
	}
	switch config.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown log format %q (supported: text, json)", config.Format)
	}
}

// validatePath rejects paths that cannot name a file.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a NUL byte")
	}
	return nil
}
