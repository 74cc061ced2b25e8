// Package config provides configuration management for jsconvert using Viper
// for loading from files, environment variables and command-line flags.
//
// Values come from a YAML file (.jsconvert.yml by default), JSCONVERT_
// prefixed environment variables and flags bound by the cmd package. Load
// applies defaults for anything left unset and validates the result.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the name of the configuration file searched in the
// working directory.
const DefaultFile = ".jsconvert.yml"

const (
	DefaultArrayName = "jsSources"
	DefaultEncoding  = "utf-8"
	DefaultTarget    = "cpp"
	DefaultPackage   = "jssources"
	DefaultDebounce  = 300 * time.Millisecond
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

type Config struct {
	Convert ConvertConfig `mapstructure:"convert" yaml:"convert"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type ConvertConfig struct {
	Before    []string `mapstructure:"before" yaml:"before,omitempty"`
	Convert   []string `mapstructure:"convert" yaml:"convert,omitempty"`
	After     []string `mapstructure:"after" yaml:"after,omitempty"`
	Output    string   `mapstructure:"output" yaml:"output,omitempty"`
	ArrayName string   `mapstructure:"array_name" yaml:"array_name"`
	Encoding  string   `mapstructure:"encoding" yaml:"encoding"`
	Target    string   `mapstructure:"target" yaml:"target"`
	Package   string   `mapstructure:"package" yaml:"package"`
}

// Inputs returns the number of configured input files.
func (c ConvertConfig) Inputs() int {
	return len(c.Before) + len(c.Convert) + len(c.After)
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns a configuration with every default applied and no inputs.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load builds the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds the configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Slices bound from flags or env arrive as raw strings when set outside
	// a config file.
	for key, dst := range map[string]*[]string{
		"convert.before":  &config.Convert.Before,
		"convert.convert": &config.Convert.Convert,
		"convert.after":   &config.Convert.After,
	} {
		if v.IsSet(key) && len(*dst) == 0 {
			*dst = v.GetStringSlice(key)
		}
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Convert.ArrayName == "" {
		config.Convert.ArrayName = DefaultArrayName
	}
	if config.Convert.Encoding == "" {
		config.Convert.Encoding = DefaultEncoding
	}
	if config.Convert.Target == "" {
		config.Convert.Target = DefaultTarget
	}
	if config.Convert.Package == "" {
		config.Convert.Package = DefaultPackage
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = DefaultDebounce
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes the configuration to path as YAML. An existing file is
// only replaced when overwrite is set.
func (c *Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file %s already exists", path)
		}
	}

	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	header := []byte("# jsconvert configuration file\n\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
