//go:build property
// +build property

package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/viper"
)

// TestConfigurationProperties tests configuration loading and validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: Default config should always be valid
	properties.Property("default config validity", prop.ForAll(
		func() bool {
			return validateConfig(Default()) == nil
		},
	))

	// Property: Identifier array names load, anything else is rejected
	properties.Property("array name validation", prop.ForAll(
		func(name string) bool {
			v := viper.New()
			v.Set("convert.array_name", name)
			_, err := LoadFrom(v)
			return err == nil
		},
		gen.RegexMatch(`^[A-Za-z_][A-Za-z0-9_]{0,15}$`),
	))

	properties.Property("array names with separators are rejected", prop.ForAll(
		func(head, tail string) bool {
			v := viper.New()
			v.Set("convert.array_name", head+"-"+tail)
			_, err := LoadFrom(v)
			return err != nil
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	// Property: Configured inputs survive loading unchanged
	properties.Property("inputs preserved", prop.ForAll(
		func(paths []string) bool {
			if len(paths) == 0 {
				return true
			}
			v := viper.New()
			v.Set("convert.convert", paths)
			cfg, err := LoadFrom(v)
			if err != nil || len(cfg.Convert.Convert) != len(paths) {
				return false
			}
			for i := range paths {
				if cfg.Convert.Convert[i] != paths[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(5, gen.RegexMatch(`^[a-z0-9_/]+\.(js|jsm|json|xml)$`)),
	))

	properties.TestingRun(t)
}
