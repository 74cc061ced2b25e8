// Package cmd provides the command-line interface for jsconvert.
//
// Configuration System:
//
//	Values are resolved with the following precedence:
//	1. Command-line flags (--convert, --array-name, etc.) - highest priority
//	2. Individual environment variables (JSCONVERT_CONVERT_ARRAY_NAME, etc.)
//	3. Configuration file (.jsconvert.yml, --config or JSCONVERT_CONFIG_FILE)
//	4. Built-in defaults - lowest priority
//
// Environment Variables:
//
//	JSCONVERT_CONFIG_FILE: Path to custom configuration file
//	JSCONVERT_CONVERT_ENCODING: Override the source text encoding
//	JSCONVERT_LOG_LEVEL: Override the log level
//	And the rest following the JSCONVERT_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/jsconvert/internal/config"
	"github.com/conneroisu/jsconvert/internal/errors"
	"github.com/conneroisu/jsconvert/internal/logging"
	"github.com/conneroisu/jsconvert/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// logger is replaced once the configuration is loaded.
var logger logging.Logger = logging.NewLogger(logging.DefaultConfig())

// rootCmd converts the input files into OUTPUT_FILE when called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "jsconvert [flags] OUTPUT_FILE",
	Short: "Embed JavaScript, JSON and XML sources into a generated C++ string table",
	Long: `jsconvert packs script sources into one generated translation unit: a
byte buffer plus an array of (name, content) string views, ready to be
compiled into a host application.

Files given with --before and --after are stored verbatim. Files given with
--convert are transformed by extension. Repeat a flag to give several files;
each value is taken as one path, commas included.
  *.js, *.jsm   wrapped as a module registered in require.scopes
  *.json        assigned to require.scopes["../data/<name>"]
  *.xml         converted to a JSON array of child element records

Examples:
  jsconvert --convert lib/a.js --convert lib/b.json sources.cpp
  jsconvert --before prelude.js --convert data/list.xml --after api.js sources.cpp
  jsconvert --target go --package assets --convert lib/a.js sources.go
  jsconvert plan --convert lib/a.js -o yaml`,
	Args:          validateArgs,
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	return errors.NewErrorHandler(logger).Handle(ctx, err)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .jsconvert.yml, can also use JSCONVERT_CONFIG_FILE env var)")
	flags.StringArray("before", nil, "file included verbatim before all others (repeatable)")
	flags.StringArray("convert", nil, "file converted according to its extension (repeatable)")
	flags.StringArray("after", nil, "file included verbatim after all others (repeatable)")
	flags.String("array-name", config.DefaultArrayName, "name of the generated array")
	flags.String("encoding", config.DefaultEncoding, "text encoding of the source files")
	flags.String("target", config.DefaultTarget, "artifact language (cpp, go)")
	flags.String("package", config.DefaultPackage, "package name for --target go")
	flags.StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")

	bindFlags(rootCmd, map[string]string{
		"before":     "convert.before",
		"convert":    "convert.convert",
		"after":      "convert.after",
		"array-name": "convert.array_name",
		"encoding":   "convert.encoding",
		"target":     "convert.target",
		"package":    "convert.package",
		"log-level":  "log.level",
		"log-format": "log.format",
	})

	AddFlagValidation(rootCmd, "target", func(target string) error {
		return ValidateChoice("target", target, []string{"cpp", "go"})
	})
	AddFlagValidation(rootCmd, "log-format", func(format string) error {
		return ValidateChoice("log format", format, []string{"text", "json"})
	})
	AddFlagValidation(rootCmd, "log-level", func(level string) error {
		_, err := logging.ParseLevel(level)
		return err
	})

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsageError(errors.ErrCodeInvalidArgument, err.Error())
	})
}

// initConfig initializes the configuration system.
//
// Configuration file lookup (highest to lowest):
//  1. --config flag
//  2. JSCONVERT_CONFIG_FILE environment variable
//  3. .jsconvert.yml in the current directory
//
// A missing configuration file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("JSCONVERT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.DefaultFile, ".yml"))
	}

	viper.SetEnvPrefix("JSCONVERT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug(context.Background(), "Using config file", "path", viper.ConfigFileUsed())
	}
}

// loadConfig loads the configuration and switches the package logger to
// the configured level and format.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "failed to load configuration", err)
	}
	logger = logging.NewLogger(cfg.Log.LoggerConfig())
	return cfg, nil
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.NewUsageError(errors.ErrCodeInvalidArgument,
			fmt.Sprintf("expected a single output file, got %d arguments", len(args)))
	}
	return nil
}

// buildRequest resolves the conversion request from the configuration and
// the optional output argument. When requireOutput is set a missing output
// file is a usage error.
func buildRequest(cfg *config.Config, args []string, requireOutput bool) (pipeline.Request, error) {
	output := cfg.Convert.Output
	if len(args) == 1 {
		output = args[0]
	}
	if requireOutput && output == "" {
		return pipeline.Request{}, errors.NewUsageError(errors.ErrCodeMissingArgument, "missing output file")
	}
	if cfg.Convert.Inputs() == 0 {
		return pipeline.Request{}, errors.NewUsageError(errors.ErrCodeMissingArgument,
			"no input files given (use --before, --convert or --after)")
	}

	req := pipeline.NewRequest(cfg.Convert.Before, cfg.Convert.Convert, cfg.Convert.After, output)
	req.Encoding = cfg.Convert.Encoding
	req.Emit = cfg.Convert.EmitOptions()
	return req, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := buildRequest(cfg, args, true)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	op := logging.StartOperation(logger, "convert")
	result, err := pipeline.New(logger).Run(ctx, req)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}
	op.End(ctx, "entries", result.Entries, "output", result.Output)
	return nil
}
