package cmd

import (
	"github.com/conneroisu/jsconvert/internal/config"
	"github.com/conneroisu/jsconvert/internal/errors"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Write a configuration file with the current settings",
	Long: `Write a .jsconvert.yml (or the file named by --config) holding the
resolved settings: defaults, environment overrides and any flags given on
this command line. An existing file is kept unless --force is set.

Examples:
  jsconvert init
  jsconvert init --convert lib/a.js --convert data/list.xml --array-name sources
  jsconvert init --config build/jsconvert.yml --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfgFile
	if path == "" {
		path = config.DefaultFile
	}

	if err := cfg.WriteFile(path, initForce); err != nil {
		return errors.NewOutputError(path, err)
	}

	logger.Info(cmd.Context(), "Wrote configuration file", "path", path)
	return nil
}
