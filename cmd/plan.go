package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/conneroisu/jsconvert/internal/pipeline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planCmd = &cobra.Command{
	Use:   "plan [OUTPUT_FILE]",
	Short: "Show how each input file will be converted",
	Long: `Print the conversion plan: every input file in processing order with its
phase, conversion kind and the entry name it will be stored under. The input
files are not read.

Examples:
  jsconvert plan --convert lib/a.js --convert data/list.xml
  jsconvert plan -o json
  jsconvert plan -o yaml --before prelude.js`,
	Args: validateArgs,
	RunE: runPlan,
}

var planFormat string

func init() {
	rootCmd.AddCommand(planCmd)
	addOutputFlag(planCmd, &planFormat)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := buildRequest(cfg, args, false)
	if err != nil {
		return err
	}

	return writePlan(cmd.OutOrStdout(), pipeline.Plan(req), planFormat)
}

func writePlan(w io.Writer, jobs []pipeline.Job, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(jobs)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(jobs); err != nil {
			return err
		}
		return encoder.Close()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PHASE\tKIND\tNAME\tPATH")
		for _, job := range jobs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", job.Phase, job.Kind, job.Name, job.Path)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
