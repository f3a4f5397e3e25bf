package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-projector/internal/calculation"
	"github.com/rpgo/retirement-projector/internal/config"
	"github.com/rpgo/retirement-projector/internal/output"
)

var projectCmd = &cobra.Command{
	Use:   "project <scenario.yaml>",
	Short: "Run a full monthly projection",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, args []string) error {
	parser := config.NewInputParser()
	scenario, err := parser.LoadFromFile(args[0])
	if err != nil {
		return err
	}

	engine := calculation.NewProjectionEngine()
	if flagVerbose {
		engine.SetLogger(stderrLogger{})
	}

	result, err := engine.RunProjection(cmd.Context(), scenario)
	if err != nil {
		return err
	}

	formatter := output.GetFormatterByName(flagFormat)
	if formatter == nil {
		return fmt.Errorf("unknown format %q, available: %v", flagFormat, output.AvailableFormatterNames())
	}
	data, err := formatter.Format(result)
	if err != nil {
		return err
	}
	return writeOutput(data)
}
