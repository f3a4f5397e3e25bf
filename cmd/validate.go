package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/retirement-projector/internal/calculation"
	"github.com/rpgo/retirement-projector/internal/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.yaml>",
	Short: "Check a scenario file and report every problem",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	// Parse without the parser's fail-fast validation so every problem is
	// collected in one pass.
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var scenario domain.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	result := calculation.ValidateScenario(&scenario)

	for _, e := range result.Errors {
		fmt.Printf("ERROR   %s: %s\n", e.Field, e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Printf("WARNING %s\n", w)
	}

	if !result.Valid {
		return fmt.Errorf("scenario has %d error(s)", len(result.Errors))
	}
	fmt.Println("Scenario is valid.")
	return nil
}
