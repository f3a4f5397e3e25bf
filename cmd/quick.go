package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-projector/internal/calculation"
	"github.com/rpgo/retirement-projector/internal/config"
	"github.com/rpgo/retirement-projector/pkg/money"
)

var quickCmd = &cobra.Command{
	Use:   "quick <scenario.yaml>",
	Short: "Run the projection and print the condensed dashboard view",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuick,
}

func init() {
	rootCmd.AddCommand(quickCmd)
}

func runQuick(cmd *cobra.Command, args []string) error {
	parser := config.NewInputParser()
	scenario, err := parser.LoadFromFile(args[0])
	if err != nil {
		return err
	}

	engine := calculation.NewProjectionEngine()
	if flagVerbose {
		engine.SetLogger(stderrLogger{})
	}
	quick, err := engine.RunQuickProjection(cmd.Context(), scenario)
	if err != nil {
		return err
	}

	fmt.Printf("Months projected:  %d\n", quick.TotalMonths)
	fmt.Printf("Gross income:      %s\n", money.FormatUSD(quick.TotalGrossIncome))
	fmt.Printf("Taxes:             %s\n", money.FormatUSD(quick.TotalTaxes))
	fmt.Printf("Spending:          %s\n", money.FormatUSD(quick.TotalSpending))
	fmt.Printf("Surplus/deficit:   %s\n", money.FormatUSD(quick.TotalSurplusDeficit))
	fmt.Printf("Starting balance:  %s\n", money.FormatUSD(quick.StartingInvestments))
	fmt.Printf("Ending balance:    %s\n", money.FormatUSD(quick.EndingInvestments))
	fmt.Println()
	fmt.Println("Portfolio by year:")
	for _, point := range quick.Portfolio {
		fmt.Printf("  %s  %s\n", point.Month, money.FormatUSD(point.TotalInvestments))
	}
	return nil
}
