package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/money"
)

// ConsoleFormatter renders the human-readable run summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}

	title := result.ScenarioName
	if title == "" {
		title = result.ScenarioID
	}
	fmt.Fprintf(buf, "RETIREMENT PROJECTION: %s\n", title)
	fmt.Fprintln(buf, strings.Repeat("=", 60))

	if len(result.Monthly) > 0 {
		first := result.Monthly[0]
		last := result.Monthly[len(result.Monthly)-1]
		fmt.Fprintf(buf, "Period:              %s to %s (%d months)\n",
			first.Month, last.Month, len(result.Monthly))
		fmt.Fprintf(buf, "Starting balance:    %s\n", money.FormatUSD(first.TotalInvestments))
		fmt.Fprintf(buf, "Ending balance:      %s\n", money.FormatUSD(last.TotalInvestments))
	}

	fs := result.FinancialSummary
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "FINANCIAL SUMMARY")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	fmt.Fprintf(buf, "Total gross income:  %s\n", money.FormatUSD(fs.TotalGrossIncome))
	fmt.Fprintf(buf, "Total taxes:         %s\n", money.FormatUSD(fs.TotalTaxes))
	fmt.Fprintf(buf, "Total spending:      %s\n", money.FormatUSD(fs.TotalSpending))
	fmt.Fprintf(buf, "Net surplus/deficit: %s\n", money.FormatUSD(fs.TotalSurplusDeficit))
	fmt.Fprintf(buf, "Average per month:   %s\n", money.FormatUSD(fs.AverageMonthlySurplusDeficit))
	fmt.Fprintf(buf, "Months in surplus:   %d of %d\n", fs.MonthsInSurplus, fs.TotalMonths)
	fmt.Fprintf(buf, "Months in deficit:   %d of %d\n", fs.MonthsInDeficit, fs.TotalMonths)

	if len(result.TaxSummaries) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "ANNUAL TAXES")
		fmt.Fprintln(buf, strings.Repeat("-", 60))
		fmt.Fprintf(buf, "%-6s %15s %15s %12s\n", "Year", "Federal", "State", "Eff. Rate")
		for _, ts := range result.TaxSummaries {
			fmt.Fprintf(buf, "%-6d %15s %15s %12s\n",
				ts.Year,
				money.FormatUSD(ts.FederalTax),
				money.FormatUSD(ts.StateTax),
				money.FormatPercent(ts.EffectiveTaxRate))
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "WARNINGS")
		fmt.Fprintln(buf, strings.Repeat("-", 60))
		for _, w := range result.Warnings {
			fmt.Fprintf(buf, "  - %s\n", w)
		}
	}

	return buf.Bytes(), nil
}
