package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
)

// CSVMonthlyExporter writes one row per projected month, with per-stream
// and per-account columns ordered alphabetically so the layout is stable
// across runs.
type CSVMonthlyExporter struct{}

func (c CSVMonthlyExporter) Name() string { return "csv" }

func (c CSVMonthlyExporter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	var streamIDs, accountIDs []string
	if len(result.Monthly) > 0 {
		streamIDs = sortedKeys(result.Monthly[0].IncomeByStream)
		accountIDs = sortedKeys(result.Monthly[0].BalancesByAccount)
	}

	header := []string{"Month", "FilingStatus", "GrossCashflow", "TotalInvestments"}
	for _, id := range streamIDs {
		header = append(header, "Income:"+id)
	}
	for _, id := range accountIDs {
		header = append(header, "Withdrawal:"+id)
	}
	for _, id := range accountIDs {
		header = append(header, "Balance:"+id)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range result.Monthly {
		mp := &result.Monthly[i]
		row := []string{
			mp.Month.String(),
			string(mp.FilingStatus),
			mp.TotalGrossCashflow.StringFixed(2),
			mp.TotalInvestments.StringFixed(2),
		}
		for _, id := range streamIDs {
			row = append(row, mp.IncomeByStream[id].StringFixed(2))
		}
		for _, id := range accountIDs {
			row = append(row, mp.WithdrawalsByAccount[id].StringFixed(2))
		}
		for _, id := range accountIDs {
			row = append(row, mp.BalancesByAccount[id].StringFixed(2))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVTaxExporter writes one row per tax year.
type CSVTaxExporter struct{}

func (c CSVTaxExporter) Name() string { return "tax-csv" }

func (c CSVTaxExporter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Year", "TotalSSAIncome", "TaxableSSAIncome", "OtherOrdinaryIncome",
		"AGI", "StandardDeduction", "TaxableIncome", "FederalTax", "StateTax", "TotalTax", "EffectiveTaxRate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, ts := range result.TaxSummaries {
		row := []string{
			intToString(ts.Year),
			ts.TotalSSAIncome.StringFixed(2),
			ts.TaxableSSAIncome.StringFixed(2),
			ts.OtherOrdinaryIncome.StringFixed(2),
			ts.AGI.StringFixed(2),
			ts.StandardDeduction.StringFixed(2),
			ts.TaxableIncome.StringFixed(2),
			ts.FederalTax.StringFixed(2),
			ts.StateTax.StringFixed(2),
			ts.TotalTax.StringFixed(2),
			ts.EffectiveTaxRate.StringFixed(4),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
