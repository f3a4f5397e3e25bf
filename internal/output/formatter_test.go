package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

func sampleResult() *domain.ProjectionResult {
	return &domain.ProjectionResult{
		ScenarioID:   "base",
		ScenarioName: "Base Case",
		Monthly: []domain.MonthlyProjection{
			{
				Month: timeline.MustParse("2026-01"),
				IncomeByStream: map[string]decimal.Decimal{
					"pension": decimal.NewFromInt(5000),
					"ssa":     decimal.NewFromInt(2000),
				},
				WithdrawalsByAccount: map[string]decimal.Decimal{
					"ira": decimal.NewFromInt(1500),
				},
				WithdrawalsByTaxBucket: map[string]decimal.Decimal{
					"tax_deferred": decimal.NewFromInt(1500),
				},
				BalancesByAccount: map[string]decimal.Decimal{
					"ira": decimal.NewFromInt(300000),
				},
				BalancesByTaxBucket: map[string]decimal.Decimal{
					"tax_deferred": decimal.NewFromInt(300000),
				},
				TotalInvestments:   decimal.NewFromInt(300000),
				TotalGrossCashflow: decimal.NewFromInt(8500),
				FilingStatus:       domain.FilingSingle,
			},
		},
		TaxSummaries: []domain.TaxSummary{{
			Year:       2026,
			FederalTax: decimal.NewFromInt(9001),
			StateTax:   decimal.RequireFromString("2394.60"),
			TotalTax:   decimal.RequireFromString("11395.60"),
		}},
		FinancialSummary: domain.FinancialSummary{
			TotalGrossIncome:    decimal.NewFromInt(8500),
			TotalSpending:       decimal.NewFromInt(3300),
			TotalSurplusDeficit: decimal.NewFromInt(4250),
			MonthsInSurplus:     1,
			TotalMonths:         1,
		},
		Warnings: []string{"no account receives monthly surplus"},
	}
}

func TestConsoleFormatter(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleResult())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "Base Case")
	assert.Contains(t, text, "$300,000.00")
	assert.Contains(t, text, "$8,500.00")
	assert.Contains(t, text, "Months in surplus:   1 of 1")
	assert.Contains(t, text, "WARNINGS")
	assert.Contains(t, text, "2026")
}

func TestCSVMonthlyExporter(t *testing.T) {
	data, err := CSVMonthlyExporter{}.Format(sampleResult())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Stream and account columns come out alphabetically.
	assert.Equal(t, []string{
		"Month", "FilingStatus", "GrossCashflow", "TotalInvestments",
		"Income:pension", "Income:ssa", "Withdrawal:ira", "Balance:ira",
	}, rows[0])
	assert.Equal(t, []string{
		"2026-01", "single", "8500.00", "300000.00",
		"5000.00", "2000.00", "1500.00", "300000.00",
	}, rows[1])
}

func TestCSVTaxExporter(t *testing.T) {
	data, err := CSVTaxExporter{}.Format(sampleResult())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026", rows[1][0])
	assert.Equal(t, "9001.00", rows[1][7])
	assert.Equal(t, "2394.60", rows[1][8])
}

func TestJSONFormatterFieldNames(t *testing.T) {
	data, err := JSONFormatter{}.Format(sampleResult())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	monthly, ok := decoded["monthly"].([]interface{})
	require.True(t, ok)
	first, ok := monthly[0].(map[string]interface{})
	require.True(t, ok)

	for _, key := range []string{
		"month", "income_by_stream", "withdrawals_by_account", "withdrawals_by_tax_bucket",
		"balances_by_account", "balances_by_tax_bucket", "total_investments",
		"total_gross_cashflow", "filing_status",
	} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "2026-01", first["month"])
}

func TestGetFormatterByName(t *testing.T) {
	require.NotNil(t, GetFormatterByName("console"))
	assert.Equal(t, "console", GetFormatterByName("summary").Name())
	assert.Equal(t, "csv", GetFormatterByName("monthly-csv").Name())
	assert.Equal(t, "json", GetFormatterByName(" JSON ").Name())
	assert.Nil(t, GetFormatterByName("pdf"))
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	assert.Equal(t, []string{"console", "csv", "json", "tax-csv"}, names)
}
