package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
)

// NetIncomeCalculator turns gross monthly cashflow plus annual tax results
// into after-tax monthly records and the run-level financial summary.
type NetIncomeCalculator struct {
	Logger Logger
}

// NewNetIncomeCalculator creates a new net income calculator
func NewNetIncomeCalculator(logger Logger) *NetIncomeCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &NetIncomeCalculator{Logger: logger}
}

// BuildNetIncomeProjections pairs each monthly record with one twelfth of
// its year's tax liability and the month's inflation-adjusted spending.
// Months in a year without a tax summary carry zero estimated tax.
func (nc *NetIncomeCalculator) BuildNetIncomeProjections(
	monthly []domain.MonthlyProjection,
	taxSummaries []domain.TaxSummary,
	spendingByMonth map[string]decimal.Decimal,
) []domain.NetIncomeProjection {
	taxByYear := make(map[int]domain.TaxSummary, len(taxSummaries))
	for _, ts := range taxSummaries {
		taxByYear[ts.Year] = ts
	}

	twelve := decimal.NewFromInt(12)
	out := make([]domain.NetIncomeProjection, 0, len(monthly))
	for _, mp := range monthly {
		var monthlyFederal, monthlyState decimal.Decimal
		if ts, ok := taxByYear[mp.Month.Year]; ok {
			monthlyFederal = ts.FederalTax.Div(twelve)
			monthlyState = ts.StateTax.Div(twelve)
		}
		monthlyTotal := monthlyFederal.Add(monthlyState)

		spending := spendingByMonth[mp.Month.String()]
		net := mp.TotalGrossCashflow.Sub(monthlyTotal)

		out = append(out, domain.NetIncomeProjection{
			Month:                     mp.Month,
			GrossCashflow:             mp.TotalGrossCashflow,
			EstimatedFederalTax:       monthlyFederal,
			EstimatedStateTax:         monthlyState,
			EstimatedTotalTax:         monthlyTotal,
			NetIncomeAfterTax:         net,
			InflationAdjustedSpending: spending,
			SurplusDeficit:            net.Sub(spending),
		})
	}
	return out
}

// BuildFinancialSummary rolls the net income projections up into run
// totals. Months with exactly zero surplus count as neither surplus nor
// deficit.
func (nc *NetIncomeCalculator) BuildFinancialSummary(netIncome []domain.NetIncomeProjection) domain.FinancialSummary {
	summary := domain.FinancialSummary{TotalMonths: len(netIncome)}

	for _, ni := range netIncome {
		summary.TotalGrossIncome = summary.TotalGrossIncome.Add(ni.GrossCashflow)
		summary.TotalTaxes = summary.TotalTaxes.Add(ni.EstimatedTotalTax)
		summary.TotalSpending = summary.TotalSpending.Add(ni.InflationAdjustedSpending)
		summary.TotalSurplusDeficit = summary.TotalSurplusDeficit.Add(ni.SurplusDeficit)

		switch {
		case ni.SurplusDeficit.IsPositive():
			summary.MonthsInSurplus++
		case ni.SurplusDeficit.IsNegative():
			summary.MonthsInDeficit++
		}
	}

	if summary.TotalMonths > 0 {
		summary.AverageMonthlySurplusDeficit = summary.TotalSurplusDeficit.
			Div(decimal.NewFromInt(int64(summary.TotalMonths)))
	}
	return summary
}
