package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// BudgetCalculator produces inflation-adjusted monthly spending, with a
// one-time survivor reduction after the first projected death. Amounts are
// derived statelessly from the month.
type BudgetCalculator struct {
	budget         *domain.BudgetSettings
	startMonth     timeline.YearMonth
	survivorActive timeline.YearMonth
	hasSurvivor    bool
	Logger         Logger
}

// NewBudgetCalculator precomputes the survivor trigger month: the month
// after the earliest projected death among the scenario's people. The
// reduction needs a surviving household member, so scenarios with fewer
// than two people never trigger it. Later deaths do not reduce spending
// again.
func NewBudgetCalculator(scenario *domain.Scenario, logger Logger) *BudgetCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	bc := &BudgetCalculator{
		budget:     &scenario.BudgetSettings,
		startMonth: scenario.GlobalSettings.ProjectionStartMonth,
		Logger:     logger,
	}
	if len(scenario.People) < 2 {
		return bc
	}
	if death, ok := scenario.EarliestDeathMonth(); ok {
		bc.survivorActive = death.Next()
		bc.hasSurvivor = true
	}
	return bc
}

// inflationApplications counts the Januaries from the projection start
// through ym. A January start inflates in its very first month; a mid-year
// start holds at the starting level until the next January.
func (bc *BudgetCalculator) inflationApplications(ym timeline.YearMonth) int {
	firstJan := timeline.YearMonth{Year: bc.startMonth.Year, Month: 1}
	if bc.startMonth.Month > 1 {
		firstJan.Year++
	}
	if ym.Before(firstJan) {
		return 0
	}
	return ym.Year - firstJan.Year + 1
}

// InflationFactor returns the cumulative inflation multiplier for ym.
func (bc *BudgetCalculator) InflationFactor(ym timeline.YearMonth) decimal.Decimal {
	k := bc.inflationApplications(ym)
	if k == 0 || bc.budget.InflationAnnualPercent.IsZero() {
		return decimal.NewFromInt(1)
	}
	base := decimal.NewFromInt(1).Add(bc.budget.InflationAnnualPercent)
	return base.Pow(decimal.NewFromInt(int64(k)))
}

// survivorReductionApplies reports whether the reduction hits the given
// category in ym.
func (bc *BudgetCalculator) survivorReductionApplies(cat *domain.BudgetCategory, ym timeline.YearMonth) bool {
	if !bc.hasSurvivor || ym.Before(bc.survivorActive) {
		return false
	}
	if bc.budget.SurvivorReductionMode == domain.ReduceAll {
		return true
	}
	return cat.CategoryType == domain.CategoryFlexible
}

// SpendingForMonth returns total household spending for ym: included
// categories still inside their end month, scaled by cumulative inflation,
// with the survivor reduction applied where it is due.
func (bc *BudgetCalculator) SpendingForMonth(ym timeline.YearMonth) decimal.Decimal {
	factor := bc.InflationFactor(ym)
	survivorKeep := decimal.NewFromInt(1).Sub(bc.budget.SurvivorFlexibleReductionPercent)

	total := decimal.Zero
	for i := range bc.budget.Categories {
		cat := &bc.budget.Categories[i]
		if !cat.Include {
			continue
		}
		if cat.EndMonth != nil && ym.After(*cat.EndMonth) {
			continue
		}
		amount := cat.MonthlyAmount.Mul(factor)
		if bc.survivorReductionApplies(cat, ym) {
			amount = amount.Mul(survivorKeep)
		}
		total = total.Add(amount)
	}
	return total
}
