package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// engineScenario is a small but complete scenario: one pensioner, one
// tax-deferred account in exact steady state, flat spending, PA taxes.
func engineScenario() *domain.Scenario {
	return &domain.Scenario{
		ScenarioID:   "base",
		ScenarioName: "Base Case",
		GlobalSettings: domain.GlobalSettings{
			ProjectionStartMonth: timeline.MustParse("2026-01"),
			ProjectionEndYear:    2028,
			ResidenceState:       "PA",
		},
		People: []domain.Person{{
			PersonID:  "alice",
			Name:      "Alice",
			BirthDate: time.Date(1960, time.June, 1, 0, 0, 0, 0, time.UTC),
		}},
		IncomeStreams: []domain.IncomeStream{{
			StreamID:             "pension",
			Type:                 domain.StreamPension,
			OwnerPersonID:        "alice",
			StartMonth:           timeline.MustParse("2026-01"),
			MonthlyAmountAtStart: decimal.NewFromInt(5000),
			ColaPercentAnnual:    decimal.RequireFromString("0.02"),
			ColaMonth:            1,
		}},
		Accounts: []domain.InvestmentAccount{{
			AccountID:         "ira",
			Name:              "Rollover IRA",
			TaxBucket:         domain.BucketTaxDeferred,
			StartingBalance:   decimal.NewFromInt(300000),
			AnnualReturnRate:  decimal.RequireFromString("0.06"),
			MonthlyWithdrawal: decimal.NewFromInt(1500),
		}},
		BudgetSettings: domain.BudgetSettings{
			Categories: []domain.BudgetCategory{
				{CategoryName: "housing", CategoryType: domain.CategoryFixed, MonthlyAmount: decimal.NewFromInt(2500), Include: true},
				{CategoryName: "travel", CategoryType: domain.CategoryFlexible, MonthlyAmount: decimal.NewFromInt(800), Include: true},
			},
			InflationAnnualPercent:           decimal.Zero,
			SurvivorFlexibleReductionPercent: decimal.RequireFromString("0.25"),
			SurvivorReductionMode:            domain.ReduceFlexOnly,
		},
		TaxSettings: domain.TaxSettings{
			FilingStatus:   domain.FilingSingle,
			TaxYearRuleset: 2024,
		},
	}
}

func TestRunProjectionBaseCase(t *testing.T) {
	engine := NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), engineScenario())
	require.NoError(t, err)

	require.Len(t, result.Monthly, 36)
	assert.Equal(t, "base", result.ScenarioID)

	first := result.Monthly[0]
	assert.Equal(t, timeline.MustParse("2026-01"), first.Month)
	assert.True(t, first.IncomeByStream["pension"].Equal(decimal.NewFromInt(5000)))
	assert.True(t, first.WithdrawalsByAccount["ira"].Equal(decimal.NewFromInt(1500)))
	assert.True(t, first.TotalGrossCashflow.Equal(decimal.NewFromInt(6500)))
	assert.True(t, first.BalancesByAccount["ira"].Equal(decimal.NewFromInt(300000)))
	assert.True(t, first.BalancesByTaxBucket["tax_deferred"].Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, domain.FilingSingle, first.FilingStatus)

	// Pension takes its first COLA in January 2027.
	jan2027 := result.Monthly[12]
	assert.Equal(t, timeline.MustParse("2027-01"), jan2027.Month)
	assert.True(t, jan2027.IncomeByStream["pension"].Equal(decimal.NewFromInt(5100)),
		"got %s", jan2027.IncomeByStream["pension"])

	// The steady-state account never moves.
	for _, mp := range result.Monthly {
		assert.True(t, mp.BalancesByAccount["ira"].Equal(decimal.NewFromInt(300000)),
			"month %s got %s", mp.Month, mp.BalancesByAccount["ira"])
	}

	// No surplus account is flagged, so the run carries a warning.
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "surplus")
}

func TestRunProjectionTaxPass(t *testing.T) {
	engine := NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), engineScenario())
	require.NoError(t, err)

	require.Len(t, result.TaxSummaries, 3)
	y2026 := result.TaxSummaries[0]
	assert.Equal(t, 2026, y2026.Year)

	// 60,000 pension plus 18,000 of withdrawals, no Social Security.
	assert.True(t, y2026.TotalSSAIncome.IsZero())
	assert.True(t, y2026.OtherOrdinaryIncome.Equal(decimal.NewFromInt(78000)), "got %s", y2026.OtherOrdinaryIncome)
	assert.True(t, y2026.AGI.Equal(decimal.NewFromInt(78000)))
	assert.True(t, y2026.TaxableIncome.Equal(decimal.NewFromInt(63400)))
	assert.True(t, y2026.FederalTax.Equal(decimal.NewFromInt(9001)), "got %s", y2026.FederalTax)
	assert.True(t, y2026.StateTax.Equal(decimal.RequireFromString("2394.60")), "got %s", y2026.StateTax)
	assert.True(t, y2026.TotalTax.Equal(y2026.FederalTax.Add(y2026.StateTax)))
	assert.True(t, y2026.EffectiveTaxRate.LessThan(decimal.NewFromInt(1)))
	assert.False(t, y2026.EffectiveTaxRate.IsNegative())
}

func TestRunProjectionNetIncome(t *testing.T) {
	engine := NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), engineScenario())
	require.NoError(t, err)

	require.Len(t, result.NetIncome, 36)
	twelve := decimal.NewFromInt(12)

	ni := result.NetIncome[0]
	y2026 := result.TaxSummaries[0]
	wantMonthlyTax := y2026.FederalTax.Div(twelve).Add(y2026.StateTax.Div(twelve))

	assert.True(t, ni.GrossCashflow.Equal(decimal.NewFromInt(6500)))
	assert.True(t, ni.EstimatedTotalTax.Equal(wantMonthlyTax), "got %s want %s", ni.EstimatedTotalTax, wantMonthlyTax)
	assert.True(t, ni.InflationAdjustedSpending.Equal(decimal.NewFromInt(3300)))
	assert.True(t, ni.NetIncomeAfterTax.Equal(ni.GrossCashflow.Sub(ni.EstimatedTotalTax)))
	assert.True(t, ni.SurplusDeficit.Equal(ni.NetIncomeAfterTax.Sub(ni.InflationAdjustedSpending)))

	summary := result.FinancialSummary
	assert.Equal(t, 36, summary.TotalMonths)
	assert.Equal(t, 36, summary.MonthsInSurplus)
	assert.Equal(t, 0, summary.MonthsInDeficit)
	assert.True(t, summary.TotalSpending.Equal(decimal.NewFromInt(3300*36)))
	assert.True(t, summary.AverageMonthlySurplusDeficit.
		Equal(summary.TotalSurplusDeficit.Div(decimal.NewFromInt(36))))
}

func TestRunProjectionRoutesSurplus(t *testing.T) {
	scenario := engineScenario()
	scenario.Accounts[0].ReceivesSurplus = true

	engine := NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), scenario)
	require.NoError(t, err)

	for _, w := range result.Warnings {
		assert.NotContains(t, w, "surplus")
	}

	// Each month's reported balance carries the cumulative surplus on top
	// of the steady-state 300,000.
	cumulative := decimal.Zero
	for i, mp := range result.Monthly {
		cumulative = cumulative.Add(result.NetIncome[i].SurplusDeficit)
		want := decimal.NewFromInt(300000).Add(cumulative)
		assert.True(t, mp.BalancesByAccount["ira"].Equal(want),
			"month %s got %s want %s", mp.Month, mp.BalancesByAccount["ira"], want)
		assert.True(t, mp.TotalInvestments.Equal(want))
		assert.True(t, mp.BalancesByTaxBucket["tax_deferred"].Equal(want))
	}

	// Annual summaries reflect the adjusted balances.
	require.Len(t, result.AnnualSummaries, 3)
	last := result.AnnualSummaries[2]
	assert.Equal(t, 2028, last.Year)
	assert.True(t, last.EndOfYearTotalInvestments.Equal(result.FinalTotalInvestments()))
}

func TestRunProjectionDeterministic(t *testing.T) {
	engine := NewProjectionEngine()

	first, err := engine.RunProjection(context.Background(), engineScenario())
	require.NoError(t, err)
	second, err := engine.RunProjection(context.Background(), engineScenario())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunProjectionContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewProjectionEngine()
	_, err := engine.RunProjection(ctx, engineScenario())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunProjectionUnknownRulesetFails(t *testing.T) {
	scenario := engineScenario()
	scenario.TaxSettings.TaxYearRuleset = 1999

	engine := NewProjectionEngine()
	_, err := engine.RunProjection(context.Background(), scenario)
	require.Error(t, err)

	var confErr *ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}

func TestFilingStatusSwitchesAfterDeath(t *testing.T) {
	life := 85
	scenario := engineScenario()
	scenario.GlobalSettings.ProjectionEndYear = 2047
	scenario.TaxSettings.FilingStatus = domain.FilingMarriedFilingJointly
	scenario.People = append(scenario.People, domain.Person{
		PersonID:            "bob",
		BirthDate:           time.Date(1960, time.March, 1, 0, 0, 0, 0, time.UTC),
		LifeExpectancyYears: &life,
	})

	engine := NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), scenario)
	require.NoError(t, err)

	// bob dies 2045-03; the household files jointly through 2045 and
	// single from 2046 on.
	statusByYear := make(map[int]domain.FilingStatus)
	for _, mp := range result.Monthly {
		statusByYear[mp.Month.Year] = mp.FilingStatus
	}
	assert.Equal(t, domain.FilingMarriedFilingJointly, statusByYear[2045])
	assert.Equal(t, domain.FilingSingle, statusByYear[2046])

	for _, ts := range result.TaxSummaries {
		if ts.Year <= 2045 {
			continue
		}
		// The single standard deduction applies after the switch.
		assert.True(t, ts.StandardDeduction.Equal(decimal.NewFromInt(14600)),
			"year %d got %s", ts.Year, ts.StandardDeduction)
	}
}

func TestFilingStatusHoldsWithOnePerson(t *testing.T) {
	life := 85
	scenario := engineScenario()
	scenario.TaxSettings.FilingStatus = domain.FilingMarriedFilingJointly
	scenario.People[0].LifeExpectancyYears = &life

	// A lone person's death leaves no surviving spouse to change status.
	tracker := NewFilingStatusTracker(scenario)
	assert.Equal(t, domain.FilingMarriedFilingJointly, tracker.StatusForYear(2045))
	assert.Equal(t, domain.FilingMarriedFilingJointly, tracker.StatusForYear(2046))
}

func TestRunQuickProjection(t *testing.T) {
	engine := NewProjectionEngine()
	quick, err := engine.RunQuickProjection(context.Background(), engineScenario())
	require.NoError(t, err)

	assert.Equal(t, 36, quick.TotalMonths)
	assert.True(t, quick.StartingInvestments.Equal(decimal.NewFromInt(300000)))
	assert.True(t, quick.EndingInvestments.Equal(decimal.NewFromInt(300000)))
	assert.True(t, quick.TotalSpending.Equal(decimal.NewFromInt(3300*36)))

	// One portfolio point per projected year, at each year's last month.
	require.Len(t, quick.Portfolio, 3)
	assert.Equal(t, timeline.MustParse("2026-12"), quick.Portfolio[0].Month)
	assert.Equal(t, timeline.MustParse("2028-12"), quick.Portfolio[2].Month)

	full, err := engine.RunProjection(context.Background(), engineScenario())
	require.NoError(t, err)
	assert.True(t, quick.TotalGrossIncome.Equal(full.FinancialSummary.TotalGrossIncome))
	assert.True(t, quick.TotalTaxes.Equal(full.FinancialSummary.TotalTaxes))
}

func TestRunProjectionUnsupportedStateWarns(t *testing.T) {
	scenario := engineScenario()
	scenario.GlobalSettings.ResidenceState = "VA"

	engine := NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), scenario)
	require.NoError(t, err)

	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "VA")
	for _, ts := range result.TaxSummaries {
		assert.True(t, ts.StateTax.IsZero())
	}
}
