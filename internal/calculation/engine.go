package calculation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// FilingStatusTracker resolves the filing status in effect for each
// projected month. A married-filing-jointly household files jointly
// through the year of the first death and switches to single the
// following year. Other statuses never change.
type FilingStatusTracker struct {
	base       domain.FilingStatus
	switchYear int
	switches   bool
}

// NewFilingStatusTracker precomputes the switch year from the scenario's
// earliest projected death. The switch needs a surviving spouse, so
// scenarios with fewer than two people never change status.
func NewFilingStatusTracker(scenario *domain.Scenario) *FilingStatusTracker {
	tracker := &FilingStatusTracker{base: scenario.TaxSettings.FilingStatus}
	if tracker.base != domain.FilingMarriedFilingJointly || len(scenario.People) < 2 {
		return tracker
	}
	if death, ok := scenario.EarliestDeathMonth(); ok {
		tracker.switchYear = death.Year + 1
		tracker.switches = true
	}
	return tracker
}

// StatusForYear returns the filing status in effect for a tax year.
func (ft *FilingStatusTracker) StatusForYear(year int) domain.FilingStatus {
	if ft.switches && year >= ft.switchYear {
		return domain.FilingSingle
	}
	return ft.base
}

// ProjectionEngine orchestrates a full scenario run: the monthly cashflow
// loop, the annual tax pass, net income, surplus routing, and the
// summaries.
type ProjectionEngine struct {
	IncomeCalc    *IncomeCalculator
	NetIncomeCalc *NetIncomeCalculator
	Logger        Logger
}

// NewProjectionEngine creates a new projection engine
func NewProjectionEngine() *ProjectionEngine {
	logger := NopLogger{}
	return &ProjectionEngine{
		IncomeCalc:    NewIncomeCalculator(logger),
		NetIncomeCalc: NewNetIncomeCalculator(logger),
		Logger:        logger,
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op
// logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	pe.Logger = l
	pe.IncomeCalc.Logger = l
	pe.NetIncomeCalc.Logger = l
}

// RunProjection executes the scenario month by month and returns the full
// result. The scenario is not mutated; two runs over the same scenario
// produce identical results.
func (pe *ProjectionEngine) RunProjection(ctx context.Context, scenario *domain.Scenario) (*domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tl := timeline.New(scenario.GlobalSettings.ProjectionStartMonth, scenario.GlobalSettings.ProjectionEndYear)
	months := tl.Months()
	pe.Logger.Infof("projecting scenario %s over %d months", scenario.ScenarioID, len(months))

	ledger := NewAccountLedger(scenario.Accounts, pe.Logger)
	budgetCalc := NewBudgetCalculator(scenario, pe.Logger)
	taxCalc := NewTaxCalculator(scenario, pe.Logger)
	tracker := NewFilingStatusTracker(scenario)

	var warnings []string
	if !StateSupported(scenario.GlobalSettings.ResidenceState) {
		warnings = append(warnings,
			"no state tax rule for "+scenario.GlobalSettings.ResidenceState+", state tax assumed zero")
	}
	if scenario.SurplusAccount() == nil && len(scenario.Accounts) > 0 {
		warnings = append(warnings,
			"no account receives monthly surplus; surplus and deficit accumulate outside the accounts")
	}

	monthly := make([]domain.MonthlyProjection, 0, len(months))
	spendingByMonth := make(map[string]decimal.Decimal, len(months))

	for _, ym := range months {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		incomeByStream, incomeTotal := pe.IncomeCalc.IncomeForMonth(scenario, ym)
		movement := ledger.AdvanceMonth(ym)
		balances := ledger.BalancesByAccount()

		monthly = append(monthly, domain.MonthlyProjection{
			Month:                  ym,
			IncomeByStream:         incomeByStream,
			WithdrawalsByAccount:   movement.WithdrawalsByAccount,
			WithdrawalsByTaxBucket: RollupByTaxBucket(scenario.Accounts, movement.WithdrawalsByAccount),
			BalancesByAccount:      balances,
			BalancesByTaxBucket:    RollupByTaxBucket(scenario.Accounts, balances),
			TotalInvestments:       ledger.TotalInvestments(),
			TotalGrossCashflow:     incomeTotal.Add(movement.TotalWithdrawals),
			FilingStatus:           tracker.StatusForYear(ym.Year),
		})
		spendingByMonth[ym.String()] = budgetCalc.SpendingForMonth(ym)
	}

	taxSummaries, err := pe.runAnnualTaxPass(scenario, taxCalc, tracker, monthly)
	if err != nil {
		return nil, err
	}

	netIncome := pe.NetIncomeCalc.BuildNetIncomeProjections(monthly, taxSummaries, spendingByMonth)
	financialSummary := pe.NetIncomeCalc.BuildFinancialSummary(netIncome)

	if account := scenario.SurplusAccount(); account != nil {
		routeSurplusToAccount(monthly, netIncome, account)
	}

	return &domain.ProjectionResult{
		ScenarioID:       scenario.ScenarioID,
		ScenarioName:     scenario.ScenarioName,
		Monthly:          monthly,
		AnnualSummaries:  buildAnnualSummaries(monthly),
		TaxSummaries:     taxSummaries,
		NetIncome:        netIncome,
		FinancialSummary: financialSummary,
		Warnings:         warnings,
	}, nil
}

// runAnnualTaxPass groups the monthly records by calendar year and runs
// the tax calculation for each, splitting Social Security income from
// ordinary income and counting withdrawals as ordinary. The filing status
// for a year is the status in effect in its final projected month.
func (pe *ProjectionEngine) runAnnualTaxPass(
	scenario *domain.Scenario,
	taxCalc *TaxCalculator,
	tracker *FilingStatusTracker,
	monthly []domain.MonthlyProjection,
) ([]domain.TaxSummary, error) {
	ssaStreams := make(map[string]bool)
	for i := range scenario.IncomeStreams {
		if scenario.IncomeStreams[i].Type == domain.StreamSocialSecurity {
			ssaStreams[scenario.IncomeStreams[i].StreamID] = true
		}
	}

	type yearTotals struct {
		ssa      decimal.Decimal
		ordinary decimal.Decimal
	}
	totalsByYear := make(map[int]*yearTotals)
	var years []int

	for i := range monthly {
		mp := &monthly[i]
		totals, ok := totalsByYear[mp.Month.Year]
		if !ok {
			totals = &yearTotals{}
			totalsByYear[mp.Month.Year] = totals
			years = append(years, mp.Month.Year)
		}
		for streamID, amount := range mp.IncomeByStream {
			if ssaStreams[streamID] {
				totals.ssa = totals.ssa.Add(amount)
			} else {
				totals.ordinary = totals.ordinary.Add(amount)
			}
		}
		for _, amount := range mp.WithdrawalsByAccount {
			totals.ordinary = totals.ordinary.Add(amount)
		}
	}

	summaries := make([]domain.TaxSummary, 0, len(years))
	for _, year := range years {
		totals := totalsByYear[year]
		summary, err := taxCalc.CalculateAnnualTaxes(year, totals.ssa, totals.ordinary, tracker.StatusForYear(year))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// routeSurplusToAccount folds each month's cumulative surplus or deficit
// into the flagged account's reported balances. The adjusted balance never
// drops below zero; a deficit deeper than the account simply empties it in
// the report.
func routeSurplusToAccount(
	monthly []domain.MonthlyProjection,
	netIncome []domain.NetIncomeProjection,
	account *domain.InvestmentAccount,
) {
	cumulative := decimal.Zero
	bucket := string(account.TaxBucket)

	for i := range monthly {
		cumulative = cumulative.Add(netIncome[i].SurplusDeficit)

		original := monthly[i].BalancesByAccount[account.AccountID]
		adjusted := original.Add(cumulative)
		if adjusted.IsNegative() {
			adjusted = decimal.Zero
		}
		delta := adjusted.Sub(original)

		monthly[i].BalancesByAccount[account.AccountID] = adjusted
		monthly[i].BalancesByTaxBucket[bucket] = monthly[i].BalancesByTaxBucket[bucket].Add(delta)
		monthly[i].TotalInvestments = monthly[i].TotalInvestments.Add(delta)
	}
}

// buildAnnualSummaries reduces the monthly records to one row per year.
// The end-of-year balance is taken from the year's last projected month.
func buildAnnualSummaries(monthly []domain.MonthlyProjection) []domain.AnnualSummary {
	var summaries []domain.AnnualSummary
	for i := range monthly {
		mp := &monthly[i]
		if len(summaries) == 0 || summaries[len(summaries)-1].Year != mp.Month.Year {
			summaries = append(summaries, domain.AnnualSummary{Year: mp.Month.Year})
		}
		current := &summaries[len(summaries)-1]
		current.TotalIncomeYear = current.TotalIncomeYear.Add(mp.TotalGrossCashflow)
		current.EndOfYearTotalInvestments = mp.TotalInvestments
	}
	return summaries
}

// RunQuickProjection runs the full projection and reduces it to the
// dashboard-preview view: headline totals plus one portfolio point per
// year (the year's last projected month).
func (pe *ProjectionEngine) RunQuickProjection(ctx context.Context, scenario *domain.Scenario) (*domain.QuickProjection, error) {
	result, err := pe.RunProjection(ctx, scenario)
	if err != nil {
		return nil, err
	}

	starting := decimal.Zero
	for i := range scenario.Accounts {
		starting = starting.Add(scenario.Accounts[i].StartingBalance)
	}

	var portfolio []domain.PortfolioPoint
	for i := range result.Monthly {
		mp := &result.Monthly[i]
		if i+1 < len(result.Monthly) && result.Monthly[i+1].Month.Year == mp.Month.Year {
			continue
		}
		portfolio = append(portfolio, domain.PortfolioPoint{
			Month:            mp.Month,
			TotalInvestments: mp.TotalInvestments,
		})
	}

	fs := result.FinancialSummary
	return &domain.QuickProjection{
		StartingInvestments: starting,
		EndingInvestments:   result.FinalTotalInvestments(),
		TotalGrossIncome:    fs.TotalGrossIncome,
		TotalTaxes:          fs.TotalTaxes,
		TotalSpending:       fs.TotalSpending,
		TotalSurplusDeficit: fs.TotalSurplusDeficit,
		TotalMonths:         fs.TotalMonths,
		Portfolio:           portfolio,
	}, nil
}
