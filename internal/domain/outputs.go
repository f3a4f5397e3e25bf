package domain

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// MonthlyProjection is the per-month cashflow and balance record. Map keys
// are stream IDs, account IDs, or tax bucket names; downstream consumers
// bind to the JSON field names, so they must stay stable.
type MonthlyProjection struct {
	Month                  timeline.YearMonth         `json:"month"`
	IncomeByStream         map[string]decimal.Decimal `json:"income_by_stream"`
	WithdrawalsByAccount   map[string]decimal.Decimal `json:"withdrawals_by_account"`
	WithdrawalsByTaxBucket map[string]decimal.Decimal `json:"withdrawals_by_tax_bucket"`
	BalancesByAccount      map[string]decimal.Decimal `json:"balances_by_account"`
	BalancesByTaxBucket    map[string]decimal.Decimal `json:"balances_by_tax_bucket"`
	TotalInvestments       decimal.Decimal            `json:"total_investments"`
	TotalGrossCashflow     decimal.Decimal            `json:"total_gross_cashflow"`
	FilingStatus           FilingStatus               `json:"filing_status"`
}

// AnnualSummary aggregates one calendar year of the projection.
type AnnualSummary struct {
	Year                      int             `json:"year"`
	TotalIncomeYear           decimal.Decimal `json:"total_income_year"`
	EndOfYearTotalInvestments decimal.Decimal `json:"end_of_year_total_investments"`
}

// TaxSummary is the per-year tax computation trail: from Social Security
// taxation through AGI, deduction, and the federal and state liabilities.
type TaxSummary struct {
	Year                int             `json:"year"`
	TotalSSAIncome      decimal.Decimal `json:"total_ssa_income"`
	TaxableSSAIncome    decimal.Decimal `json:"taxable_ssa_income"`
	OtherOrdinaryIncome decimal.Decimal `json:"other_ordinary_income"`
	AGI                 decimal.Decimal `json:"agi"`
	StandardDeduction   decimal.Decimal `json:"standard_deduction"`
	TaxableIncome       decimal.Decimal `json:"taxable_income"`
	FederalTax          decimal.Decimal `json:"federal_tax"`
	StateTax            decimal.Decimal `json:"state_tax"`
	TotalTax            decimal.Decimal `json:"total_tax"`
	EffectiveTaxRate    decimal.Decimal `json:"effective_tax_rate"`
}

// NetIncomeProjection is the per-month after-tax view: gross cashflow less
// estimated taxes, compared against inflation-adjusted spending.
type NetIncomeProjection struct {
	Month                     timeline.YearMonth `json:"month"`
	GrossCashflow             decimal.Decimal    `json:"gross_cashflow"`
	EstimatedFederalTax       decimal.Decimal    `json:"estimated_federal_tax"`
	EstimatedStateTax         decimal.Decimal    `json:"estimated_state_tax"`
	EstimatedTotalTax         decimal.Decimal    `json:"estimated_total_tax"`
	NetIncomeAfterTax         decimal.Decimal    `json:"net_income_after_tax"`
	InflationAdjustedSpending decimal.Decimal    `json:"inflation_adjusted_spending"`
	SurplusDeficit            decimal.Decimal    `json:"surplus_deficit"`
}

// FinancialSummary rolls the whole run up into headline numbers.
type FinancialSummary struct {
	TotalGrossIncome             decimal.Decimal `json:"total_gross_income"`
	TotalTaxes                   decimal.Decimal `json:"total_taxes"`
	TotalSpending                decimal.Decimal `json:"total_spending"`
	TotalSurplusDeficit          decimal.Decimal `json:"total_surplus_deficit"`
	AverageMonthlySurplusDeficit decimal.Decimal `json:"average_monthly_surplus_deficit"`
	MonthsInSurplus              int             `json:"months_in_surplus"`
	MonthsInDeficit              int             `json:"months_in_deficit"`
	TotalMonths                  int             `json:"total_months"`
}

// ProjectionResult is the full output of one scenario run.
type ProjectionResult struct {
	ScenarioID       string                `json:"scenario_id"`
	ScenarioName     string                `json:"scenario_name"`
	Monthly          []MonthlyProjection   `json:"monthly"`
	AnnualSummaries  []AnnualSummary       `json:"annual_summaries"`
	TaxSummaries     []TaxSummary          `json:"tax_summaries"`
	NetIncome        []NetIncomeProjection `json:"net_income"`
	FinancialSummary FinancialSummary      `json:"financial_summary"`
	Warnings         []string              `json:"warnings,omitempty"`
}

// FinalTotalInvestments returns the ending investment balance of the run,
// zero for an empty projection.
func (r *ProjectionResult) FinalTotalInvestments() decimal.Decimal {
	if len(r.Monthly) == 0 {
		return decimal.Zero
	}
	return r.Monthly[len(r.Monthly)-1].TotalInvestments
}

// PortfolioPoint is one sample of the coarse portfolio time series.
type PortfolioPoint struct {
	Month            timeline.YearMonth `json:"month"`
	TotalInvestments decimal.Decimal    `json:"total_investments"`
}

// QuickProjection is the dashboard-preview view of a run: the same
// projection reduced to headline totals and one portfolio point per year.
type QuickProjection struct {
	StartingInvestments decimal.Decimal  `json:"starting_investments"`
	EndingInvestments   decimal.Decimal  `json:"ending_investments"`
	TotalGrossIncome    decimal.Decimal  `json:"total_gross_income"`
	TotalTaxes          decimal.Decimal  `json:"total_taxes"`
	TotalSpending       decimal.Decimal  `json:"total_spending"`
	TotalSurplusDeficit decimal.Decimal  `json:"total_surplus_deficit"`
	TotalMonths         int              `json:"total_months"`
	Portfolio           []PortfolioPoint `json:"portfolio"`
}

// ValidationError describes a single scenario problem found by validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult is the outcome of validating a scenario without
// running it.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}
