// Package domain defines the scenario input models and the projection
// output records. Scenario values are treated as read-only for the
// duration of a projection run.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// TaxBucket is the tax treatment of an investment account.
type TaxBucket string

const (
	BucketTaxable     TaxBucket = "taxable"
	BucketTaxDeferred TaxBucket = "tax_deferred"
	BucketRoth        TaxBucket = "roth"
)

// IncomeStreamType categorizes an income stream.
type IncomeStreamType string

const (
	StreamPension        IncomeStreamType = "pension"
	StreamSocialSecurity IncomeStreamType = "social_security"
	StreamSalary         IncomeStreamType = "salary"
	StreamSelfEmployment IncomeStreamType = "self_employment"
	StreamOther          IncomeStreamType = "other"
)

// FilingStatus is the federal tax filing status.
type FilingStatus string

const (
	FilingSingle                  FilingStatus = "single"
	FilingMarriedFilingJointly    FilingStatus = "married_filing_jointly"
	FilingMarriedFilingSeparately FilingStatus = "married_filing_separately"
	FilingHeadOfHousehold         FilingStatus = "head_of_household"
)

// CategoryType distinguishes fixed from flexible budget categories.
type CategoryType string

const (
	CategoryFixed    CategoryType = "fixed"
	CategoryFlexible CategoryType = "flexible"
)

// SurvivorReductionMode controls which categories the survivor spending
// reduction applies to.
type SurvivorReductionMode string

const (
	ReduceFlexOnly SurvivorReductionMode = "flex_only"
	ReduceAll      SurvivorReductionMode = "all"
)

// Person is an individual in the retirement plan.
type Person struct {
	PersonID            string    `yaml:"person_id" json:"person_id"`
	Name                string    `yaml:"name" json:"name"`
	BirthDate           time.Time `yaml:"birth_date" json:"birth_date"`
	LifeExpectancyYears *int      `yaml:"life_expectancy_years,omitempty" json:"life_expectancy_years,omitempty"`
}

// DeathYearMonth returns the projected death month (birth year plus life
// expectancy, in the birth month), or false if no life expectancy is set.
func (p *Person) DeathYearMonth() (timeline.YearMonth, bool) {
	if p.LifeExpectancyYears == nil {
		return timeline.YearMonth{}, false
	}
	return timeline.YearMonth{
		Year:  p.BirthDate.Year() + *p.LifeExpectancyYears,
		Month: int(p.BirthDate.Month()),
	}, true
}

// Age returns the person's age in whole years at the given date.
func (p *Person) Age(atDate time.Time) int {
	age := atDate.Year() - p.BirthDate.Year()
	if atDate.Month() < p.BirthDate.Month() ||
		(atDate.Month() == p.BirthDate.Month() && atDate.Day() < p.BirthDate.Day()) {
		age--
	}
	return age
}

// IncomeStream is a recurring income source. COLA increases compound once
// per year in ColaMonth while the stream is active.
type IncomeStream struct {
	StreamID             string              `yaml:"stream_id" json:"stream_id"`
	Type                 IncomeStreamType    `yaml:"type" json:"type"`
	OwnerPersonID        string              `yaml:"owner_person_id" json:"owner_person_id"`
	StartMonth           timeline.YearMonth  `yaml:"start_month" json:"start_month"`
	EndMonth             *timeline.YearMonth `yaml:"end_month,omitempty" json:"end_month,omitempty"`
	MonthlyAmountAtStart decimal.Decimal     `yaml:"monthly_amount_at_start" json:"monthly_amount_at_start"`
	ColaPercentAnnual    decimal.Decimal     `yaml:"cola_percent_annual" json:"cola_percent_annual"`
	ColaMonth            int                 `yaml:"cola_month" json:"cola_month"`
}

// UnmarshalYAML decodes a stream with cola_month defaulting to January.
func (s *IncomeStream) UnmarshalYAML(value *yaml.Node) error {
	type rawStream IncomeStream
	raw := rawStream{ColaMonth: 1}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = IncomeStream(raw)
	return nil
}

// ActiveIn reports whether the stream pays out in the given month. The end
// month, when set, is inclusive.
func (s *IncomeStream) ActiveIn(ym timeline.YearMonth) bool {
	if ym.Before(s.StartMonth) {
		return false
	}
	if s.EndMonth != nil && ym.After(*s.EndMonth) {
		return false
	}
	return true
}

// InvestmentAccount is a retirement or investment account with fixed
// monthly contributions and withdrawals inside optional date windows.
// Withdrawals are positive numbers that reduce the balance and count as
// cashflow to the household.
type InvestmentAccount struct {
	AccountID              string              `yaml:"account_id" json:"account_id"`
	Name                   string              `yaml:"name" json:"name"`
	TaxBucket              TaxBucket           `yaml:"tax_bucket" json:"tax_bucket"`
	StartingBalance        decimal.Decimal     `yaml:"starting_balance" json:"starting_balance"`
	AnnualReturnRate       decimal.Decimal     `yaml:"annual_return_rate" json:"annual_return_rate"`
	MonthlyContribution    decimal.Decimal     `yaml:"monthly_contribution" json:"monthly_contribution"`
	ContributionStartMonth *timeline.YearMonth `yaml:"contribution_start_month,omitempty" json:"contribution_start_month,omitempty"`
	ContributionEndMonth   *timeline.YearMonth `yaml:"contribution_end_month,omitempty" json:"contribution_end_month,omitempty"`
	MonthlyWithdrawal      decimal.Decimal     `yaml:"monthly_withdrawal" json:"monthly_withdrawal"`
	WithdrawalStartMonth   *timeline.YearMonth `yaml:"withdrawal_start_month,omitempty" json:"withdrawal_start_month,omitempty"`
	WithdrawalEndMonth     *timeline.YearMonth `yaml:"withdrawal_end_month,omitempty" json:"withdrawal_end_month,omitempty"`
	ReceivesSurplus        bool                `yaml:"receives_surplus" json:"receives_surplus"`
}

// MonthlyReturnRate derives the monthly growth rate as AnnualReturnRate/12.
func (a *InvestmentAccount) MonthlyReturnRate() decimal.Decimal {
	return a.AnnualReturnRate.Div(decimal.NewFromInt(12))
}

func inWindow(ym timeline.YearMonth, start, end *timeline.YearMonth) bool {
	if start != nil && ym.Before(*start) {
		return false
	}
	if end != nil && ym.After(*end) {
		return false
	}
	return true
}

// ContributesIn reports whether the contribution window covers ym.
func (a *InvestmentAccount) ContributesIn(ym timeline.YearMonth) bool {
	return inWindow(ym, a.ContributionStartMonth, a.ContributionEndMonth)
}

// WithdrawsIn reports whether the withdrawal window covers ym.
func (a *InvestmentAccount) WithdrawsIn(ym timeline.YearMonth) bool {
	return inWindow(ym, a.WithdrawalStartMonth, a.WithdrawalEndMonth)
}

// BudgetCategory is a single spending category.
type BudgetCategory struct {
	CategoryName  string              `yaml:"category_name" json:"category_name"`
	CategoryType  CategoryType        `yaml:"category_type" json:"category_type"`
	MonthlyAmount decimal.Decimal     `yaml:"monthly_amount" json:"monthly_amount"`
	Include       bool                `yaml:"include" json:"include"`
	EndMonth      *timeline.YearMonth `yaml:"end_month,omitempty" json:"end_month,omitempty"`
}

// UnmarshalYAML decodes a category with include defaulting to true.
func (c *BudgetCategory) UnmarshalYAML(value *yaml.Node) error {
	type rawCategory BudgetCategory
	raw := rawCategory{Include: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = BudgetCategory(raw)
	return nil
}

// BudgetSettings holds the category list plus inflation and survivor
// reduction policy.
type BudgetSettings struct {
	Categories                       []BudgetCategory      `yaml:"categories" json:"categories"`
	InflationAnnualPercent           decimal.Decimal       `yaml:"inflation_annual_percent" json:"inflation_annual_percent"`
	SurvivorFlexibleReductionPercent decimal.Decimal       `yaml:"survivor_flexible_reduction_percent" json:"survivor_flexible_reduction_percent"`
	SurvivorReductionMode            SurvivorReductionMode `yaml:"survivor_reduction_mode" json:"survivor_reduction_mode"`
}

// TotalMonthlySpending sums included category amounts at their starting
// values (no inflation applied).
func (b *BudgetSettings) TotalMonthlySpending() decimal.Decimal {
	total := decimal.Zero
	for _, cat := range b.Categories {
		if cat.Include {
			total = total.Add(cat.MonthlyAmount)
		}
	}
	return total
}

// TaxSettings selects filing status and the tax-year ruleset.
type TaxSettings struct {
	FilingStatus              FilingStatus     `yaml:"filing_status" json:"filing_status"`
	StandardDeductionOverride *decimal.Decimal `yaml:"standard_deduction_override,omitempty" json:"standard_deduction_override,omitempty"`
	TaxYearRuleset            int              `yaml:"tax_year_ruleset" json:"tax_year_ruleset"`
}

// GlobalSettings holds the projection window and residence state.
type GlobalSettings struct {
	ProjectionStartMonth timeline.YearMonth `yaml:"projection_start_month" json:"projection_start_month"`
	ProjectionEndYear    int                `yaml:"projection_end_year" json:"projection_end_year"`
	ResidenceState       string             `yaml:"residence_state" json:"residence_state"`
}

// Scenario is the aggregate root: everything needed for one projection run.
type Scenario struct {
	ScenarioID     string              `yaml:"scenario_id" json:"scenario_id"`
	ScenarioName   string              `yaml:"scenario_name" json:"scenario_name"`
	Description    string              `yaml:"description,omitempty" json:"description,omitempty"`
	GlobalSettings GlobalSettings      `yaml:"global_settings" json:"global_settings"`
	People         []Person            `yaml:"people" json:"people"`
	IncomeStreams  []IncomeStream      `yaml:"income_streams" json:"income_streams"`
	Accounts       []InvestmentAccount `yaml:"accounts" json:"accounts"`
	BudgetSettings BudgetSettings      `yaml:"budget_settings" json:"budget_settings"`
	TaxSettings    TaxSettings         `yaml:"tax_settings" json:"tax_settings"`
}

// SurplusAccount returns the single account flagged to receive monthly
// surplus, or nil when none is flagged. With multiple flagged accounts the
// first wins; validation rejects that configuration before a run.
func (s *Scenario) SurplusAccount() *InvestmentAccount {
	for i := range s.Accounts {
		if s.Accounts[i].ReceivesSurplus {
			return &s.Accounts[i]
		}
	}
	return nil
}

// PersonByID looks up a person by identifier.
func (s *Scenario) PersonByID(id string) (*Person, error) {
	for i := range s.People {
		if s.People[i].PersonID == id {
			return &s.People[i], nil
		}
	}
	return nil, fmt.Errorf("person %q not found", id)
}

// EarliestDeathMonth returns the earliest computed death month across the
// scenario's people, or false when no person has a life expectancy.
func (s *Scenario) EarliestDeathMonth() (timeline.YearMonth, bool) {
	var earliest timeline.YearMonth
	found := false
	for i := range s.People {
		death, ok := s.People[i].DeathYearMonth()
		if !ok {
			continue
		}
		if !found || death.Before(earliest) {
			earliest = death
			found = true
		}
	}
	return earliest, found
}
