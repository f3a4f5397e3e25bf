// Package config loads and structurally validates scenario files.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/retirement-projector/internal/domain"
)

// InputParser handles parsing of scenario input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses and validates scenario YAML
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Scenario, error) {
	var scenario domain.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	return &scenario, nil
}

// ValidateScenario checks the structural integrity of a loaded scenario.
// Semantic warnings (no surplus account, unsupported state) are handled by
// the calculation package; everything here is a hard error.
func (ip *InputParser) ValidateScenario(scenario *domain.Scenario) error {
	if scenario.ScenarioID == "" {
		return fmt.Errorf("scenario_id is required")
	}

	if err := ip.validateGlobalSettings(&scenario.GlobalSettings); err != nil {
		return fmt.Errorf("global settings validation failed: %w", err)
	}

	seenPeople := make(map[string]bool, len(scenario.People))
	for i := range scenario.People {
		person := &scenario.People[i]
		if err := ip.validatePerson(person); err != nil {
			return fmt.Errorf("person %d validation failed: %w", i, err)
		}
		if seenPeople[person.PersonID] {
			return fmt.Errorf("duplicate person_id %q", person.PersonID)
		}
		seenPeople[person.PersonID] = true
	}

	seenStreams := make(map[string]bool, len(scenario.IncomeStreams))
	for i := range scenario.IncomeStreams {
		stream := &scenario.IncomeStreams[i]
		if err := ip.validateIncomeStream(stream, seenPeople); err != nil {
			return fmt.Errorf("income stream %d validation failed: %w", i, err)
		}
		if seenStreams[stream.StreamID] {
			return fmt.Errorf("duplicate stream_id %q", stream.StreamID)
		}
		seenStreams[stream.StreamID] = true
	}

	seenAccounts := make(map[string]bool, len(scenario.Accounts))
	surplusFlags := 0
	for i := range scenario.Accounts {
		account := &scenario.Accounts[i]
		if err := ip.validateAccount(account); err != nil {
			return fmt.Errorf("account %d validation failed: %w", i, err)
		}
		if seenAccounts[account.AccountID] {
			return fmt.Errorf("duplicate account_id %q", account.AccountID)
		}
		seenAccounts[account.AccountID] = true
		if account.ReceivesSurplus {
			surplusFlags++
		}
	}
	if surplusFlags > 1 {
		return fmt.Errorf("only one account may set receives_surplus, got %d", surplusFlags)
	}

	if err := ip.validateBudgetSettings(&scenario.BudgetSettings); err != nil {
		return fmt.Errorf("budget settings validation failed: %w", err)
	}

	if err := ip.validateTaxSettings(&scenario.TaxSettings); err != nil {
		return fmt.Errorf("tax settings validation failed: %w", err)
	}

	return nil
}

func (ip *InputParser) validateGlobalSettings(gs *domain.GlobalSettings) error {
	if gs.ProjectionStartMonth.IsZero() {
		return fmt.Errorf("projection_start_month is required")
	}
	if gs.ProjectionEndYear < gs.ProjectionStartMonth.Year {
		return fmt.Errorf("projection_end_year %d is before start year %d",
			gs.ProjectionEndYear, gs.ProjectionStartMonth.Year)
	}
	if len(gs.ResidenceState) != 2 {
		return fmt.Errorf("residence_state must be a two-letter code, got %q", gs.ResidenceState)
	}
	return nil
}

func (ip *InputParser) validatePerson(person *domain.Person) error {
	if person.PersonID == "" {
		return fmt.Errorf("person_id is required")
	}
	if person.BirthDate.IsZero() {
		return fmt.Errorf("birth date is required")
	}
	if person.LifeExpectancyYears != nil && *person.LifeExpectancyYears <= 0 {
		return fmt.Errorf("life expectancy must be positive")
	}
	return nil
}

func (ip *InputParser) validateIncomeStream(stream *domain.IncomeStream, people map[string]bool) error {
	if stream.StreamID == "" {
		return fmt.Errorf("stream_id is required")
	}
	switch stream.Type {
	case domain.StreamPension, domain.StreamSocialSecurity, domain.StreamSalary,
		domain.StreamSelfEmployment, domain.StreamOther:
	default:
		return fmt.Errorf("unknown stream type %q", stream.Type)
	}
	if stream.OwnerPersonID != "" && !people[stream.OwnerPersonID] {
		return fmt.Errorf("owner_person_id %q does not match any person", stream.OwnerPersonID)
	}
	if stream.StartMonth.IsZero() {
		return fmt.Errorf("start_month is required")
	}
	if stream.EndMonth != nil && stream.EndMonth.Before(stream.StartMonth) {
		return fmt.Errorf("end_month %s is before start_month %s", stream.EndMonth, stream.StartMonth)
	}
	if stream.MonthlyAmountAtStart.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly_amount_at_start cannot be negative")
	}
	if stream.ColaPercentAnnual.LessThan(decimal.Zero) {
		return fmt.Errorf("cola_percent_annual cannot be negative")
	}
	if stream.ColaMonth < 1 || stream.ColaMonth > 12 {
		return fmt.Errorf("cola_month must be between 1 and 12, got %d", stream.ColaMonth)
	}
	return nil
}

func (ip *InputParser) validateAccount(account *domain.InvestmentAccount) error {
	if account.AccountID == "" {
		return fmt.Errorf("account_id is required")
	}
	switch account.TaxBucket {
	case domain.BucketTaxable, domain.BucketTaxDeferred, domain.BucketRoth:
	default:
		return fmt.Errorf("unknown tax bucket %q", account.TaxBucket)
	}
	if account.StartingBalance.LessThan(decimal.Zero) {
		return fmt.Errorf("starting_balance cannot be negative")
	}
	if account.MonthlyContribution.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly_contribution cannot be negative")
	}
	if account.MonthlyWithdrawal.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly_withdrawal cannot be negative")
	}
	if account.ContributionStartMonth != nil && account.ContributionEndMonth != nil &&
		account.ContributionEndMonth.Before(*account.ContributionStartMonth) {
		return fmt.Errorf("contribution window ends before it starts")
	}
	if account.WithdrawalStartMonth != nil && account.WithdrawalEndMonth != nil &&
		account.WithdrawalEndMonth.Before(*account.WithdrawalStartMonth) {
		return fmt.Errorf("withdrawal window ends before it starts")
	}
	return nil
}

func (ip *InputParser) validateBudgetSettings(budget *domain.BudgetSettings) error {
	for i := range budget.Categories {
		cat := &budget.Categories[i]
		if cat.CategoryName == "" {
			return fmt.Errorf("category %d: category_name is required", i)
		}
		switch cat.CategoryType {
		case domain.CategoryFixed, domain.CategoryFlexible:
		default:
			return fmt.Errorf("category %q: unknown category type %q", cat.CategoryName, cat.CategoryType)
		}
		if cat.MonthlyAmount.LessThan(decimal.Zero) {
			return fmt.Errorf("category %q: monthly_amount cannot be negative", cat.CategoryName)
		}
	}
	if budget.InflationAnnualPercent.LessThan(decimal.Zero) {
		return fmt.Errorf("inflation_annual_percent cannot be negative")
	}
	one := decimal.NewFromInt(1)
	if budget.SurvivorFlexibleReductionPercent.LessThan(decimal.Zero) ||
		budget.SurvivorFlexibleReductionPercent.GreaterThan(one) {
		return fmt.Errorf("survivor_flexible_reduction_percent must be between 0 and 1")
	}
	switch budget.SurvivorReductionMode {
	case domain.ReduceFlexOnly, domain.ReduceAll, "":
	default:
		return fmt.Errorf("unknown survivor_reduction_mode %q", budget.SurvivorReductionMode)
	}
	return nil
}

func (ip *InputParser) validateTaxSettings(tax *domain.TaxSettings) error {
	switch tax.FilingStatus {
	case domain.FilingSingle, domain.FilingMarriedFilingJointly,
		domain.FilingMarriedFilingSeparately, domain.FilingHeadOfHousehold:
	default:
		return fmt.Errorf("unknown filing status %q", tax.FilingStatus)
	}
	if tax.StandardDeductionOverride != nil && tax.StandardDeductionOverride.LessThan(decimal.Zero) {
		return fmt.Errorf("standard_deduction_override cannot be negative")
	}
	if tax.TaxYearRuleset == 0 {
		return fmt.Errorf("tax_year_ruleset is required")
	}
	return nil
}
