package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// ValidateScenario checks a scenario without running it, collecting every
// problem instead of stopping at the first. Errors block a run; warnings
// flag configurations that run but probably surprise the user.
func ValidateScenario(scenario *domain.Scenario) *domain.ValidationResult {
	result := &domain.ValidationResult{}

	addError := func(field, format string, args ...any) {
		result.Errors = append(result.Errors, domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}
	addWarning := func(format string, args ...any) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
	}

	if scenario.ScenarioID == "" {
		addError("scenario_id", "scenario_id is required")
	}

	gs := &scenario.GlobalSettings
	if gs.ProjectionStartMonth.IsZero() {
		addError("global_settings.projection_start_month", "projection_start_month is required")
	} else if gs.ProjectionEndYear < gs.ProjectionStartMonth.Year {
		addError("global_settings.projection_end_year",
			"projection_end_year %d is before start year %d", gs.ProjectionEndYear, gs.ProjectionStartMonth.Year)
	}
	if len(gs.ResidenceState) != 2 {
		addError("global_settings.residence_state", "residence_state must be a two-letter code, got %q", gs.ResidenceState)
	} else if !StateSupported(gs.ResidenceState) {
		addWarning("no state tax rule for %s, state tax will be zero", gs.ResidenceState)
	}

	if len(scenario.People) == 0 {
		addWarning("scenario has no people")
	}
	peopleByID := make(map[string]bool, len(scenario.People))
	for i := range scenario.People {
		person := &scenario.People[i]
		field := fmt.Sprintf("people[%d]", i)
		if person.PersonID == "" {
			addError(field+".person_id", "person_id is required")
			continue
		}
		if peopleByID[person.PersonID] {
			addError(field+".person_id", "duplicate person_id %q", person.PersonID)
		}
		peopleByID[person.PersonID] = true
		if person.BirthDate.IsZero() {
			addError(field+".birth_date", "birth date is required")
		}
		if person.LifeExpectancyYears != nil {
			if *person.LifeExpectancyYears <= 0 {
				addError(field+".life_expectancy_years", "life expectancy must be positive")
			} else if death, ok := person.DeathYearMonth(); ok && !gs.ProjectionStartMonth.IsZero() &&
				death.Before(gs.ProjectionStartMonth) {
				addWarning("person %s dies before the projection starts", person.PersonID)
			}
		}
	}

	streamsByID := make(map[string]bool, len(scenario.IncomeStreams))
	for i := range scenario.IncomeStreams {
		stream := &scenario.IncomeStreams[i]
		field := fmt.Sprintf("income_streams[%d]", i)
		if stream.StreamID == "" {
			addError(field+".stream_id", "stream_id is required")
		} else if streamsByID[stream.StreamID] {
			addError(field+".stream_id", "duplicate stream_id %q", stream.StreamID)
		} else {
			streamsByID[stream.StreamID] = true
		}
		switch stream.Type {
		case domain.StreamPension, domain.StreamSocialSecurity, domain.StreamSalary,
			domain.StreamSelfEmployment, domain.StreamOther:
		default:
			addError(field+".type", "unknown stream type %q", stream.Type)
		}
		if stream.OwnerPersonID != "" && !peopleByID[stream.OwnerPersonID] {
			addError(field+".owner_person_id", "owner_person_id %q does not match any person", stream.OwnerPersonID)
		}
		if stream.StartMonth.IsZero() {
			addError(field+".start_month", "start_month is required")
		}
		if stream.EndMonth != nil && !stream.StartMonth.IsZero() && stream.EndMonth.Before(stream.StartMonth) {
			addError(field+".end_month", "end_month %s is before start_month %s", stream.EndMonth, stream.StartMonth)
		}
		if stream.MonthlyAmountAtStart.IsNegative() {
			addError(field+".monthly_amount_at_start", "monthly_amount_at_start cannot be negative")
		}
		if stream.ColaPercentAnnual.IsNegative() {
			addError(field+".cola_percent_annual", "cola_percent_annual cannot be negative")
		}
		if stream.ColaMonth < 1 || stream.ColaMonth > 12 {
			addError(field+".cola_month", "cola_month must be between 1 and 12, got %d", stream.ColaMonth)
		}
		if !stream.StartMonth.IsZero() && !gs.ProjectionStartMonth.IsZero() {
			endOfRun := timeline.YearMonth{Year: gs.ProjectionEndYear, Month: 12}
			if stream.StartMonth.After(endOfRun) ||
				(stream.EndMonth != nil && stream.EndMonth.Before(gs.ProjectionStartMonth)) {
				addWarning("stream %s never overlaps the projection window", stream.StreamID)
			}
		}
	}

	accountsByID := make(map[string]bool, len(scenario.Accounts))
	surplusFlags := 0
	for i := range scenario.Accounts {
		account := &scenario.Accounts[i]
		field := fmt.Sprintf("accounts[%d]", i)
		if account.AccountID == "" {
			addError(field+".account_id", "account_id is required")
		} else if accountsByID[account.AccountID] {
			addError(field+".account_id", "duplicate account_id %q", account.AccountID)
		} else {
			accountsByID[account.AccountID] = true
		}
		switch account.TaxBucket {
		case domain.BucketTaxable, domain.BucketTaxDeferred, domain.BucketRoth:
		default:
			addError(field+".tax_bucket", "unknown tax bucket %q", account.TaxBucket)
		}
		if account.StartingBalance.IsNegative() {
			addError(field+".starting_balance", "starting_balance cannot be negative")
		}
		if account.MonthlyContribution.IsNegative() {
			addError(field+".monthly_contribution", "monthly_contribution cannot be negative")
		}
		if account.MonthlyWithdrawal.IsNegative() {
			addError(field+".monthly_withdrawal", "monthly_withdrawal cannot be negative")
		}
		if account.ContributionStartMonth != nil && account.ContributionEndMonth != nil &&
			account.ContributionEndMonth.Before(*account.ContributionStartMonth) {
			addError(field+".contribution_end_month", "contribution window ends before it starts")
		}
		if account.WithdrawalStartMonth != nil && account.WithdrawalEndMonth != nil &&
			account.WithdrawalEndMonth.Before(*account.WithdrawalStartMonth) {
			addError(field+".withdrawal_end_month", "withdrawal window ends before it starts")
		}
		if account.ReceivesSurplus {
			surplusFlags++
		}
	}
	if surplusFlags > 1 {
		addError("accounts", "only one account may set receives_surplus, got %d", surplusFlags)
	}
	if surplusFlags == 0 && len(scenario.Accounts) > 0 {
		addWarning("no account receives monthly surplus; surplus and deficit accumulate outside the accounts")
	}

	budget := &scenario.BudgetSettings
	for i := range budget.Categories {
		cat := &budget.Categories[i]
		field := fmt.Sprintf("budget_settings.categories[%d]", i)
		if cat.CategoryName == "" {
			addError(field+".category_name", "category_name is required")
		}
		switch cat.CategoryType {
		case domain.CategoryFixed, domain.CategoryFlexible:
		default:
			addError(field+".category_type", "unknown category type %q", cat.CategoryType)
		}
		if cat.MonthlyAmount.IsNegative() {
			addError(field+".monthly_amount", "monthly_amount cannot be negative")
		}
	}
	if budget.InflationAnnualPercent.IsNegative() {
		addError("budget_settings.inflation_annual_percent", "inflation_annual_percent cannot be negative")
	}
	one := decimal.NewFromInt(1)
	if budget.SurvivorFlexibleReductionPercent.IsNegative() ||
		budget.SurvivorFlexibleReductionPercent.GreaterThan(one) {
		addError("budget_settings.survivor_flexible_reduction_percent",
			"survivor_flexible_reduction_percent must be between 0 and 1")
	}
	switch budget.SurvivorReductionMode {
	case domain.ReduceFlexOnly, domain.ReduceAll, "":
	default:
		addError("budget_settings.survivor_reduction_mode",
			"unknown survivor_reduction_mode %q", budget.SurvivorReductionMode)
	}

	tax := &scenario.TaxSettings
	switch tax.FilingStatus {
	case domain.FilingSingle, domain.FilingMarriedFilingJointly,
		domain.FilingMarriedFilingSeparately, domain.FilingHeadOfHousehold:
	default:
		addError("tax_settings.filing_status", "unknown filing status %q", tax.FilingStatus)
	}
	if tax.StandardDeductionOverride != nil && tax.StandardDeductionOverride.IsNegative() {
		addError("tax_settings.standard_deduction_override", "standard_deduction_override cannot be negative")
	}
	if _, ok := federalRulesets[tax.TaxYearRuleset]; !ok {
		addError("tax_settings.tax_year_ruleset", "no federal tax rules for year %d", tax.TaxYearRuleset)
	}

	if len(scenario.IncomeStreams) == 0 && len(scenario.Accounts) == 0 {
		addWarning("scenario has no income streams and no accounts")
	}

	result.Valid = len(result.Errors) == 0
	return result
}
