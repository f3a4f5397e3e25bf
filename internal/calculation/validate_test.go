package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

func TestValidateScenarioValid(t *testing.T) {
	scenario := engineScenario()
	scenario.Accounts[0].ReceivesSurplus = true

	result := ValidateScenario(scenario)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateScenarioCollectsAllErrors(t *testing.T) {
	scenario := engineScenario()
	scenario.ScenarioID = ""
	scenario.GlobalSettings.ResidenceState = "Penn"
	scenario.IncomeStreams[0].ColaMonth = 0
	scenario.TaxSettings.TaxYearRuleset = 1999

	result := ValidateScenario(scenario)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 4)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "scenario_id")
	assert.Contains(t, fields, "global_settings.residence_state")
	assert.Contains(t, fields, "income_streams[0].cola_month")
	assert.Contains(t, fields, "tax_settings.tax_year_ruleset")
}

func TestValidateScenarioWarnings(t *testing.T) {
	scenario := engineScenario()
	scenario.GlobalSettings.ResidenceState = "VA"

	result := ValidateScenario(scenario)
	assert.True(t, result.Valid, "warnings alone must not invalidate")
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "VA")
	assert.Contains(t, result.Warnings[1], "surplus")
}

func TestValidateScenarioZeroPeopleWarns(t *testing.T) {
	scenario := engineScenario()
	scenario.Accounts[0].ReceivesSurplus = true
	scenario.People = nil
	scenario.IncomeStreams[0].OwnerPersonID = ""

	// An empty household still runs; it is advisory only.
	result := ValidateScenario(scenario)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no people")
}

func TestValidateScenarioStreamOutsideWindowWarns(t *testing.T) {
	scenario := engineScenario()
	scenario.Accounts[0].ReceivesSurplus = true

	// Starts after the projection ends.
	scenario.IncomeStreams[0].StartMonth = timeline.MustParse("2060-01")
	result := ValidateScenario(scenario)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "never overlaps")

	// Ends before the projection starts.
	end := timeline.MustParse("2020-12")
	scenario.IncomeStreams[0].StartMonth = timeline.MustParse("2020-01")
	scenario.IncomeStreams[0].EndMonth = &end
	result = ValidateScenario(scenario)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "never overlaps")
}

func TestValidateScenarioEmptyListsWarn(t *testing.T) {
	scenario := engineScenario()
	scenario.IncomeStreams = nil

	// Accounts alone are enough to say something meaningful happens.
	result := ValidateScenario(scenario)
	for _, w := range result.Warnings {
		assert.NotContains(t, w, "no income streams")
	}

	scenario.Accounts = nil
	result = ValidateScenario(scenario)
	assert.True(t, result.Valid)
	assert.Contains(t, result.Warnings, "scenario has no income streams and no accounts")
}

func TestValidateScenarioMultipleSurplusAccounts(t *testing.T) {
	scenario := engineScenario()
	scenario.Accounts[0].ReceivesSurplus = true
	second := scenario.Accounts[0]
	second.AccountID = "second"
	scenario.Accounts = append(scenario.Accounts, second)

	result := ValidateScenario(scenario)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "accounts", result.Errors[0].Field)
}

func TestValidateScenarioUnknownEnums(t *testing.T) {
	scenario := engineScenario()
	scenario.IncomeStreams[0].Type = "lottery"
	scenario.Accounts[0].TaxBucket = "offshore"
	scenario.TaxSettings.FilingStatus = "quintuple"
	scenario.BudgetSettings.SurvivorReductionMode = "sometimes"

	result := ValidateScenario(scenario)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 4)
}

func TestValidateScenarioDuplicateIDs(t *testing.T) {
	scenario := engineScenario()
	scenario.People = append(scenario.People, scenario.People[0])
	scenario.IncomeStreams = append(scenario.IncomeStreams, scenario.IncomeStreams[0])

	result := ValidateScenario(scenario)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Field, "people[1]")
	assert.Contains(t, result.Errors[1].Field, "income_streams[1]")
}

func TestValidateScenarioEmpty(t *testing.T) {
	result := ValidateScenario(&domain.Scenario{})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}
