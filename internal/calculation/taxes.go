package calculation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
)

// FederalBracket is one rung of a progressive rate schedule. UpTo is the
// inclusive upper limit of the bracket; nil marks the top bracket.
type FederalBracket struct {
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

type federalRuleset struct {
	Brackets          map[domain.FilingStatus][]FederalBracket
	StandardDeduction map[domain.FilingStatus]decimal.Decimal
}

// ssaThresholds are the provisional-income breakpoints for Social Security
// taxation. They are fixed in statute and do not inflate with the ruleset
// year.
type ssaThresholds struct {
	Base decimal.Decimal
	Max  decimal.Decimal
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func rate(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func bracketTable(rates []string, limits []int64) []FederalBracket {
	brackets := make([]FederalBracket, len(rates))
	for i, r := range rates {
		brackets[i].Rate = rate(r)
		if i < len(limits) {
			limit := d(limits[i])
			brackets[i].UpTo = &limit
		}
	}
	return brackets
}

var federalRates = []string{"0.10", "0.12", "0.22", "0.24", "0.32", "0.35", "0.37"}

// federalRulesets holds the supported tax-year rule tables. Scenarios
// naming any other year fail with a ConfigurationError rather than
// silently approximating.
var federalRulesets = map[int]federalRuleset{
	2024: {
		Brackets: map[domain.FilingStatus][]FederalBracket{
			domain.FilingSingle:                  bracketTable(federalRates, []int64{11600, 47150, 100525, 191950, 243725, 609350}),
			domain.FilingMarriedFilingJointly:    bracketTable(federalRates, []int64{23200, 94300, 201050, 383900, 487450, 731200}),
			domain.FilingMarriedFilingSeparately: bracketTable(federalRates, []int64{11600, 47150, 100525, 191950, 243725, 365600}),
			domain.FilingHeadOfHousehold:         bracketTable(federalRates, []int64{16550, 63100, 100500, 191950, 243700, 609350}),
		},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:                  d(14600),
			domain.FilingMarriedFilingJointly:    d(29200),
			domain.FilingMarriedFilingSeparately: d(14600),
			domain.FilingHeadOfHousehold:         d(21900),
		},
	},
	2025: {
		Brackets: map[domain.FilingStatus][]FederalBracket{
			domain.FilingSingle:                  bracketTable(federalRates, []int64{11925, 48475, 103350, 197300, 250525, 626350}),
			domain.FilingMarriedFilingJointly:    bracketTable(federalRates, []int64{23850, 96950, 206700, 394600, 501050, 751600}),
			domain.FilingMarriedFilingSeparately: bracketTable(federalRates, []int64{11925, 48475, 103350, 197300, 250525, 375800}),
			domain.FilingHeadOfHousehold:         bracketTable(federalRates, []int64{17000, 64850, 103350, 197300, 250500, 626350}),
		},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:                  d(15000),
			domain.FilingMarriedFilingJointly:    d(30000),
			domain.FilingMarriedFilingSeparately: d(15000),
			domain.FilingHeadOfHousehold:         d(22500),
		},
	},
}

var ssaThresholdTable = map[domain.FilingStatus]ssaThresholds{
	domain.FilingSingle:                  {Base: d(25000), Max: d(34000)},
	domain.FilingMarriedFilingJointly:    {Base: d(32000), Max: d(44000)},
	domain.FilingMarriedFilingSeparately: {Base: d(0), Max: d(0)},
	domain.FilingHeadOfHousehold:         {Base: d(25000), Max: d(34000)},
}

// noIncomeTaxStates levy no individual income tax.
var noIncomeTaxStates = map[string]bool{
	"AK": true, "FL": true, "NV": true, "NH": true, "SD": true,
	"TN": true, "TX": true, "WA": true, "WY": true,
}

// flatStateRates approximates each supported state with a single flat rate
// on AGI.
var flatStateRates = map[string]decimal.Decimal{
	"AZ": rate("0.025"),
	"CA": rate("0.093"),
	"CO": rate("0.044"),
	"IL": rate("0.0495"),
	"IN": rate("0.0323"),
	"MA": rate("0.05"),
	"MI": rate("0.0425"),
	"NC": rate("0.0475"),
	"PA": rate("0.0307"),
	"UT": rate("0.0485"),
}

// StateSupported reports whether the engine carries a tax rule for the
// given two-letter state code.
func StateSupported(state string) bool {
	state = strings.ToUpper(state)
	if noIncomeTaxStates[state] {
		return true
	}
	_, ok := flatStateRates[state]
	return ok
}

// TaxCalculator computes annual federal and state taxes for a scenario's
// filing situation. The filing status passed per year may differ from the
// scenario's when a death changes the household's status.
type TaxCalculator struct {
	ResidenceState            string
	StandardDeductionOverride *decimal.Decimal
	RulesetYear               int
	Logger                    Logger
}

// NewTaxCalculator creates a tax calculator from scenario settings.
func NewTaxCalculator(scenario *domain.Scenario, logger Logger) *TaxCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &TaxCalculator{
		ResidenceState:            strings.ToUpper(scenario.GlobalSettings.ResidenceState),
		StandardDeductionOverride: scenario.TaxSettings.StandardDeductionOverride,
		RulesetYear:               scenario.TaxSettings.TaxYearRuleset,
		Logger:                    logger,
	}
}

// TaxableSocialSecurity returns the taxable portion of annual Social
// Security income under the three-tier provisional income rules: nothing
// below the base threshold, up to half between the thresholds, and up to
// 85% above the max threshold, capped at 85% of the benefit.
func TaxableSocialSecurity(ssaIncome, otherIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if !ssaIncome.IsPositive() {
		return decimal.Zero
	}
	thresholds, ok := ssaThresholdTable[status]
	if !ok {
		thresholds = ssaThresholdTable[domain.FilingSingle]
	}

	half := rate("0.5")
	provisional := otherIncome.Add(half.Mul(ssaIncome))

	if provisional.LessThanOrEqual(thresholds.Base) {
		return decimal.Zero
	}

	if provisional.LessThanOrEqual(thresholds.Max) {
		taxable := half.Mul(provisional.Sub(thresholds.Base))
		return decimal.Min(taxable, half.Mul(ssaIncome))
	}

	fiftyPortion := half.Mul(thresholds.Max.Sub(thresholds.Base))
	eightyFive := rate("0.85")
	taxable := fiftyPortion.Add(eightyFive.Mul(provisional.Sub(thresholds.Max)))
	return decimal.Min(taxable, eightyFive.Mul(ssaIncome))
}

// FederalTax applies the progressive bracket schedule for the ruleset year
// to taxable income.
func (tc *TaxCalculator) FederalTax(taxableIncome decimal.Decimal, status domain.FilingStatus) (decimal.Decimal, error) {
	ruleset, ok := federalRulesets[tc.RulesetYear]
	if !ok {
		return decimal.Zero, newConfigurationError("tax_year_ruleset",
			"no federal tax rules for year %d", tc.RulesetYear)
	}
	brackets, ok := ruleset.Brackets[status]
	if !ok {
		return decimal.Zero, newConfigurationError("filing_status",
			"no bracket schedule for filing status %q", status)
	}

	if !taxableIncome.IsPositive() {
		return decimal.Zero, nil
	}

	total := decimal.Zero
	previousLimit := decimal.Zero
	for _, bracket := range brackets {
		if taxableIncome.LessThanOrEqual(previousLimit) {
			break
		}
		var inBracket decimal.Decimal
		if bracket.UpTo == nil || taxableIncome.LessThanOrEqual(*bracket.UpTo) {
			inBracket = taxableIncome.Sub(previousLimit)
		} else {
			inBracket = bracket.UpTo.Sub(previousLimit)
		}
		total = total.Add(inBracket.Mul(bracket.Rate))
		if bracket.UpTo == nil {
			break
		}
		previousLimit = *bracket.UpTo
	}
	return total, nil
}

// StandardDeduction resolves the deduction for a filing status, honoring
// the scenario override.
func (tc *TaxCalculator) StandardDeduction(status domain.FilingStatus) (decimal.Decimal, error) {
	if tc.StandardDeductionOverride != nil {
		return *tc.StandardDeductionOverride, nil
	}
	ruleset, ok := federalRulesets[tc.RulesetYear]
	if !ok {
		return decimal.Zero, newConfigurationError("tax_year_ruleset",
			"no federal tax rules for year %d", tc.RulesetYear)
	}
	deduction, ok := ruleset.StandardDeduction[status]
	if !ok {
		return decimal.Zero, newConfigurationError("filing_status",
			"no standard deduction for filing status %q", status)
	}
	return deduction, nil
}

// StateTax computes state tax on AGI. No-income-tax states owe nothing;
// flat-rate states owe rate times AGI; states the engine has no rule for
// owe nothing, which validation surfaces as a warning.
func (tc *TaxCalculator) StateTax(agi decimal.Decimal) decimal.Decimal {
	if !agi.IsPositive() {
		return decimal.Zero
	}
	if noIncomeTaxStates[tc.ResidenceState] {
		return decimal.Zero
	}
	if flat, ok := flatStateRates[tc.ResidenceState]; ok {
		return agi.Mul(flat)
	}
	tc.Logger.Warnf("no state tax rule for %s, assuming zero", tc.ResidenceState)
	return decimal.Zero
}

// CalculateAnnualTaxes runs the full annual tax pass: Social Security
// taxation, AGI, standard deduction, federal brackets, and state tax. The
// caller supplies the year for the record and the filing status in effect
// that year.
func (tc *TaxCalculator) CalculateAnnualTaxes(year int, ssaIncome, otherIncome decimal.Decimal, status domain.FilingStatus) (domain.TaxSummary, error) {
	taxableSSA := TaxableSocialSecurity(ssaIncome, otherIncome, status)
	agi := otherIncome.Add(taxableSSA)

	deduction, err := tc.StandardDeduction(status)
	if err != nil {
		return domain.TaxSummary{}, err
	}

	taxableIncome := agi.Sub(deduction)
	if taxableIncome.IsNegative() {
		taxableIncome = decimal.Zero
	}

	federalTax, err := tc.FederalTax(taxableIncome, status)
	if err != nil {
		return domain.TaxSummary{}, err
	}
	stateTax := tc.StateTax(agi)
	totalTax := federalTax.Add(stateTax)

	effectiveRate := decimal.Zero
	if agi.IsPositive() {
		effectiveRate = totalTax.Div(agi)
	}
	if effectiveRate.IsNegative() || effectiveRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return domain.TaxSummary{}, newConfigurationError("effective_tax_rate",
			"computed rate %s for year %d is outside [0, 1)", effectiveRate, year)
	}

	return domain.TaxSummary{
		Year:                year,
		TotalSSAIncome:      ssaIncome,
		TaxableSSAIncome:    taxableSSA,
		OtherOrdinaryIncome: otherIncome,
		AGI:                 agi,
		StandardDeduction:   deduction,
		TaxableIncome:       taxableIncome,
		FederalTax:          federalTax,
		StateTax:            stateTax,
		TotalTax:            totalTax,
		EffectiveTaxRate:    effectiveRate,
	}, nil
}
