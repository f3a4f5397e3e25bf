package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

func TestStreamAmountColaCompounding(t *testing.T) {
	ic := NewIncomeCalculator(nil)
	stream := &domain.IncomeStream{
		StreamID:             "pension",
		Type:                 domain.StreamPension,
		StartMonth:           timeline.MustParse("2026-01"),
		MonthlyAmountAtStart: decimal.NewFromInt(5000),
		ColaPercentAnnual:    decimal.RequireFromString("0.02"),
		ColaMonth:            1,
	}

	// The start year pays the base amount even though it begins in the
	// COLA month.
	for _, m := range []string{"2026-01", "2026-06", "2026-12"} {
		got := ic.StreamAmountForMonth(stream, timeline.MustParse(m))
		assert.True(t, got.Equal(decimal.NewFromInt(5000)), "%s got %s", m, got)
	}

	// First bump in January of the following year.
	got := ic.StreamAmountForMonth(stream, timeline.MustParse("2027-01"))
	assert.True(t, got.Equal(decimal.NewFromInt(5100)), "got %s", got)

	got = ic.StreamAmountForMonth(stream, timeline.MustParse("2027-12"))
	assert.True(t, got.Equal(decimal.NewFromInt(5100)), "got %s", got)

	// Second bump compounds.
	got = ic.StreamAmountForMonth(stream, timeline.MustParse("2028-03"))
	assert.True(t, got.Equal(decimal.NewFromInt(5202)), "got %s", got)
}

func TestStreamAmountColaMidYear(t *testing.T) {
	ic := NewIncomeCalculator(nil)
	stream := &domain.IncomeStream{
		StreamID:             "ssa",
		Type:                 domain.StreamSocialSecurity,
		StartMonth:           timeline.MustParse("2026-03"),
		MonthlyAmountAtStart: decimal.NewFromInt(2000),
		ColaPercentAnnual:    decimal.RequireFromString("0.01"),
		ColaMonth:            7,
	}

	assert.True(t, ic.StreamAmountForMonth(stream, timeline.MustParse("2026-06")).
		Equal(decimal.NewFromInt(2000)))
	assert.True(t, ic.StreamAmountForMonth(stream, timeline.MustParse("2026-07")).
		Equal(decimal.NewFromInt(2020)))
	assert.True(t, ic.StreamAmountForMonth(stream, timeline.MustParse("2027-06")).
		Equal(decimal.NewFromInt(2020)))
}

func TestStreamAmountInactive(t *testing.T) {
	ic := NewIncomeCalculator(nil)
	end := timeline.MustParse("2027-06")
	stream := &domain.IncomeStream{
		StreamID:             "salary",
		Type:                 domain.StreamSalary,
		StartMonth:           timeline.MustParse("2026-01"),
		EndMonth:             &end,
		MonthlyAmountAtStart: decimal.NewFromInt(8000),
		ColaMonth:            1,
	}

	assert.True(t, ic.StreamAmountForMonth(stream, timeline.MustParse("2025-12")).IsZero())
	assert.True(t, ic.StreamAmountForMonth(stream, timeline.MustParse("2027-06")).IsPositive())
	assert.True(t, ic.StreamAmountForMonth(stream, timeline.MustParse("2027-07")).IsZero())
}

func TestIncomeForMonthContinuesAfterOwnerDeath(t *testing.T) {
	ic := NewIncomeCalculator(nil)
	life := 85
	scenario := &domain.Scenario{
		People: []domain.Person{{
			PersonID:            "alice",
			BirthDate:           time.Date(1960, time.June, 1, 0, 0, 0, 0, time.UTC),
			LifeExpectancyYears: &life,
		}},
		IncomeStreams: []domain.IncomeStream{{
			StreamID:             "pension",
			Type:                 domain.StreamPension,
			OwnerPersonID:        "alice",
			StartMonth:           timeline.MustParse("2026-01"),
			MonthlyAmountAtStart: decimal.NewFromInt(3000),
			ColaMonth:            1,
		}},
	}

	// alice's death month is 2045-06. The stream has no end month, so it
	// keeps paying; only filing status and budget react to the death.
	byStream, total := ic.IncomeForMonth(scenario, timeline.MustParse("2045-06"))
	assert.True(t, byStream["pension"].Equal(decimal.NewFromInt(3000)))
	assert.True(t, total.Equal(decimal.NewFromInt(3000)))

	byStream, total = ic.IncomeForMonth(scenario, timeline.MustParse("2045-07"))
	assert.True(t, byStream["pension"].Equal(decimal.NewFromInt(3000)))
	assert.True(t, total.Equal(decimal.NewFromInt(3000)))
}
