package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// IncomeCalculator produces per-month gross income for every stream in a
// scenario. Amounts are derived statelessly from the month, so any month
// can be computed independently of the others.
type IncomeCalculator struct {
	Logger Logger
}

// NewIncomeCalculator creates a new income calculator
func NewIncomeCalculator(logger Logger) *IncomeCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &IncomeCalculator{Logger: logger}
}

// colaApplications counts how many COLA bumps have taken effect by ym.
// The first bump lands on the first occurrence of the stream's COLA month
// strictly after the start month; a stream starting in its own COLA month
// pays the base amount for that first month.
func colaApplications(stream *domain.IncomeStream, ym timeline.YearMonth) int {
	first := timeline.YearMonth{Year: stream.StartMonth.Year, Month: stream.ColaMonth}
	if !first.After(stream.StartMonth) {
		first = timeline.YearMonth{Year: stream.StartMonth.Year + 1, Month: stream.ColaMonth}
	}
	if ym.Before(first) {
		return 0
	}
	return (ym.Index()-first.Index())/12 + 1
}

// StreamAmountForMonth returns the stream's gross payment in ym, zero when
// the stream is inactive.
func (ic *IncomeCalculator) StreamAmountForMonth(stream *domain.IncomeStream, ym timeline.YearMonth) decimal.Decimal {
	if !stream.ActiveIn(ym) {
		return decimal.Zero
	}
	k := colaApplications(stream, ym)
	if k == 0 || stream.ColaPercentAnnual.IsZero() {
		return stream.MonthlyAmountAtStart
	}
	factor := decimal.NewFromInt(1).Add(stream.ColaPercentAnnual).Pow(decimal.NewFromInt(int64(k)))
	return stream.MonthlyAmountAtStart.Mul(factor)
}

// IncomeForMonth returns every stream's payment for ym keyed by stream ID,
// plus the total. A stream pays through its own window regardless of the
// owner's projected death; death affects only filing status and budget.
func (ic *IncomeCalculator) IncomeForMonth(scenario *domain.Scenario, ym timeline.YearMonth) (map[string]decimal.Decimal, decimal.Decimal) {
	byStream := make(map[string]decimal.Decimal, len(scenario.IncomeStreams))
	total := decimal.Zero

	for i := range scenario.IncomeStreams {
		stream := &scenario.IncomeStreams[i]
		amount := ic.StreamAmountForMonth(stream, ym)
		byStream[stream.StreamID] = amount
		total = total.Add(amount)
	}

	return byStream, total
}
