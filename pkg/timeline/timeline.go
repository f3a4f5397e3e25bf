// Package timeline provides the YearMonth value type and month arithmetic
// used throughout the projection engine. All projection state is keyed by
// calendar months in "YYYY-MM" form.
package timeline

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YearMonth identifies a single calendar month.
type YearMonth struct {
	Year  int
	Month int // 1 = January, 12 = December
}

// Parse parses a "YYYY-MM" string into a YearMonth.
func Parse(s string) (YearMonth, error) {
	var ym YearMonth
	if _, err := fmt.Sscanf(s, "%4d-%2d", &ym.Year, &ym.Month); err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: expected YYYY-MM", s)
	}
	if len(s) != 7 || s[4] != '-' {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: expected YYYY-MM", s)
	}
	if ym.Month < 1 || ym.Month > 12 {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: month must be 01-12", s)
	}
	if ym.Year < 1900 || ym.Year > 2200 {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: year out of range", s)
	}
	return ym, nil
}

// MustParse is Parse for test fixtures and compiled-in constants.
func MustParse(s string) YearMonth {
	ym, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ym
}

// String renders the month in YYYY-MM form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// IsZero reports whether ym is the zero value (no month set).
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Index returns the absolute month index (year*12 + month-1), which makes
// ordering and distance computations plain integer arithmetic.
func (ym YearMonth) Index() int {
	return ym.Year*12 + ym.Month - 1
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Index() < other.Index()
}

// After reports whether ym is strictly later than other.
func (ym YearMonth) After(other YearMonth) bool {
	return ym.Index() > other.Index()
}

// AddMonths returns the month n months after ym (n may be negative).
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Index() + n
	return YearMonth{Year: idx / 12, Month: idx%12 + 1}
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return ym.AddMonths(1)
}

// MonthsBetween returns the inclusive month count from start to end.
func MonthsBetween(start, end YearMonth) int {
	return end.Index() - start.Index() + 1
}

// MarshalJSON encodes the month as a "YYYY-MM" string.
func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

// UnmarshalJSON decodes a "YYYY-MM" string.
func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// MarshalYAML encodes the month as a "YYYY-MM" string.
func (ym YearMonth) MarshalYAML() (interface{}, error) {
	return ym.String(), nil
}

// UnmarshalYAML decodes a "YYYY-MM" scalar.
func (ym *YearMonth) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// Timeline iterates the months of a projection run: from a start month
// through December of the end year, inclusive.
type Timeline struct {
	Start   YearMonth
	EndYear int
}

// New creates a timeline from a start month and an inclusive end year.
func New(start YearMonth, endYear int) Timeline {
	return Timeline{Start: start, EndYear: endYear}
}

// End returns the final month of the timeline (December of the end year).
func (t Timeline) End() YearMonth {
	return YearMonth{Year: t.EndYear, Month: 12}
}

// TotalMonths returns the number of months the timeline spans.
func (t Timeline) TotalMonths() int {
	n := MonthsBetween(t.Start, t.End())
	if n < 0 {
		return 0
	}
	return n
}

// Months materializes every month in the timeline in order.
func (t Timeline) Months() []YearMonth {
	n := t.TotalMonths()
	months := make([]YearMonth, 0, n)
	for ym := t.Start; !ym.After(t.End()); ym = ym.Next() {
		months = append(months, ym)
	}
	return months
}
