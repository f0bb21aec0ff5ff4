// Package metrics computes rolling aggregates over indicator history.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// Window sizes, in days, that are computed for every indicator.
const (
	ShortWindow = 7
	LongWindow  = 30
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start models.Date
	End   models.Date
}

// WindowEnding returns the size-day window [today-(size-1), today].
func WindowEnding(today models.Date, size int) Window {
	return Window{Start: today.AddDays(-(size - 1)), End: today}
}

// Contains reports whether d falls inside w.
func (w Window) Contains(d models.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Aggregate is the sum and mean of the numeric values inside a window.
type Aggregate struct {
	// Count is the number of values included.
	Count int
	// Sum is the total, or unavailable when Count is zero.
	Sum models.Value
	// Average is Sum/Count, or unavailable when Count is zero.
	Average models.Value
}

// Compute aggregates the history points that fall in w and hold a numeric
// value. Points with unavailable or non-numeric values are left out of both
// the sum and the count.
func Compute(history []models.HistoricalPoint, w Window) Aggregate {
	sum := decimal.Zero
	count := 0
	for _, p := range history {
		if !w.Contains(p.Date) {
			continue
		}
		f, ok := p.Value.Float()
		if !ok {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(f))
		count++
	}

	if count == 0 {
		return Aggregate{Sum: models.UnavailableValue(), Average: models.UnavailableValue()}
	}
	avg := sum.Div(decimal.NewFromInt(int64(count)))
	return Aggregate{
		Count:   count,
		Sum:     models.NumberValue(sum.InexactFloat64()),
		Average: models.NumberValue(avg.InexactFloat64()),
	}
}

// ApplyIndicator fills the 7- and 30-day aggregates of ind relative to today.
func ApplyIndicator(ind *models.Indicator, today models.Date) {
	short := Compute(ind.HistoricalData, WindowEnding(today, ShortWindow))
	long := Compute(ind.HistoricalData, WindowEnding(today, LongWindow))
	ind.Average7Days, ind.Sum7Days = short.Average, short.Sum
	ind.Average30Days, ind.Sum30Days = long.Average, long.Sum
}

// Apply recomputes the aggregates of every indicator in data.
func Apply(data *models.DashboardData, today models.Date) {
	for i := range data.Sectors {
		for j := range data.Sectors[i].Indicators {
			ApplyIndicator(&data.Sectors[i].Indicators[j], today)
		}
	}
}
