package models

// Trend is the direction flag recorded with a value.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Format tells consumers how to present an indicator's numbers.
type Format string

const (
	FormatCurrency   Format = "currency"
	FormatPercentage Format = "percentage"
	FormatNumber     Format = "number"
)

// DailyRecord is one indicator value for one calendar day.
type DailyRecord struct {
	// Date is the day the value belongs to.
	Date Date
	// Value is the coerced cell value.
	Value Value
	// Trend is the direction flag recorded with the value.
	Trend Trend
	// SectorObservation is the sector-wide note attached to this row.
	SectorObservation string
	// SectorFilesLink is the sector-wide files link attached to this row.
	SectorFilesLink string
	// IndicatorObservation is the note attached to this indicator row.
	IndicatorObservation string
	// IndicatorFilesLink is the files link attached to this indicator row.
	IndicatorFilesLink string
	// Row is the 0-based source row position, used to order same-day records.
	Row int
}

// IndicatorMeta is the descriptive data fixed by the first row seen for an
// indicator key.
type IndicatorMeta struct {
	SectorName        string
	SectorDescription string
	Name              string
	Unit              string
	Format            Format
	TargetRaw         string
	Description       string
}
