package models

import "encoding/json"

// HistoricalPoint is one dated value of an indicator's series.
type HistoricalPoint struct {
	// Date is the calendar day, encoded as YYYY-MM-DD.
	Date Date `json:"date"`
	// Value is the day's value (number, text or "-").
	Value Value `json:"value"`
}

// UnmarshalJSON decodes a point. A date that cannot be read decodes to the
// zero Date, which no aggregation window contains.
func (p *HistoricalPoint) UnmarshalJSON(data []byte) error {
	var wire struct {
		Date  json.RawMessage `json:"date"`
		Value Value           `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.Value = wire.Value
	p.Date = Date{}
	if len(wire.Date) > 0 {
		if err := p.Date.UnmarshalJSON(wire.Date); err != nil {
			p.Date = Date{}
		}
	}
	return nil
}

// Indicator represents a tracked metric of a sector.
type Indicator struct {
	// ID is the composite "sectorId_originalId" identifier.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Value is the most recent dated value, never an aggregate.
	Value Value `json:"value"`
	// Unit is the optional unit literal (e.g. "%", "BRL").
	Unit string `json:"unit,omitempty"`
	// Trend is the direction flag of the most recent record.
	Trend Trend `json:"trend"`
	// Target is the numeric goal, nil when absent or unparseable.
	Target *float64 `json:"target,omitempty"`
	// Description is the optional long description.
	Description string `json:"description,omitempty"`
	// Format is the presentation hint.
	Format Format `json:"format,omitempty"`
	// Average7Days is the mean of numeric values over the last 7 days, or "-".
	Average7Days Value `json:"average7Days"`
	// Average30Days is the mean of numeric values over the last 30 days, or "-".
	Average30Days Value `json:"average30Days"`
	// Sum7Days is the sum of numeric values over the last 7 days, or "-".
	Sum7Days Value `json:"sum7Days"`
	// Sum30Days is the sum of numeric values over the last 30 days, or "-".
	Sum30Days Value `json:"sum30Days"`
	// LastRecordObservation is the note of the most recent record.
	LastRecordObservation string `json:"lastRecordObservation,omitempty"`
	// LastRecordFilesLink is the files link of the most recent record.
	LastRecordFilesLink string `json:"lastRecordFilesLink,omitempty"`
	// IsMandatory tells the entry form whether a value is required. Nil means required.
	IsMandatory *bool `json:"isMandatory,omitempty"`
	// HistoricalData is the full series, newest first.
	HistoricalData []HistoricalPoint `json:"historicalData"`

	// Key is the structured identity when the indicator was built from rows.
	Key IndicatorKey `json:"-"`
}

// OriginalID returns the short indicator id within sectorID.
func (ind Indicator) OriginalID(sectorID string) string {
	if ind.Key.IndicatorID != "" {
		return ind.Key.IndicatorID
	}
	return SplitCompositeID(sectorID, ind.ID)
}

// Required reports whether the entry form must receive a value.
func (ind Indicator) Required() bool {
	return ind.IsMandatory == nil || *ind.IsMandatory
}

// ChartSeries returns the history oldest first.
func (ind Indicator) ChartSeries() []HistoricalPoint {
	out := make([]HistoricalPoint, len(ind.HistoricalData))
	for i, p := range ind.HistoricalData {
		out[len(out)-1-i] = p
	}
	return out
}

// Clone returns a deep copy of ind.
func (ind Indicator) Clone() Indicator {
	c := ind
	if ind.Target != nil {
		t := *ind.Target
		c.Target = &t
	}
	if ind.IsMandatory != nil {
		m := *ind.IsMandatory
		c.IsMandatory = &m
	}
	if ind.HistoricalData != nil {
		c.HistoricalData = append([]HistoricalPoint(nil), ind.HistoricalData...)
	}
	return c
}
