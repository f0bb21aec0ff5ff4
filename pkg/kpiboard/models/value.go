// Package models defines data structures for indicator dashboards.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unavailable is the marker rendered for "no valid numeric value".
const Unavailable = "-"

// ValueKind identifies what a Value holds.
type ValueKind uint8

const (
	// KindUnavailable means no usable value was recorded.
	KindUnavailable ValueKind = iota
	// KindNumber means the value is numeric.
	KindNumber
	// KindText means the source held a non-numeric string that was kept verbatim.
	KindText
)

// Value is a cell value after coercion: a number, the unavailable marker,
// or a string that could not be read as a number.
// The zero Value is unavailable.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// TextValue returns a Value holding s verbatim.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// UnavailableValue returns the unavailable marker.
func UnavailableValue() Value {
	return Value{}
}

// Kind reports what v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsUnavailable reports whether v is the unavailable marker.
func (v Value) IsUnavailable() bool { return v.kind == KindUnavailable }

// Number returns the numeric value and whether v holds one.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the verbatim string for KindText values.
func (v Value) Text() string { return v.text }

// Float reads v as a number. Text values are parsed with the same
// comma-or-dot decimal rule used at ingestion, so a string such as "12,5"
// still counts as 12.5.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		return ParseDecimal(v.text)
	}
	return 0, false
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	}
	return Unavailable
}

// MarshalJSON encodes numbers as JSON numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindText:
		return json.Marshal(v.text)
	}
	return json.Marshal(Unavailable)
}

// UnmarshalJSON accepts a number, a string or null. The string "-" and null
// decode to the unavailable marker; other strings are kept as text.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = UnavailableValue()
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == Unavailable {
			*v = UnavailableValue()
		} else {
			*v = TextValue(s)
		}
		return nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Errorf("value must be a number or string, got %s", trimmed)
	}
	*v = NumberValue(f)
	return nil
}

// ParseDecimal parses s as a decimal number after replacing the first comma
// with a dot. NaN and infinities are rejected.
func ParseDecimal(s string) (float64, bool) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
