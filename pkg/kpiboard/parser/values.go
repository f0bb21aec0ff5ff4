// Package parser turns spreadsheet rows into dashboard entities.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// sentinelTokens are cell texts that mean "no value", compared case-insensitively.
var sentinelTokens = map[string]struct{}{
	"N/A":     {},
	"N/D":     {},
	"-":       {},
	"#NUM!":   {},
	"#N/A":    {},
	"#VALUE!": {},
	"#DIV/0!": {},
	"#REF!":   {},
	"#NAME?":  {},
	"#NULL!":  {},
	"#ERROR!": {},
}

// IsSentinel reports whether s is a placeholder for a missing value.
func IsSentinel(s string) bool {
	_, ok := sentinelTokens[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// CoerceValue normalizes a raw cell into a Value. Blank cells and sentinel
// tokens become the unavailable marker; numbers and numeric strings (comma or
// dot decimal separator) become numbers; any other string is kept verbatim.
func CoerceValue(raw interface{}) models.Value {
	switch v := raw.(type) {
	case nil:
		return models.UnavailableValue()
	case models.Value:
		return v
	case float64:
		return numberOrUnavailable(v)
	case float32:
		return numberOrUnavailable(float64(v))
	case int:
		return models.NumberValue(float64(v))
	case int64:
		return models.NumberValue(float64(v))
	case int32:
		return models.NumberValue(float64(v))
	case uint:
		return models.NumberValue(float64(v))
	case uint64:
		return models.NumberValue(float64(v))
	case bool:
		return models.TextValue(strconv.FormatBool(v))
	case string:
		return coerceString(v)
	case fmt.Stringer:
		return coerceString(v.String())
	}
	return coerceString(fmt.Sprint(raw))
}

func coerceString(s string) models.Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || IsSentinel(trimmed) {
		return models.UnavailableValue()
	}
	if f, ok := models.ParseDecimal(trimmed); ok {
		return models.NumberValue(f)
	}
	return models.TextValue(trimmed)
}

func numberOrUnavailable(f float64) models.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.UnavailableValue()
	}
	return models.NumberValue(f)
}

// ParseTarget reads a target cell. Unparseable targets are reported as absent.
func ParseTarget(raw interface{}) *float64 {
	v := CoerceValue(raw)
	f, ok := v.Number()
	if !ok {
		return nil
	}
	return &f
}

// ParseTrend reads a trend cell; anything other than up or down is stable.
func ParseTrend(raw interface{}) models.Trend {
	s := strings.ToLower(strings.TrimSpace(cellString(raw)))
	switch models.Trend(s) {
	case models.TrendUp:
		return models.TrendUp
	case models.TrendDown:
		return models.TrendDown
	}
	return models.TrendStable
}

// cellString renders a cell as text without coercion.
func cellString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(models.DateLayout)
	}
	return fmt.Sprint(raw)
}
