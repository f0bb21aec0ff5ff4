package parser

import (
	"strings"
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are the textual date forms found in record sheets, tried in order.
var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"01-02-06",
}

// ParseRecordDate reads a record date cell as a calendar day. Numbers are
// read as spreadsheet serial dates.
func ParseRecordDate(raw interface{}) (models.Date, bool) {
	switch v := raw.(type) {
	case nil:
		return models.Date{}, false
	case time.Time:
		if v.IsZero() {
			return models.Date{}, false
		}
		return models.DateOf(v), true
	case models.Date:
		return v, !v.IsZero()
	case float64:
		return serialDate(v)
	case int:
		return serialDate(float64(v))
	case int64:
		return serialDate(float64(v))
	}

	s := strings.TrimSpace(cellString(raw))
	if s == "" {
		return models.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateOf(t), true
		}
	}
	if f, ok := models.ParseDecimal(s); ok && !strings.ContainsAny(s, "-/") {
		return serialDate(f)
	}
	return models.Date{}, false
}

func serialDate(serial float64) (models.Date, bool) {
	if serial <= 0 {
		return models.Date{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return models.Date{}, false
	}
	return models.DateOf(t), true
}
