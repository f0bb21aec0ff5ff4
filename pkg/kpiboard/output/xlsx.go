package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// SummarySheet is the name of the per-indicator summary sheet.
const SummarySheet = "Summary"

// ViewDays is the number of past days shown on each sector sheet.
const ViewDays = 7

const maxSheetName = 31

var summaryHeaders = []string{
	"Sector", "Indicator", "Value", "Unit", "Target",
	"Average 7 days", "Sum 7 days", "Average 30 days", "Sum 30 days",
}

// PastDates returns the n days before today, yesterday first.
func PastDates(today models.Date, n int) []models.Date {
	dates := make([]models.Date, n)
	for i := range dates {
		dates[i] = today.AddDays(-(i + 1))
	}
	return dates
}

// Workbook builds the spreadsheet view of data: the summary sheet first,
// then one sheet per sector with the values of the ViewDays days before
// today. Days without a numeric value hold "-".
func Workbook(data *models.DashboardData, today models.Date) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, data); err != nil {
		f.Close()
		return nil, err
	}

	dates := PastDates(today, ViewDays)
	used := map[string]bool{strings.ToLower(SummarySheet): true}
	for _, sector := range data.Sectors {
		name := uniqueSheetName(sector.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sector %s: %w", sector.ID, err)
		}
		if err := writeSector(f, name, sector, dates); err != nil {
			f.Close()
			return nil, fmt.Errorf("sector %s: %w", sector.ID, err)
		}
	}
	return f, nil
}

// WriteWorkbook writes the spreadsheet view of data as xlsx to w.
func WriteWorkbook(w io.Writer, data *models.DashboardData, today models.Date) error {
	f, err := Workbook(data, today)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeSummary(f *excelize.File, data *models.DashboardData) error {
	if err := setRow(f, SummarySheet, 1, toCells(summaryHeaders)); err != nil {
		return err
	}
	row := 2
	for _, sector := range data.Sectors {
		for _, ind := range sector.Indicators {
			var target interface{} = models.Unavailable
			if ind.Target != nil {
				target = *ind.Target
			}
			cells := []interface{}{
				sector.Name, ind.Name, cellValue(ind.Value), ind.Unit, target,
				cellValue(ind.Average7Days), cellValue(ind.Sum7Days),
				cellValue(ind.Average30Days), cellValue(ind.Sum30Days),
			}
			if err := setRow(f, SummarySheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(SummarySheet, "A", "I", 18)
}

func writeSector(f *excelize.File, sheet string, sector models.Sector, dates []models.Date) error {
	header := []interface{}{"Indicator", "Unit"}
	for _, d := range dates {
		header = append(header, d.String())
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, ind := range sector.Indicators {
		cells := []interface{}{ind.Name, ind.Unit}
		for _, d := range dates {
			cells = append(cells, cellValue(valueOn(ind, d)))
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", last, 12)
}

// valueOn returns the current value of ind on day d. History is newest
// first, so the first match is the current record of that day.
func valueOn(ind models.Indicator, d models.Date) models.Value {
	for _, p := range ind.HistoricalData {
		if p.Date.Equal(d) {
			return p.Value
		}
	}
	return models.UnavailableValue()
}

// cellValue writes numbers as numeric cells and everything else as "-".
func cellValue(v models.Value) interface{} {
	if n, ok := v.Number(); ok {
		return n
	}
	return models.Unavailable
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// uniqueSheetName makes name a valid sheet name that is not yet in used.
func uniqueSheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sector"
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncate(name, maxSheetName-len([]rune(suffix))) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
