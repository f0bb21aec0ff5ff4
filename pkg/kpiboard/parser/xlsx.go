package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/xuri/excelize/v2"
)

// ReadTable reads a record sheet from a workbook. The first non-empty row
// inside the sheet's data bounds is the header row; empty rows below it are
// dropped. When sheetName is empty the first sheet is used.
func ReadTable(f *excelize.File, sheetName string) (models.Table, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return models.Table{}, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return models.Table{}, err
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return models.Table{}, nil
	}

	header := rows[minRow]
	table := models.Table{Headers: make([]string, 0, maxCol-minCol+1)}
	for colIdx := minCol; colIdx <= maxCol; colIdx++ {
		name := ""
		if colIdx < len(header) {
			name = strings.TrimSpace(header[colIdx])
		}
		table.Headers = append(table.Headers, name)
	}

	for rowIdx := minRow + 1; rowIdx <= maxRow; rowIdx++ {
		row := rows[rowIdx]
		cells := make([]interface{}, 0, maxCol-minCol+1)
		hasData := false
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				hasData = true
			}
			cells = append(cells, row[colIdx])
		}
		if hasData {
			table.Rows = append(table.Rows, cells)
		}
	}

	return table, nil
}

// OpenTable opens an xlsx file and reads one sheet with ReadTable.
func OpenTable(path, sheetName string) (models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()
	return ReadTable(f, sheetName)
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
