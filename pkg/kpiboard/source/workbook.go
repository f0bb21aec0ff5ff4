package source

import (
	"context"
	"fmt"
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/parser"
)

// Workbook reads the record sheet from a local xlsx file on every fetch.
type Workbook struct {
	// Path is the xlsx file.
	Path string
	// Sheet is the record sheet name; empty means the first sheet.
	Sheet string
	// Clock is used for LastUpdated when the sheet holds no records.
	Clock func() time.Time
}

// Name implements Source.
func (w *Workbook) Name() string { return "workbook" }

// Fetch implements Source.
func (w *Workbook) Fetch(ctx context.Context) (*models.DashboardData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := parser.OpenTable(w.Path, w.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", w.Path, err)
	}
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("read workbook %s: %w: sheet is empty", w.Path, ErrInvalidPayload)
	}
	return buildTable(ctx, w.Name(), table, clockOrNow(w.Clock)), nil
}
