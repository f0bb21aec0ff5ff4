// Package source provides the data sources a dashboard can be loaded from
// and the writers that accept new daily records.
package source

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/parser"
)

// Source fetches a complete dashboard snapshot.
type Source interface {
	// Name identifies the source in logs and messages.
	Name() string
	// Fetch loads a fresh snapshot. Implementations never cache across calls.
	Fetch(ctx context.Context) (*models.DashboardData, error)
}

// Writer stores one submitted record.
type Writer interface {
	Submit(ctx context.Context, entry models.FormEntry) error
}

var (
	_ Source = (*AppsScript)(nil)
	_ Source = (*Sheets)(nil)
	_ Source = (*Workbook)(nil)
	_ Source = (*Sample)(nil)
	_ Writer = (*AppsScript)(nil)
	_ Writer = (*Sheets)(nil)
)

// buildTable runs the row pipeline over a table fetched by a tabular source
// and logs the rows that were skipped.
func buildTable(ctx context.Context, name string, table models.Table, now time.Time) *models.DashboardData {
	log := klog.FromContext(ctx)

	data, stats := parser.Build(table, parser.DefaultTitle, now)
	if skipped := stats.SkippedTotal(); skipped > 0 {
		kv := []interface{}{"source", name, "rows", stats.Rows, "skipped", skipped}
		for reason, n := range stats.Skipped {
			kv = append(kv, string(reason), n)
		}
		log.V(1).Info("skipped incomplete rows", kv...)
	}
	return data
}

func clockOrNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now()
	}
	return clock()
}
