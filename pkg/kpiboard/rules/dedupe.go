package rules

import "github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"

// Dedupe returns the items with distinct ids in first-seen order. Items with
// an empty id are dropped. The input slice is not modified.
func Dedupe[T any](items []T, id func(T) string) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := id(item)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func sectorID(s models.Sector) string       { return s.ID }
func indicatorID(i models.Indicator) string { return i.ID }

// DedupeDashboard removes duplicate sectors and, within each sector,
// duplicate indicators.
func DedupeDashboard(data *models.DashboardData) {
	data.Sectors = Dedupe(data.Sectors, sectorID)
	for i := range data.Sectors {
		data.Sectors[i].Indicators = Dedupe(data.Sectors[i].Indicators, indicatorID)
	}
}
