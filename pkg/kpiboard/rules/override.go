package rules

import "github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"

// The logistics override is a point business rule: the cost-per-delivery and
// rework-cost indicators of the logistics sector are optional on the entry
// form, whatever the data source says. The tokens are hard-coded here and
// nowhere else. The sheet generates ids by slugging display names, which
// drops accented letters ("Logística" -> "logstica") and turns "(R$)" into a
// "-r" suffix, so both spellings are listed.
var (
	logisticsSectorTokens = map[string]struct{}{
		"logistica": {},
		"logstica":  {},
	}
	optionalLogisticsIndicators = map[string]struct{}{
		"custo-logistico":       {},
		"custo-logstico":        {},
		"custo-logistico-r":     {},
		"custo-logstico-r":      {},
		"custo-de-retrabalho":   {},
		"custo-de-retrabalho-r": {},
	}
)

// IsLogisticsSector reports whether sectorID names the logistics sector.
func IsLogisticsSector(sectorID string) bool {
	_, ok := logisticsSectorTokens[Normalize(sectorID)]
	return ok
}

// IsOptionalIndicator reports whether the override makes the indicator with
// the given original id optional within sectorID.
func IsOptionalIndicator(sectorID, originalID string) bool {
	if !IsLogisticsSector(sectorID) {
		return false
	}
	_, ok := optionalLogisticsIndicators[Normalize(originalID)]
	return ok
}

// ApplyOverrides forces IsMandatory to false on the indicators covered by the
// logistics override. It returns the number of indicators changed.
func ApplyOverrides(data *models.DashboardData) int {
	changed := 0
	for i := range data.Sectors {
		sector := &data.Sectors[i]
		if !IsLogisticsSector(sector.ID) {
			continue
		}
		for j := range sector.Indicators {
			ind := &sector.Indicators[j]
			if IsOptionalIndicator(sector.ID, ind.OriginalID(sector.ID)) {
				optional := false
				ind.IsMandatory = &optional
				changed++
			}
		}
	}
	return changed
}
