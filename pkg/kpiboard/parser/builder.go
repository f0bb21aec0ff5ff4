package parser

import (
	"sort"
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// DefaultTitle is the dashboard title used when none is configured.
const DefaultTitle = "Indicadores Seven"

// newerFirst orders records by date descending. Records of the same day are
// ordered by source row descending, so the row appended last to the sheet is
// the current one.
func newerFirst(a, b models.DailyRecord) bool {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c > 0
	}
	return a.Row > b.Row
}

// BuildIndicator folds a group into an Indicator. The group's records are
// sorted in place, newest first.
func BuildIndicator(group *IndicatorGroup) (models.Indicator, bool) {
	if len(group.Records) == 0 {
		return models.Indicator{}, false
	}
	sort.SliceStable(group.Records, func(i, j int) bool {
		return newerFirst(group.Records[i], group.Records[j])
	})
	current := group.Records[0]

	history := make([]models.HistoricalPoint, len(group.Records))
	for i, rec := range group.Records {
		history[i] = models.HistoricalPoint{Date: rec.Date, Value: rec.Value}
	}

	return models.Indicator{
		ID:                    group.Key.String(),
		Key:                   group.Key,
		Name:                  group.Meta.Name,
		Value:                 current.Value,
		Unit:                  group.Meta.Unit,
		Trend:                 current.Trend,
		Target:                ParseTarget(group.Meta.TargetRaw),
		Description:           group.Meta.Description,
		Format:                group.Meta.Format,
		LastRecordObservation: current.IndicatorObservation,
		LastRecordFilesLink:   current.IndicatorFilesLink,
		HistoricalData:        history,
	}, true
}

// sectorNotes resolves the sector-wide observation and files link from the
// current records of a sector's indicators. Candidates are folded oldest to
// newest by (date, row); a non-empty note replaces the previous one, so the
// result is the latest non-empty note whatever order the indicators came in.
func sectorNotes(current []models.DailyRecord) (observation, filesLink string) {
	ordered := append([]models.DailyRecord(nil), current...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return newerFirst(ordered[j], ordered[i])
	})
	for _, rec := range ordered {
		if rec.SectorObservation != "" {
			observation = rec.SectorObservation
		}
		if rec.SectorFilesLink != "" {
			filesLink = rec.SectorFilesLink
		}
	}
	return observation, filesLink
}

// BuildDashboard folds a RecordSet into sectors and indicators. Sectors and
// indicators keep the order in which their keys were first seen. now is used
// for LastUpdated when the set holds no records.
func BuildDashboard(set *RecordSet, title string, now time.Time) *models.DashboardData {
	if title == "" {
		title = DefaultTitle
	}

	var order []string
	sectors := make(map[string]*models.Sector)
	current := make(map[string][]models.DailyRecord)

	for _, key := range set.Order {
		group := set.Groups[key]
		ind, ok := BuildIndicator(group)
		if !ok {
			continue
		}
		sector, ok := sectors[key.SectorID]
		if !ok {
			sector = &models.Sector{
				ID:          key.SectorID,
				Name:        group.Meta.SectorName,
				Description: group.Meta.SectorDescription,
			}
			sectors[key.SectorID] = sector
			order = append(order, key.SectorID)
		}
		sector.Indicators = append(sector.Indicators, ind)
		current[key.SectorID] = append(current[key.SectorID], group.Records[0])
	}

	data := &models.DashboardData{Title: title, Sectors: make([]models.Sector, 0, len(order))}
	for _, id := range order {
		sector := sectors[id]
		if len(sector.Indicators) == 0 {
			continue
		}
		sector.SectorObservation, sector.SectorFilesLink = sectorNotes(current[id])
		data.Sectors = append(data.Sectors, *sector)
	}

	if set.Latest.IsZero() {
		data.LastUpdated = now.UTC()
	} else {
		data.LastUpdated = set.Latest.Time()
	}
	return data
}

// Build runs the Record Parser and Entity Builder over a table.
func Build(table models.Table, title string, now time.Time) (*models.DashboardData, ParseStats) {
	set, stats := ParseRecords(table)
	return BuildDashboard(set, title, now), stats
}
