package parser

import (
	"strings"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// Column headers of the record sheet.
const (
	ColRecordID             = "ID_UNICO_REGISTRO"
	ColDate                 = "DATA_REGISTRO"
	ColResponsibleEmail     = "RESPONSAVEL_EMAIL"
	ColSectorID             = "SETOR_ID"
	ColSectorName           = "SETOR_NOME"
	ColIndicatorID          = "INDICADOR_ID"
	ColIndicatorName        = "INDICADOR_NOME"
	ColValue                = "VALOR_INDICADOR"
	ColSectorObservation    = "OBSERVACAO_SETOR"
	ColSectorFilesLink      = "LINK_ARQUIVOS_SETOR"
	ColSectorDescription    = "SETOR_DESCRICAO_GERAL"
	ColIndicatorUnit        = "INDICADOR_UNIDADE"
	ColIndicatorTrend       = "INDICADOR_TENDENCIA"
	ColIndicatorTarget      = "INDICADOR_META"
	ColIndicatorDescription = "INDICADOR_DESCRICAO"
	ColIndicatorObservation = "OBSERVACAO_INDICADOR_REGISTRO"
	ColIndicatorFilesLink   = "LINK_INDICADOR_REGISTRO"
)

// RecordHeaders lists the record sheet columns in canonical order.
var RecordHeaders = []string{
	ColRecordID, ColDate, ColResponsibleEmail, ColSectorID, ColSectorName,
	ColIndicatorID, ColIndicatorName, ColValue, ColSectorObservation, ColSectorFilesLink,
	ColSectorDescription, ColIndicatorUnit, ColIndicatorTrend, ColIndicatorTarget, ColIndicatorDescription,
	ColIndicatorObservation, ColIndicatorFilesLink,
}

// SkipReason names why a row contributed nothing.
type SkipReason string

const (
	SkipMissingDate      SkipReason = "missing_date"
	SkipInvalidDate      SkipReason = "invalid_date"
	SkipMissingSector    SkipReason = "missing_sector_id"
	SkipMissingIndicator SkipReason = "missing_indicator_id"
	SkipMissingValue     SkipReason = "missing_value"
)

// ParseStats counts what happened to the input rows.
type ParseStats struct {
	// Rows is the number of data rows read.
	Rows int
	// Accepted is the number of rows that produced a record.
	Accepted int
	// Skipped counts rejected rows by reason.
	Skipped map[SkipReason]int
}

// SkippedTotal returns the number of rejected rows.
func (s ParseStats) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// IndicatorGroup collects the records of one indicator key.
type IndicatorGroup struct {
	// Key is the composite identity.
	Key models.IndicatorKey
	// Meta is fixed by the first row seen for Key.
	Meta models.IndicatorMeta
	// Records holds one entry per input row, in input order.
	Records []models.DailyRecord
}

// RecordSet is the Record Parser output: groups keyed by composite identity,
// plus the order in which keys were first seen.
type RecordSet struct {
	Order  []models.IndicatorKey
	Groups map[models.IndicatorKey]*IndicatorGroup
	// Latest is the maximum date over all accepted rows.
	Latest models.Date
}

// ParseRecords groups table rows into per-indicator record lists. Rows
// without a valid date, sector id, indicator id or value are skipped and
// counted in the returned stats.
func ParseRecords(table models.Table) (*RecordSet, ParseStats) {
	set := &RecordSet{Groups: make(map[models.IndicatorKey]*IndicatorGroup)}
	stats := ParseStats{Skipped: make(map[SkipReason]int)}

	for _, row := range table.RawRows() {
		stats.Rows++

		rawDate := row.Get(ColDate)
		if rawDate == nil {
			stats.Skipped[SkipMissingDate]++
			continue
		}
		date, ok := ParseRecordDate(rawDate)
		if !ok {
			stats.Skipped[SkipInvalidDate]++
			continue
		}

		sectorID := textCell(row, ColSectorID)
		if sectorID == "" {
			stats.Skipped[SkipMissingSector]++
			continue
		}
		indicatorID := textCell(row, ColIndicatorID)
		if indicatorID == "" {
			stats.Skipped[SkipMissingIndicator]++
			continue
		}
		rawValue := row.Get(ColValue)
		if rawValue == nil {
			stats.Skipped[SkipMissingValue]++
			continue
		}

		key := models.IndicatorKey{SectorID: sectorID, IndicatorID: indicatorID}
		group, ok := set.Groups[key]
		if !ok {
			group = &IndicatorGroup{Key: key, Meta: readMeta(row, key)}
			set.Groups[key] = group
			set.Order = append(set.Order, key)
		}

		group.Records = append(group.Records, models.DailyRecord{
			Date:                 date,
			Value:                CoerceValue(rawValue),
			Trend:                ParseTrend(row.Get(ColIndicatorTrend)),
			SectorObservation:    textCell(row, ColSectorObservation),
			SectorFilesLink:      textCell(row, ColSectorFilesLink),
			IndicatorObservation: textCell(row, ColIndicatorObservation),
			IndicatorFilesLink:   textCell(row, ColIndicatorFilesLink),
			Row:                  row.Index,
		})
		if date.After(set.Latest) {
			set.Latest = date
		}
		stats.Accepted++
	}

	return set, stats
}

func readMeta(row models.RawRow, key models.IndicatorKey) models.IndicatorMeta {
	name := textCellOr(row, ColIndicatorName, key.IndicatorID)
	unit := textCell(row, ColIndicatorUnit)
	return models.IndicatorMeta{
		SectorName:        textCellOr(row, ColSectorName, key.SectorID),
		SectorDescription: textCell(row, ColSectorDescription),
		Name:              name,
		Unit:              unit,
		Format:            DetectFormat(name, unit),
		TargetRaw:         textCell(row, ColIndicatorTarget),
		Description:       textCell(row, ColIndicatorDescription),
	}
}

func textCell(row models.RawRow, name string) string {
	return strings.TrimSpace(cellString(row.Get(name)))
}

func textCellOr(row models.RawRow, name, fallback string) string {
	if s := textCell(row, name); s != "" {
		return s
	}
	return fallback
}
