package kpiboard

import (
	"strings"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/rules"
)

// FormInput is one sector's worth of daily values as typed by a user.
type FormInput struct {
	Date             models.Date `json:"dataRegistro"`
	SectorID         string      `json:"sectorId"`
	ResponsibleEmail string      `json:"responsavelEmail"`
	// Values maps an indicator id (composite or original) to the typed value.
	Values      map[string]string `json:"values"`
	Observation string            `json:"observacao,omitempty"`
	FilesLink   string            `json:"linkArquivosSetor,omitempty"`
}

// IndicatorRequired reports whether a value must be entered for ind.
func IndicatorRequired(sectorID string, ind models.Indicator) bool {
	if rules.IsOptionalIndicator(sectorID, ind.OriginalID(sectorID)) {
		return false
	}
	return ind.Required()
}

// BuildEntries validates in against the sector definitions in data and
// returns one record per indicator of the selected sector. Any problem is
// returned as a *ValidationError and no record is produced.
func BuildEntries(data *models.DashboardData, in FormInput) ([]models.FormEntry, error) {
	if in.Date.IsZero() || strings.TrimSpace(in.SectorID) == "" {
		return nil, invalid("dataRegistro", "date and sector are required")
	}
	email := strings.TrimSpace(in.ResponsibleEmail)
	if email == "" {
		return nil, invalid("responsavelEmail", "responsible e-mail is required")
	}
	if data == nil {
		return nil, invalid("sectorId", "sector %q not found", in.SectorID)
	}
	sector := data.FindSector(in.SectorID)
	if sector == nil {
		return nil, invalid("sectorId", "sector %q not found", in.SectorID)
	}

	observation := strings.TrimSpace(in.Observation)
	link := strings.TrimSpace(in.FilesLink)

	entries := make([]models.FormEntry, 0, len(sector.Indicators))
	for _, ind := range sector.Indicators {
		originalID := ind.OriginalID(sector.ID)
		name := displayName(ind.Name)

		raw, ok := in.Values[ind.ID]
		if !ok {
			raw = in.Values[originalID]
		}
		raw = strings.TrimSpace(raw)

		var value models.Value
		switch {
		case raw != "":
			f, ok := models.ParseDecimal(raw)
			if !ok {
				return nil, invalid(ind.ID, "invalid value for %q, use numbers such as 123 or 123,45", name)
			}
			value = models.NumberValue(f)
		case IndicatorRequired(sector.ID, ind):
			return nil, invalid(ind.ID, "%q is required", name)
		default:
			value = models.TextValue(models.NotApplicable)
		}

		entries = append(entries, models.FormEntry{
			Date:             in.Date,
			SectorID:         sector.ID,
			SectorName:       sector.Name,
			IndicatorID:      originalID,
			IndicatorName:    name,
			Value:            value,
			ResponsibleEmail: email,
			Observation:      observation,
			FilesLink:        link,
		})
	}
	return entries, nil
}

// displayName drops the required-field asterisk some sheets put in names.
func displayName(name string) string {
	return strings.TrimSpace(strings.Replace(name, "*", "", 1))
}
