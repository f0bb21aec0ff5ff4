package models

// NotApplicable is sent for optional indicators left blank.
const NotApplicable = "N/A"

// FormEntry is one indicator value submitted for one day.
type FormEntry struct {
	// Date is the day the value belongs to.
	Date Date `json:"dataRegistro"`
	// SectorID is the owning sector.
	SectorID string `json:"sectorId"`
	// SectorName is the sector display name.
	SectorName string `json:"sectorName,omitempty"`
	// IndicatorID is the original (short) indicator id, not the composite id.
	IndicatorID string `json:"indicatorId"`
	// IndicatorName is the indicator display name.
	IndicatorName string `json:"indicatorName,omitempty"`
	// Value is a number, or "N/A" for an optional indicator left blank.
	Value Value `json:"valorIndicador"`
	// ResponsibleEmail identifies who submitted the value.
	ResponsibleEmail string `json:"responsavelEmail,omitempty"`
	// Observation is the sector observation for the day.
	Observation string `json:"observacao,omitempty"`
	// FilesLink is the sector files link for the day.
	FilesLink string `json:"linkArquivosSetor,omitempty"`
}

// WriteResponse is the backend reply to a FormEntry.
type WriteResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`
	// Message describes the outcome.
	Message string `json:"message,omitempty"`
}
