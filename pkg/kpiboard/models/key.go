package models

import "strings"

// KeySeparator joins the sector id and the original indicator id in the
// composite identifier exposed as Indicator.ID.
const KeySeparator = "_"

// IndicatorKey identifies an indicator within a dataset. Two keys are equal
// when both components are equal, regardless of separators inside either
// component.
type IndicatorKey struct {
	// SectorID is the owning sector identifier.
	SectorID string
	// IndicatorID is the original (short) indicator identifier.
	IndicatorID string
}

// String returns the composite "sectorId_indicatorId" form.
func (k IndicatorKey) String() string {
	return k.SectorID + KeySeparator + k.IndicatorID
}

// IsZero reports whether k is unset.
func (k IndicatorKey) IsZero() bool {
	return k.SectorID == "" && k.IndicatorID == ""
}

// SplitCompositeID recovers the original indicator id from a composite id
// given its owning sector id. When id does not carry the sector prefix it is
// returned unchanged.
func SplitCompositeID(sectorID, id string) string {
	prefix := sectorID + KeySeparator
	if sectorID != "" && strings.HasPrefix(id, prefix) {
		return id[len(prefix):]
	}
	return id
}
