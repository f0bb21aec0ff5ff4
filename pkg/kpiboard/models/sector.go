package models

// Sector is a named group of indicators.
type Sector struct {
	// ID is the sector identifier.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Description is the optional sector description.
	Description string `json:"description,omitempty"`
	// Indicators holds the sector's indicators.
	Indicators []Indicator `json:"indicators"`
	// SectorObservation is the note attached to the sector's latest record.
	SectorObservation string `json:"sectorObservation,omitempty"`
	// SectorFilesLink is the files link attached to the sector's latest record.
	SectorFilesLink string `json:"sectorFilesLink,omitempty"`
}

// FindIndicator returns the indicator whose original id is originalID.
func (s *Sector) FindIndicator(originalID string) *Indicator {
	for i := range s.Indicators {
		if s.Indicators[i].OriginalID(s.ID) == originalID {
			return &s.Indicators[i]
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s Sector) Clone() Sector {
	c := s
	if s.Indicators != nil {
		c.Indicators = make([]Indicator, len(s.Indicators))
		for i, ind := range s.Indicators {
			c.Indicators[i] = ind.Clone()
		}
	}
	return c
}
