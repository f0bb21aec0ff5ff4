package models

import "time"

// DashboardData is a complete, render-ready snapshot.
type DashboardData struct {
	// Title is the display title.
	Title string `json:"title"`
	// Sectors holds the sectors in first-seen order.
	Sectors []Sector `json:"sectors"`
	// LastUpdated is the latest record date, or the build time when there are no records.
	LastUpdated time.Time `json:"lastUpdated"`
}

// FindSector returns the sector with the given id.
func (d *DashboardData) FindSector(id string) *Sector {
	for i := range d.Sectors {
		if d.Sectors[i].ID == id {
			return &d.Sectors[i]
		}
	}
	return nil
}

// IndicatorCount returns the number of indicators across all sectors.
func (d *DashboardData) IndicatorCount() int {
	n := 0
	for _, s := range d.Sectors {
		n += len(s.Indicators)
	}
	return n
}

// Clone returns a deep copy of d.
func (d *DashboardData) Clone() *DashboardData {
	if d == nil {
		return nil
	}
	c := *d
	if d.Sectors != nil {
		c.Sectors = make([]Sector, len(d.Sectors))
		for i, s := range d.Sectors {
			c.Sectors[i] = s.Clone()
		}
	}
	return &c
}
