package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

type jsonObject map[string]json.RawMessage

// has reports whether key is present with a non-null value.
func (o jsonObject) has(key string) bool {
	raw, ok := o[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (o jsonObject) require(where string, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !o.has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return schemaError("%s is missing %s", where, strings.Join(missing, ", "))
	}
	return nil
}

func (o jsonObject) objects(key string) ([]jsonObject, error) {
	var out []jsonObject
	if err := json.Unmarshal(o[key], &out); err != nil {
		return nil, schemaError("%s must be an array of objects", key)
	}
	return out, nil
}

// upstreamError returns the message of a truthy top-level "error" field.
func upstreamError(o jsonObject) (string, bool) {
	raw, ok := o["error"]
	if !ok {
		return "", false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw), true
	}
	switch e := v.(type) {
	case nil:
		return "", false
	case bool:
		return "true", e
	case float64:
		return string(raw), e != 0
	case string:
		return e, e != ""
	}
	return string(raw), true
}

type wireDashboard struct {
	Title       string          `json:"title"`
	LastUpdated string          `json:"lastUpdated"`
	Sectors     []models.Sector `json:"sectors"`
}

// DecodeDashboard validates and decodes a dashboard document. Missing
// top-level or entity fields fail with ErrInvalidPayload; an indicator
// without historicalData fails with ErrMissingHistoricalData; a truthy
// "error" field fails with ErrUpstream.
func DecodeDashboard(body []byte) (*models.DashboardData, error) {
	var top jsonObject
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if msg, ok := upstreamError(top); ok {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
	}
	if err := top.require("dashboard", "title", "lastUpdated", "sectors"); err != nil {
		return nil, err
	}

	sectors, err := top.objects("sectors")
	if err != nil {
		return nil, err
	}
	var indicators [][]jsonObject
	for i, s := range sectors {
		if !s.has("indicators") {
			indicators = append(indicators, nil)
			continue
		}
		inds, err := s.objects("indicators")
		if err != nil {
			return nil, fmt.Errorf("sector %d: %w", i, err)
		}
		indicators = append(indicators, inds)
	}

	// A stale backend is reported before any other per-entity problem.
	for _, inds := range indicators {
		for _, ind := range inds {
			if _, ok := ind["historicalData"]; !ok {
				return nil, ErrMissingHistoricalData
			}
		}
	}

	for i, s := range sectors {
		if err := s.require(fmt.Sprintf("sector %d", i), "id", "name", "indicators"); err != nil {
			return nil, err
		}
		for j, ind := range indicators[i] {
			if err := ind.require(fmt.Sprintf("sector %d indicator %d", i, j), "id", "name", "value", "trend"); err != nil {
				return nil, err
			}
		}
	}

	var wire wireDashboard
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if strings.TrimSpace(wire.Title) == "" {
		return nil, schemaError("dashboard title is empty")
	}
	lastUpdated, err := parseTimestamp(wire.LastUpdated)
	if err != nil {
		return nil, schemaError("lastUpdated %q is not an ISO-8601 timestamp", wire.LastUpdated)
	}

	for i := range wire.Sectors {
		sector := &wire.Sectors[i]
		for j := range sector.Indicators {
			ind := &sector.Indicators[j]
			ind.Key = models.IndicatorKey{SectorID: sector.ID, IndicatorID: models.SplitCompositeID(sector.ID, ind.ID)}
			if ind.HistoricalData == nil {
				ind.HistoricalData = []models.HistoricalPoint{}
			}
		}
	}

	return &models.DashboardData{
		Title:       wire.Title,
		Sectors:     wire.Sectors,
		LastUpdated: lastUpdated,
	}, nil
}

var timestampLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", models.DateLayout}

func parseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
