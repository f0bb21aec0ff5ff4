package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValueUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected Value
		wantErr  bool
	}{
		{`12.5`, NumberValue(12.5), false},
		{`0`, NumberValue(0), false},
		{`null`, UnavailableValue(), false},
		{`"-"`, UnavailableValue(), false},
		{`"pending"`, TextValue("pending"), false},
		{`"12,5"`, TextValue("12,5"), false},
		{`true`, Value{}, true},
		{`{}`, Value{}, true},
	}
	for _, tt := range tests {
		var v Value
		err := json.Unmarshal([]byte(tt.input), &v)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && v != tt.expected {
			t.Errorf("Unmarshal(%s) = %#v, expected %#v", tt.input, v, tt.expected)
		}
	}
}

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		wantErr  bool
	}{
		{`"2024-05-03"`, NewDate(2024, time.May, 3), false},
		{`"2024-05-03T23:30:00Z"`, NewDate(2024, time.May, 3), false},
		{`"2024-05-03T01:00:00-03:00"`, NewDate(2024, time.May, 3), false},
		{`""`, Date{}, false},
		{`null`, Date{}, false},
		{`"03/05/2024"`, Date{}, true},
		{`20240503`, Date{}, true},
	}
	for _, tt := range tests {
		var d Date
		err := json.Unmarshal([]byte(tt.input), &d)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !d.Equal(tt.expected) {
			t.Errorf("Unmarshal(%s) = %s, expected %s", tt.input, d, tt.expected)
		}
	}
}

func TestHistoricalPointToleratesBadDate(t *testing.T) {
	var p HistoricalPoint
	if err := json.Unmarshal([]byte(`{"date": "ontem", "value": 4}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !p.Date.IsZero() {
		t.Errorf("Date = %s, expected zero", p.Date)
	}
	if n, ok := p.Value.Number(); !ok || n != 4 {
		t.Errorf("Value = %v, expected 4", p.Value)
	}

	if err := json.Unmarshal([]byte(`{"date": "2024-05-03", "value": []}`), &p); err == nil {
		t.Error("expected an error for a non-scalar value")
	}
}

func TestSplitCompositeID(t *testing.T) {
	tests := []struct {
		sectorID string
		id       string
		expected string
	}{
		{"vendas", "vendas_tg", "tg"},
		{"vendas", "vendas_ticket_medio", "ticket_medio"},
		{"pos_venda", "pos_venda_nps", "nps"},
		{"vendas", "tg", "tg"},
		{"vendas", "vendasx_tg", "vendasx_tg"},
		{"", "_tg", "_tg"},
	}
	for _, tt := range tests {
		if result := SplitCompositeID(tt.sectorID, tt.id); result != tt.expected {
			t.Errorf("SplitCompositeID(%q, %q) = %q, expected %q", tt.sectorID, tt.id, result, tt.expected)
		}
	}

	key := IndicatorKey{SectorID: "pos_venda", IndicatorID: "nps"}
	if key.String() != "pos_venda_nps" {
		t.Errorf("String() = %q", key.String())
	}
}
