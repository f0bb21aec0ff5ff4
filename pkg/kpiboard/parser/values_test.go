package parser

import (
	"testing"
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		input  interface{}
		kind   models.ValueKind
		number float64
		text   string
	}{
		{nil, models.KindUnavailable, 0, ""},
		{"", models.KindUnavailable, 0, ""},
		{"   ", models.KindUnavailable, 0, ""},
		{"12.5", models.KindNumber, 12.5, ""},
		{"12,5", models.KindNumber, 12.5, ""},
		{" 7 ", models.KindNumber, 7, ""},
		{"-3,25", models.KindNumber, -3.25, ""},
		{155, models.KindNumber, 155, ""},
		{int64(-100), models.KindNumber, -100, ""},
		{3.75, models.KindNumber, 3.75, ""},
		{"N/A", models.KindUnavailable, 0, ""},
		{"n/d", models.KindUnavailable, 0, ""},
		{"-", models.KindUnavailable, 0, ""},
		{"#NUM!", models.KindUnavailable, 0, ""},
		{"#num!", models.KindUnavailable, 0, ""},
		{"#DIV/0!", models.KindUnavailable, 0, ""},
		{"pending", models.KindText, 0, "pending"},
		{" em análise ", models.KindText, 0, "em análise"},
		{"1.234,5", models.KindText, 0, "1.234,5"},
		{"NaN", models.KindText, 0, "NaN"},
		{"Inf", models.KindText, 0, "Inf"},
	}

	for _, tt := range tests {
		result := CoerceValue(tt.input)
		if result.Kind() != tt.kind {
			t.Errorf("CoerceValue(%#v) kind = %v, expected %v", tt.input, result.Kind(), tt.kind)
			continue
		}
		if n, ok := result.Number(); ok && n != tt.number {
			t.Errorf("CoerceValue(%#v) = %v, expected %v", tt.input, n, tt.number)
		}
		if tt.kind == models.KindText && result.Text() != tt.text {
			t.Errorf("CoerceValue(%#v) text = %q, expected %q", tt.input, result.Text(), tt.text)
		}
	}
}

func TestCoerceValueSeparatorsAgree(t *testing.T) {
	inputs := []string{"0.5", "12.5", "1000.125", "-7.75", "3"}
	for _, dot := range inputs {
		comma := dot
		for i := range comma {
			if comma[i] == '.' {
				comma = comma[:i] + "," + comma[i+1:]
				break
			}
		}
		a, aok := CoerceValue(dot).Number()
		b, bok := CoerceValue(comma).Number()
		if !aok || !bok || a != b {
			t.Errorf("CoerceValue(%q) = %v, CoerceValue(%q) = %v, expected equal numbers", dot, a, comma, b)
		}
	}
}

func TestParseTarget(t *testing.T) {
	if got := ParseTarget("12,5"); got == nil || *got != 12.5 {
		t.Errorf("ParseTarget(\"12,5\") = %v, expected 12.5", got)
	}
	if got := ParseTarget("about ten"); got != nil {
		t.Errorf("ParseTarget(\"about ten\") = %v, expected nil", *got)
	}
	if got := ParseTarget(nil); got != nil {
		t.Errorf("ParseTarget(nil) = %v, expected nil", *got)
	}
	if got := ParseTarget(""); got != nil {
		t.Errorf("ParseTarget(\"\") = %v, expected nil", *got)
	}
}

func TestParseTrend(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected models.Trend
	}{
		{"up", models.TrendUp},
		{" UP ", models.TrendUp},
		{"Down", models.TrendDown},
		{"stable", models.TrendStable},
		{"sideways", models.TrendStable},
		{nil, models.TrendStable},
	}
	for _, tt := range tests {
		if result := ParseTrend(tt.input); result != tt.expected {
			t.Errorf("ParseTrend(%#v) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestParseRecordDate(t *testing.T) {
	want := models.NewDate(2024, time.May, 3)
	tests := []struct {
		input interface{}
		ok    bool
	}{
		{"2024-05-03", true},
		{"2024-05-03T00:00:00Z", true},
		{"03/05/2024", true},
		{"3/5/2024", true},
		{"03/5/2024", true},
		{"05-03-24", true},
		{time.Date(2024, time.May, 3, 15, 30, 0, 0, time.UTC), true},
		{45415.0, true},
		{"not a date", false},
		{"", false},
		{nil, false},
	}
	for _, tt := range tests {
		result, ok := ParseRecordDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseRecordDate(%#v) ok = %v, expected %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && !result.Equal(want) {
			t.Errorf("ParseRecordDate(%#v) = %s, expected %s", tt.input, result, want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected models.Format
	}{
		{"% De Entregas No Prazo", "", models.FormatPercentage},
		{"CONVERSÃO BOT", "", models.FormatPercentage},
		{"Taxa de conversão", "", models.FormatPercentage},
		{"Retorno", "%", models.FormatPercentage},
		{"Custo Logístico (R$)", "", models.FormatCurrency},
		{"Faturamento", "brl", models.FormatCurrency},
		{"Vendas TG", "", models.FormatNumber},
		{"Vendas TG", "un", models.FormatNumber},
	}
	for _, tt := range tests {
		if result := DetectFormat(tt.name, tt.unit); result != tt.expected {
			t.Errorf("DetectFormat(%q, %q) = %q, expected %q", tt.name, tt.unit, result, tt.expected)
		}
	}
}
