package parser

import (
	"strings"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

const (
	// currencyCode is the unit literal that marks a currency indicator.
	currencyCode = "BRL"
	// currencyMarker marks a currency indicator by name, e.g. "Custo (R$)".
	currencyMarker = "(R$)"
)

// conversionWords mark a percentage indicator by name.
var conversionWords = []string{"CONVERSÃO", "CONVERSAO"}

// DetectFormat guesses an indicator's presentation from its name and unit.
func DetectFormat(name, unit string) models.Format {
	upperName := strings.ToUpper(name)
	upperUnit := strings.ToUpper(strings.TrimSpace(unit))

	if strings.Contains(upperName, "%") || upperUnit == "%" {
		return models.FormatPercentage
	}
	for _, w := range conversionWords {
		if strings.Contains(upperName, w) {
			return models.FormatPercentage
		}
	}
	if upperUnit == currencyCode || strings.Contains(upperName, currencyMarker) {
		return models.FormatCurrency
	}
	return models.FormatNumber
}
