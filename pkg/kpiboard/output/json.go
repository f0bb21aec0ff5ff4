// Package output provides serialization of dashboard snapshots.
package output

import (
	"encoding/json"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// ToJSON serializes a dashboard to JSON.
func ToJSON(data *models.DashboardData, pretty bool) ([]byte, error) {
	return Marshal(data, pretty)
}

// Marshal serializes any response value with the same formatting rules as ToJSON.
func Marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
