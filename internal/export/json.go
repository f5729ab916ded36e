package export

import (
	"encoding/json"
	"os"

	"PriceWarehouse/internal/model"
)

// JSONSaver writes the series as an indented JSON array.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(rows []model.DerivedMetricRow, path string) error {
	data, err := json.MarshalIndent(toRecords(rows), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
