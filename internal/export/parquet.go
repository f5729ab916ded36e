package export

import (
	"github.com/parquet-go/parquet-go"

	"PriceWarehouse/internal/model"
)

// ParquetSaver writes the series as a parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(rows []model.DerivedMetricRow, path string) error {
	return parquet.WriteFile(path, toRecords(rows))
}
