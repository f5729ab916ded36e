package export

import (
	"math"
	"strings"

	"PriceWarehouse/internal/model"
)

// Saver writes a derived metric series to a file. The presentation layer only
// reads the series; it never mutates the price store.
type Saver interface {
	Save(rows []model.DerivedMetricRow, path string) error
	Extension() string
}

// NewSaver creates an implementation by format (csv, json, parquet).
// Returns nil if the format is not supported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "json":
		return JSONSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// metricRecord is the flat serialization shape shared by the JSON and parquet
// savers. Undefined metric values become nil so they serialize as null rather
// than NaN (which JSON cannot represent).
type metricRecord struct {
	Date              string   `json:"date" parquet:"date"`
	Close             float64  `json:"close" parquet:"close"`
	DailyReturn       *float64 `json:"daily_return" parquet:"daily_return,optional"`
	RollingMeanReturn *float64 `json:"rolling_mean_return" parquet:"rolling_mean_return,optional"`
	RollingVolatility *float64 `json:"rolling_volatility" parquet:"rolling_volatility,optional"`
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func toRecords(rows []model.DerivedMetricRow) []metricRecord {
	records := make([]metricRecord, len(rows))
	for i, r := range rows {
		records[i] = metricRecord{
			Date:              r.Date.Format(model.DateFormat),
			Close:             r.Close,
			DailyReturn:       optional(r.DailyReturn),
			RollingMeanReturn: optional(r.RollingMeanReturn),
			RollingVolatility: optional(r.RollingVolatility),
		}
	}
	return records
}
