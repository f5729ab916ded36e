package export

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"PriceWarehouse/internal/model"
)

// CSVSaver writes the series as CSV
// (header: date,close,daily_return,rolling_mean_return,rolling_volatility).
// Undefined values are written as empty cells.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []model.DerivedMetricRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "close", "daily_return", "rolling_mean_return", "rolling_volatility"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Date.Format(model.DateFormat),
			floatStr(r.Close),
			cellStr(r.DailyReturn),
			cellStr(r.RollingMeanReturn),
			cellStr(r.RollingVolatility),
		}); err != nil {
			return err
		}
	}
	return nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func cellStr(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return floatStr(f)
}
