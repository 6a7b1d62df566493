package data

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// BarFile is a loaded price history.
type BarFile struct {
	Ticker string           `json:"ticker"`
	Bars   []model.PriceBar `json:"bars"`
}

// On-disk JSON shape. Dates are plain YYYY-MM-DD strings:
//
//	{
//	  "ticker": "SPY",
//	  "bars": [ {"date": "2024-01-02", "open": ..., "high": ..., "low": ..., "close": ...}, ... ]
//	}
type barFileJSON struct {
	Ticker string    `json:"ticker"`
	Bars   []barJSON `json:"bars"`
}

type barJSON struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// LoadBarsJSON reads and validates a bar file.
func LoadBarsJSON(path string) (*BarFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bf barFileJSON
	if err := json.Unmarshal(raw, &bf); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(bf.Bars))
	for i, b := range bf.Bars {
		date, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return nil, fmt.Errorf("%s bar %d: bad date %q", path, i, b.Date)
		}
		bars = append(bars, model.PriceBar{
			Date:  date,
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		})
	}
	if err := model.ValidateBars(bars); err != nil {
		return nil, err
	}
	return &BarFile{Ticker: bf.Ticker, Bars: bars}, nil
}
