package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// LoadBarsCSV reads a generic OHLC CSV with headers date, open, high, low,
// close. Headers are case-insensitive; unknown columns are ignored.
func LoadBarsCSV(path string) (*BarFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []model.PriceBar
	var headers []string
	rowIdx := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rowIdx == 0 {
			headers = rec
			rowIdx++
			continue
		}
		rowIdx++

		row := map[string]string{}
		for j, h := range headers {
			if j < len(rec) {
				row[strings.ToLower(strings.TrimSpace(h))] = rec[j]
			}
		}
		dateStr := strings.TrimSpace(row["date"])
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad date %q", path, rowIdx, dateStr)
		}
		bar := model.PriceBar{Date: date}
		for name, dst := range map[string]*float64{
			"open":  &bar.Open,
			"high":  &bar.High,
			"low":   &bar.Low,
			"close": &bar.Close,
		} {
			v, err := parseNumber(row[name])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: bad %s %q", path, rowIdx, name, row[name])
			}
			*dst = v
		}
		bars = append(bars, bar)
	}

	if err := model.ValidateBars(bars); err != nil {
		return nil, err
	}
	ticker := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &BarFile{Ticker: ticker, Bars: bars}, nil
}

// LoadBars dispatches on the file extension: .json or .csv.
func LoadBars(path string) (*BarFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadBarsJSON(path)
	case ".csv":
		return LoadBarsCSV(path)
	default:
		return nil, fmt.Errorf("unsupported bar file %q (want .json or .csv)", path)
	}
}
