package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Daily is a sparse date-keyed value series (dividends, daily returns, CPI
// levels). Keys are YYYY-MM-DD.
type Daily map[string]float64

// At implements the engine's series lookup.
func (d Daily) At(dateKey string) (float64, bool) {
	v, ok := d[dateKey]
	return v, ok
}

// LoadDailyCSV reads a two-column date,value CSV into a Daily series.
// A header row is detected and skipped; extra columns are ignored.
func LoadDailyCSV(path string) (Daily, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	out := Daily{}
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if len(rec) < 2 {
			return nil, fmt.Errorf("%s row %d: expected date,value", path, row)
		}
		dateStr := strings.TrimSpace(rec[0])
		if row == 1 && !looksLikeDate(dateStr) {
			continue // header
		}
		if _, err := time.Parse("2006-01-02", dateStr); err != nil {
			return nil, fmt.Errorf("%s row %d: bad date %q", path, row, dateStr)
		}
		v, err := parseNumber(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad value %q", path, row, rec[1])
		}
		out[dateStr] = v
	}
	return out, nil
}

func looksLikeDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// parseNumber goes through decimal so inputs like "110.25" survive exactly
// and stray formatting ("1,234.5", blanks) is rejected consistently.
func parseNumber(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
