package data

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadBarsCSV(t *testing.T) {
	path := writeFile(t, "TEST.csv", `Date,Open,High,Low,Close,Volume
2024-01-02,100,105,99,104,12345
2024-01-03,104,110.25,103,110,23456
`)

	bf, err := LoadBarsCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bf.Ticker != "TEST" {
		t.Errorf("ticker = %q, want TEST (from the filename)", bf.Ticker)
	}
	if len(bf.Bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bf.Bars))
	}
	b := bf.Bars[1]
	if b.DateKey() != "2024-01-03" || b.High != 110.25 {
		t.Errorf("bar = %+v, want 2024-01-03 high 110.25", b)
	}
}

func TestLoadBarsCSV_RejectsBadRows(t *testing.T) {
	path := writeFile(t, "bad.csv", `date,open,high,low,close
2024-01-02,100,105,99,104
2024-01-01,104,110,103,110
`)
	if _, err := LoadBarsCSV(path); err == nil {
		t.Fatal("descending dates must be rejected")
	}

	path = writeFile(t, "bad2.csv", `date,open,high,low,close
2024-01-02,100,95,99,104
`)
	if _, err := LoadBarsCSV(path); err == nil {
		t.Fatal("high below low must be rejected")
	}
}

func TestLoadBarsJSON(t *testing.T) {
	path := writeFile(t, "spy.json", `{
  "ticker": "SPY",
  "bars": [
    {"date": "2024-01-02", "open": 100, "high": 105, "low": 99, "close": 104},
    {"date": "2024-01-03", "open": 104, "high": 110, "low": 103, "close": 110}
  ]
}`)

	bf, err := LoadBarsJSON(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bf.Ticker != "SPY" || len(bf.Bars) != 2 {
		t.Fatalf("got ticker %q with %d bars", bf.Ticker, len(bf.Bars))
	}
	if bf.Bars[0].DateKey() != "2024-01-02" {
		t.Errorf("date = %q, want 2024-01-02", bf.Bars[0].DateKey())
	}

	bad := writeFile(t, "bad.json", `{"ticker": "X", "bars": [{"date": "Jan 2", "open": 1, "high": 1, "low": 1, "close": 1}]}`)
	if _, err := LoadBarsJSON(bad); err == nil {
		t.Fatal("bad date format must be rejected")
	}
}

func TestLoadBars_Dispatch(t *testing.T) {
	if _, err := LoadBars("prices.parquet"); err == nil {
		t.Fatal("unknown extension must be rejected")
	}
}

func TestLoadDailyCSV(t *testing.T) {
	path := writeFile(t, "div.csv", `date,amount
2024-03-15,0.47
2024-06-14,0.51
`)
	d, err := LoadDailyCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(d) != 2 {
		t.Fatalf("entries = %d, want 2", len(d))
	}
	if v, ok := d.At("2024-03-15"); !ok || v != 0.47 {
		t.Errorf("At(2024-03-15) = (%v, %v), want (0.47, true)", v, ok)
	}
	if _, ok := d.At("2024-03-16"); ok {
		t.Error("missing date must report !ok")
	}
}

func TestLoadDailyCSV_NoHeader(t *testing.T) {
	path := writeFile(t, "rates.csv", `2024-01-02,0.0001
2024-01-03,-0.0002
`)
	d, err := LoadDailyCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(d) != 2 {
		t.Errorf("entries = %d, want 2 (first row is data, not a header)", len(d))
	}
}

func TestLoadDailyCSV_BadValue(t *testing.T) {
	path := writeFile(t, "bad.csv", `date,value
2024-01-02,not-a-number
`)
	if _, err := LoadDailyCSV(path); err == nil {
		t.Fatal("bad value must be rejected")
	}
}
