package backtest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

func TestWriteTransactionsCSV(t *testing.T) {
	txs := []model.Transaction{
		{
			Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Action:   model.ActionBuy,
			Quantity: 42,
			Price:    110.25,
			Amount:   4630.5,
			Bank:     -4630.5,
		},
		{
			Date:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Action: model.ActionWithdraw,
			Amount: 0.1 + 0.2,
			Bank:   0,
		},
	}

	path := filepath.Join(t.TempDir(), "tape.csv")
	if err := WriteTransactionsCSV(path, txs); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2 entries", len(rows))
	}
	if rows[0][0] != "date" || rows[0][5] != "bank" {
		t.Errorf("header = %v", rows[0])
	}

	want := []string{"2024-01-02", "BUY", "42", "110.25", "4630.50", "-4630.50"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("row 1 col %d = %q, want %q", i, rows[1][i], cell)
		}
	}

	// Money fields render exact cents, not float artifacts.
	if rows[2][4] != "0.30" {
		t.Errorf("amount = %q, want 0.30", rows[2][4])
	}
}
