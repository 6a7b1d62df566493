package backtest

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// WriteTransactionsCSV writes the trade tape. Money columns are rendered to
// exact cents; the tape is the primary "what happened" artifact of a run.
func WriteTransactionsCSV(path string, txs []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "action", "quantity", "price", "amount", "bank"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range txs {
		row := []string{
			t.Date.Format("2006-01-02"),
			string(t.Action),
			strconv.Itoa(t.Quantity),
			model.Cents(t.Price),
			model.Cents(t.Amount),
			model.Cents(t.Bank),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
