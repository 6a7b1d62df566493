package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers (dashboards) don't block the API's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			ticker      TEXT NOT NULL,
			created_at  INTEGER NOT NULL,
			summary     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			run_id    TEXT NOT NULL REFERENCES runs(id),
			seq       INTEGER NOT NULL,
			date      TEXT NOT NULL,
			action    TEXT NOT NULL,
			quantity  INTEGER NOT NULL,
			price     REAL NOT NULL,
			amount    REAL NOT NULL,
			bank      REAL NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores the run and its tape in one transaction.
func (r *SQLiteRecorder) SaveRun(run Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, ticker, created_at, summary) VALUES (?, ?, ?, ?)`,
		run.ID, run.Ticker, run.CreatedAt.Unix(), string(summary),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO transactions (run_id, seq, date, action, quantity, price, amount, bank)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range run.Transactions {
		if _, err := stmt.Exec(
			run.ID, i, t.Date.Format("2006-01-02"), string(t.Action),
			t.Quantity, t.Price, t.Amount, t.Bank,
		); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// GetRun loads a stored run, including its full tape.
func (r *SQLiteRecorder) GetRun(id string) (*Run, error) {
	var run Run
	var createdAt int64
	var summary string
	err := r.db.QueryRow(
		`SELECT id, ticker, created_at, summary FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Ticker, &createdAt, &summary)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}

	rows, err := r.db.Query(
		`SELECT date, action, quantity, price, amount, bank
		 FROM transactions WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Transaction
		var date, action string
		if err := rows.Scan(&date, &action, &t.Quantity, &t.Price, &t.Amount, &t.Bank); err != nil {
			return nil, err
		}
		t.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, err
		}
		t.Action = model.Action(action)
		run.Transactions = append(run.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *SQLiteRecorder) Close() error { return r.db.Close() }

var _ Recorder = (*SQLiteRecorder)(nil)
