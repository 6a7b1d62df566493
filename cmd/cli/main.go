package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/analysis"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/config"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/data"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/recorder"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli backtest --config examples/config.yaml [--out results/transactions.csv] [--tape] [--db runs.db]")
	fmt.Println("  cli compare --config examples/config.yaml")
	fmt.Println("  cli sweep --config examples/config.yaml --r-from 0.05 --r-to 0.15 --r-step 0.01")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - backtest runs one configuration and writes the transaction tape")
	fmt.Println("  - compare runs the buyback and no-buyback variants and reports volatility alpha")
	fmt.Println("  - sweep ranks a (trigger, profit-sharing) grid by annualized return")
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	barsPath := fs.String("bars", "", "Override the bar file from the config")
	outPath := fs.String("out", "", "Optional transaction CSV path")
	tape := fs.Bool("tape", false, "Print the transaction tape")
	dbPath := fs.String("db", "", "Optional sqlite path to record the run")
	n := fs.Int("n", 0, "Optional: limit to first N bars (0=all)")
	_ = fs.Parse(args)

	cfg, in, ticker := loadRun(*cfgPath, *barsPath, *n)

	res, err := runConfigured(cfg.EngineParams(), in)
	if err != nil {
		log.Fatalf("[ERROR] backtest: %v", err)
	}

	if *tape {
		for _, t := range res.Transactions {
			fmt.Println(t)
		}
		fmt.Println()
	}
	printSummary(ticker, res.Summary)

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			log.Fatalf("[ERROR] create output dir: %v", err)
		}
		if err := backtest.WriteTransactionsCSV(*outPath, res.Transactions); err != nil {
			log.Fatalf("[ERROR] write csv: %v", err)
		}
		fmt.Printf("Wrote %d transactions to %s\n", len(res.Transactions), *outPath)
	}

	if *dbPath != "" {
		rec, err := recorder.NewSQLiteRecorder(*dbPath)
		if err != nil {
			log.Fatalf("[ERROR] open recorder: %v", err)
		}
		defer rec.Close()
		id := uuid.NewString()
		if err := rec.SaveRun(recorder.Run{
			ID:           id,
			Ticker:       ticker,
			CreatedAt:    time.Now().UTC(),
			Summary:      res.Summary,
			Transactions: res.Transactions,
		}); err != nil {
			log.Fatalf("[ERROR] record run: %v", err)
		}
		fmt.Printf("Recorded run %s\n", id)
	}
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	barsPath := fs.String("bars", "", "Override the bar file from the config")
	n := fs.Int("n", 0, "Optional: limit to first N bars (0=all)")
	_ = fs.Parse(args)

	cfg, in, ticker := loadRun(*cfgPath, *barsPath, *n)

	cmp, err := backtest.Compare(cfg.EngineParams(), in)
	if err != nil {
		log.Fatalf("[ERROR] compare: %v", err)
	}
	if err := analysis.ValidateLedgerConvergence(cmp); err != nil {
		log.Printf("[WARN] variant consistency: %v", err)
	}

	fmt.Println("=== buyback ===")
	printSummary(ticker, cmp.Run.Summary)
	fmt.Println("\n=== no buyback (baseline) ===")
	printSummary(ticker, cmp.Baseline.Summary)
	fmt.Printf("\nVolatility alpha: %.4f%%\n", cmp.Run.Summary.VolatilityAlpha*100)
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	barsPath := fs.String("bars", "", "Override the bar file from the config")
	rFrom := fs.Float64("r-from", 0.05, "Trigger range start")
	rTo := fs.Float64("r-to", 0.15, "Trigger range end")
	rStep := fs.Float64("r-step", 0.01, "Trigger range step")
	sFrom := fs.Float64("s-from", 0.25, "Profit-sharing range start")
	sTo := fs.Float64("s-to", 1.0, "Profit-sharing range end")
	sStep := fs.Float64("s-step", 0.25, "Profit-sharing range step")
	top := fs.Int("top", 20, "Show the best N cells")
	_ = fs.Parse(args)

	cfg, in, ticker := loadRun(*cfgPath, *barsPath, 0)

	cells, err := analysis.Sweep(cfg.EngineParams(), in,
		analysis.Grid(*rFrom, *rTo, *rStep),
		analysis.Grid(*sFrom, *sTo, *sStep))
	if err != nil {
		log.Fatalf("[ERROR] sweep: %v", err)
	}

	fmt.Printf("Sweep over %s: %d cells\n\n", ticker, len(cells))
	fmt.Printf("%-4s %-8s %-8s %-10s %-10s %-10s %-8s\n",
		"rank", "r", "s", "annual%", "alpha%", "bank_min", "sells")
	for i, cell := range cells {
		if i >= *top {
			break
		}
		fmt.Printf("%-4d %-8.4f %-8.2f %-10.2f %-10.2f %-10s %-8d\n",
			i+1,
			cell.Trigger,
			cell.ProfitSharing,
			cell.Summary.AnnualizedReturn*100,
			cell.Summary.VolatilityAlpha*100,
			humanize.Commaf(cell.Summary.BankMin),
			cell.Summary.Sells,
		)
	}
}

// runConfigured executes the configured variant, pairing it with its
// buyback-disabled baseline when buyback is enabled so the summary carries
// volatility alpha.
func runConfigured(p backtest.Params, in backtest.Inputs) (*backtest.Result, error) {
	if !p.Strategy.Buyback {
		eng, err := backtest.New(p)
		if err != nil {
			return nil, err
		}
		return eng.Run(in)
	}
	cmp, err := backtest.Compare(p, in)
	if err != nil {
		return nil, err
	}
	return cmp.Run, nil
}

// loadRun loads the config, the bar file and the optional series.
func loadRun(cfgPath, barsOverride string, limit int) (*config.Config, backtest.Inputs, string) {
	if cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[ERROR] load config: %v", err)
	}

	barsPath := cfg.Data.Bars
	if barsOverride != "" {
		barsPath = barsOverride
	}
	if barsPath == "" {
		log.Fatalf("[ERROR] no bar file: set data.bars in the config or pass --bars")
	}
	bf, err := data.LoadBars(barsPath)
	if err != nil {
		log.Fatalf("[ERROR] load bars: %v", err)
	}
	bars := bf.Bars
	if limit > 0 && limit < len(bars) {
		bars = bars[:limit]
	}

	in := backtest.Inputs{Bars: bars}
	in.Dividends = loadSeries(cfg.Data.Dividends, "dividends")
	in.Reference = loadSeries(cfg.Data.ReferenceReturns, "reference returns")
	in.RiskFree = loadSeries(cfg.Data.RiskFreeReturns, "risk-free returns")
	in.CPI = loadSeries(cfg.Data.CPI, "cpi")

	ticker := cfg.Ticker
	if ticker == "" {
		ticker = bf.Ticker
	}
	return cfg, in, ticker
}

func loadSeries(path, name string) backtest.Series {
	if path == "" {
		return nil
	}
	s, err := data.LoadDailyCSV(path)
	if err != nil {
		log.Fatalf("[ERROR] load %s: %v", name, err)
	}
	return s
}

func printSummary(ticker string, s backtest.Summary) {
	fmt.Printf("%s %s .. %s (%d bars)\n", ticker,
		s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"), s.Bars)
	fmt.Printf("  initial value   $%s\n", humanize.CommafWithDigits(s.InitialValue, 2))
	fmt.Printf("  final value     $%s (%d shares, bank $%s)\n",
		humanize.CommafWithDigits(s.FinalValue, 2), s.FinalHoldings,
		humanize.CommafWithDigits(s.FinalBank, 2))
	fmt.Printf("  all-time high   $%s\n", humanize.CommafWithDigits(s.AllTimeHigh, 2))
	fmt.Printf("  total return    %.2f%%  annualized %.2f%%\n", s.TotalReturn*100, s.AnnualizedReturn*100)
	fmt.Printf("  volatility alpha %.4f%%  realized alpha $%s\n",
		s.VolatilityAlpha*100, humanize.CommafWithDigits(s.RealizedAlpha, 2))
	fmt.Printf("  orders          %d buys, %d sells, %d skipped\n", s.Buys, s.Sells, s.SkippedOrders)
	if s.Withdrawals > 0 {
		fmt.Printf("  withdrawn       $%s over %d withdrawals (shortfall $%s)\n",
			humanize.CommafWithDigits(s.TotalWithdrawn, 2), s.Withdrawals,
			humanize.CommafWithDigits(s.WithdrawalShortfall, 2))
	}
	fmt.Printf("  bank            min $%s  max $%s  avg $%s  (%d neg / %d pos days)\n",
		humanize.CommafWithDigits(s.BankMin, 2), humanize.CommafWithDigits(s.BankMax, 2),
		humanize.CommafWithDigits(s.BankAvg, 2), s.DaysNegative, s.DaysPositive)
	fmt.Printf("  adjustments     opportunity cost $%s  risk-free gains $%s\n",
		humanize.CommafWithDigits(s.OpportunityCost, 2), humanize.CommafWithDigits(s.RiskFreeGains, 2))
	fmt.Printf("  deployment      min %.1f%%  max %.1f%%  avg %.1f%%\n",
		s.DeploymentMin*100, s.DeploymentMax*100, s.DeploymentAvg*100)
}
