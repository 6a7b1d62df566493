package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/api/models"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/config"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/data"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/recorder"
)

// BacktestHandler runs simulations over bar files in the data directory and
// records completed runs.
type BacktestHandler struct {
	dataDir string
	cache   *data.BarCache
	rec     recorder.Recorder
}

// NewBacktestHandler wires the handler. rec may be a recorder.Noop.
func NewBacktestHandler(dataDir string, cache *data.BarCache, rec recorder.Recorder) *BacktestHandler {
	return &BacktestHandler{dataDir: dataDir, cache: cache, rec: rec}
}

// RunBacktest handles POST /api/v1/backtest.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	bars, ticker, err := h.loadBars(req.DataSource)
	if err != nil {
		badRequest(c, "DATA_LOAD_ERROR", err)
		return
	}

	params, err := h.buildParams(req.Config)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	// Compare against the buyback-disabled baseline so the summary carries
	// volatility alpha; the configured variant is the reported run.
	res, err := runVariant(params, backtest.Inputs{Bars: bars})
	if err != nil {
		mtxRuns.WithLabelValues("error").Inc()
		status := http.StatusInternalServerError
		var cfgErr *backtest.ConfigurationError
		if errors.As(err, &cfgErr) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "BACKTEST_ERROR",
			Message: err.Error(),
		}})
		return
	}
	mtxRuns.WithLabelValues("ok").Inc()
	mtxOrders.WithLabelValues("BUY").Add(float64(res.Summary.Buys))
	mtxOrders.WithLabelValues("SELL").Add(float64(res.Summary.Sells))

	id := uuid.NewString()
	if err := h.rec.SaveRun(recorder.Run{
		ID:           id,
		Ticker:       ticker,
		CreatedAt:    time.Now().UTC(),
		Summary:      res.Summary,
		Transactions: res.Transactions,
	}); err != nil {
		// Persistence is best-effort; the response still carries the result.
		c.Header("X-Recorder-Error", err.Error())
	}

	resp := models.BacktestResponse{
		ID:      id,
		Status:  "completed",
		Ticker:  ticker,
		Summary: res.Summary,
	}
	if req.Options.IncludeTransactions {
		resp.Transactions = models.Rows(res.Transactions)
	}
	c.JSON(http.StatusOK, resp)
}

// GetTransactions handles GET /api/v1/backtest/:id/transactions from the
// recorder.
func (h *BacktestHandler) GetTransactions(c *gin.Context) {
	run, err := h.rec.GetRun(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		code := "RECORDER_ERROR"
		if errors.Is(err, recorder.ErrNotFound) {
			status = http.StatusNotFound
			code = "RUN_NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		}})
		return
	}
	c.JSON(http.StatusOK, models.BacktestResponse{
		ID:           run.ID,
		Status:       "completed",
		Ticker:       run.Ticker,
		Summary:      run.Summary,
		Transactions: models.Rows(run.Transactions),
	})
}

// CompareBacktests handles POST /api/v1/backtest/compare: the base config
// plus each variation, all over the same bars.
func (h *BacktestHandler) CompareBacktests(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	bars, _, err := h.loadBars(req.DataSource)
	if err != nil {
		badRequest(c, "DATA_LOAD_ERROR", err)
		return
	}

	variations := append([]models.Variation{{Name: "base", Config: req.BaseConfig}}, req.Variations...)
	results := make([]models.NamedSummary, 0, len(variations))
	for _, v := range variations {
		params, err := h.buildParams(v.Config)
		if err != nil {
			badRequest(c, "INVALID_CONFIG", err)
			return
		}
		res, err := runVariant(params, backtest.Inputs{Bars: bars})
		if err != nil {
			mtxRuns.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.ErrorDetail{
				Code:    "BACKTEST_ERROR",
				Message: err.Error(),
				Details: map[string]any{"variation": v.Name},
			}})
			return
		}
		mtxRuns.WithLabelValues("ok").Inc()
		results = append(results, models.NamedSummary{Name: v.Name, Summary: res.Summary})
	}
	c.JSON(http.StatusOK, models.CompareResponse{Status: "completed", Results: results})
}

// runVariant executes params with the volatility-alpha baseline when buyback
// is enabled; a buyback-disabled config is its own baseline.
func runVariant(params backtest.Params, in backtest.Inputs) (*backtest.Result, error) {
	if !params.Strategy.Buyback {
		eng, err := backtest.New(params)
		if err != nil {
			return nil, err
		}
		return eng.Run(in)
	}
	cmp, err := backtest.Compare(params, in)
	if err != nil {
		return nil, err
	}
	return cmp.Run, nil
}

// loadBars resolves the requested path inside the data directory and loads
// it through the cache.
func (h *BacktestHandler) loadBars(src models.DataSourceConfig) ([]model.PriceBar, string, error) {
	clean := filepath.Clean(src.Path)
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, "", errors.New("path must be relative to the data directory")
	}
	bf, err := h.cache.Load(filepath.Join(h.dataDir, clean))
	if err != nil {
		return nil, "", err
	}
	bars := bf.Bars
	if src.LimitBars > 0 && src.LimitBars < len(bars) {
		bars = bars[:src.LimitBars]
	}
	return bars, bf.Ticker, nil
}

// buildParams resolves a request's run configuration into engine parameters.
func (h *BacktestHandler) buildParams(rc models.RunConfig) (backtest.Params, error) {
	strat := rc.Strategy
	if rc.StrategyFile != "" {
		base, err := config.LoadStrategyFile(filepath.Join(h.dataDir, filepath.Clean(rc.StrategyFile)))
		if err != nil {
			return backtest.Params{}, err
		}
		strat = config.MergeStrategy(base, rc.Strategy)
	}
	cfg := &config.Config{
		Strategy:    strat,
		Withdrawal:  rc.Withdrawal,
		Adjustments: rc.Adjustments,
		Simple:      rc.Simple,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return backtest.Params{}, err
	}
	return cfg.EngineParams(), nil
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
		Code:    code,
		Message: err.Error(),
	}})
}
