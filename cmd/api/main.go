package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/api/handlers"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/api/middleware"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/data"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/recorder"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		log.Printf("[WARN] data directory not found at %s (error: %v)", dataDir, err)
	}

	// Runs are persisted only when a database path is configured.
	var rec recorder.Recorder = recorder.Noop{}
	if dbPath := os.Getenv("SQLITE_PATH"); dbPath != "" {
		r, err := recorder.NewSQLiteRecorder(dbPath)
		if err != nil {
			log.Fatalf("[ERROR] open recorder: %v", err)
		}
		defer r.Close()
		rec = r
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	cache := data.NewBarCache(15 * time.Minute)
	backtestHandler := handlers.NewBacktestHandler(dataDir, cache, rec)
	datasetsHandler := handlers.NewDatasetsHandler(dataDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/backtest", backtestHandler.RunBacktest)
		api.GET("/backtest/:id/transactions", backtestHandler.GetTransactions)
		api.POST("/backtest/compare", backtestHandler.CompareBacktests)

		api.GET("/strategies", handlers.ListStrategies)
		api.GET("/datasets", datasetsHandler.ListDatasets)
	}

	log.Printf("[INFO] api listening on :%s (data dir %s)", port, dataDir)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("[ERROR] server: %v", err)
	}
}
