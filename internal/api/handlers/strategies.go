package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListStrategies handles GET /api/v1/strategies: the closed set of engine
// capabilities a request can combine.
func ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"variants": []gin.H{
			{
				"name":        "buyback",
				"description": "Sell at bracket highs, buy back at bracket lows via the FIFO ledger",
			},
			{
				"name":        "ath-only",
				"description": "Sell at bracket highs only; set \"buyback\": false",
			},
			{
				"name":        "buy-and-hold",
				"description": "Opening buy only; set \"profit_sharing\": 0",
			},
		},
		"margin_modes": []string{"permissive", "strict"},
	})
}
