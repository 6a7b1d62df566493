package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// DatasetsHandler lists the bar files available to backtest requests.
type DatasetsHandler struct {
	dataDir string
}

func NewDatasetsHandler(dataDir string) *DatasetsHandler {
	return &DatasetsHandler{dataDir: dataDir}
}

// ListDatasets handles GET /api/v1/datasets.
func (h *DatasetsHandler) ListDatasets(c *gin.Context) {
	entries, err := os.ReadDir(h.dataDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "DATA_DIR_ERROR", "message": err.Error()},
		})
		return
	}

	var files []gin.H
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".csv" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, gin.H{
			"path": e.Name(),
			"size": info.Size(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data_dir": h.dataDir, "datasets": files})
}
