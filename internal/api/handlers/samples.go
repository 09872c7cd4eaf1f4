package handlers

import (
	"net/http"

	"tga-liquidity/internal/api/models"
	"tga-liquidity/internal/ingest/samples"

	"github.com/gin-gonic/gin"
)

// ListSamples handles GET /api/v1/samples
func ListSamples(c *gin.Context) {
	names := samples.Names()
	out := make([]models.SampleInfo, 0, len(names))
	for _, n := range names {
		out = append(out, models.SampleInfo{Name: n, URL: "/api/v1/samples/" + n})
	}
	c.JSON(http.StatusOK, gin.H{"samples": out})
}

// DownloadSample handles GET /api/v1/samples/:name
func DownloadSample(c *gin.Context) {
	name := c.Param("name")
	raw, err := samples.Open(name)
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "unknown sample "+name, nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", raw)
}
