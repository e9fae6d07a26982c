package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

type ReportHandler struct {
	reports *usecase.ReportService
}

func NewReportHandler(reports *usecase.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SalesPerDay aggregates completed sales per calendar day. Optional ?from
// and ?to bound the range (inclusive), formatted 2006-01-02.
func (h *ReportHandler) SalesPerDay(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.reports.SalesPerDay(ctx, from, to)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type exportReq struct {
	Format string `json:"format"` // csv (default) or json
}

func (h *ReportHandler) ExportSales(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	var req exportReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
			return
		}
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" && req.Format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "format must be csv or json"})
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	path, err := h.reports.ExportSales(ctx, req.Format, from, to)
	if err != nil {
		writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": path, "format": req.Format})
}

func dateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	parse := func(name string) (*time.Time, bool) {
		raw := c.Query(name)
		if raw == "" {
			return nil, true
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": name + " must be formatted YYYY-MM-DD"})
			return nil, false
		}
		return &t, true
	}

	if from, ok = parse("from"); !ok {
		return nil, nil, false
	}
	if to, ok = parse("to"); !ok {
		return nil, nil, false
	}
	return from, to, true
}
