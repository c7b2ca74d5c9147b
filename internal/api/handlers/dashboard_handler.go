// backend-go/internal/api/handlers/dashboard_handler.go
package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/export"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

func (h *DashboardHandler) parseFilter(c *gin.Context) (domain.DashboardFilter, bool) {
	filter := domain.DashboardFilter{
		Month:     strings.TrimSpace(c.Query("month")),
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
		Mode:      domain.AggregationMode(strings.ToLower(strings.TrimSpace(c.Query("mode")))),
		Area:      strings.TrimSpace(c.Query("area")),
		Group:     strings.TrimSpace(c.Query("group")),
		Line:      strings.TrimSpace(c.Query("line")),
	}

	if week := strings.TrimSpace(c.Query("week")); week != "" {
		n, err := strconv.Atoi(week)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week", "details": err.Error()})
			return filter, false
		}
		filter.Week = n
	}
	return filter, true
}

func (h *DashboardHandler) GetPeriods(c *gin.Context) {
	opts, err := h.service.Periods(strings.TrimSpace(c.Query("month")))
	if err != nil {
		respondError(c, "failed to build periods", err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *DashboardHandler) GetAreas(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog().Areas())
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	d, rng, err := h.service.Compute(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to compute dashboard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"range": rng, "dashboard": d})
}

func (h *DashboardHandler) GetView(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	view, err := h.service.View(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to compute dashboard view", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportView streams the view as an XLSX attachment.
func (h *DashboardHandler) ExportView(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	view, err := h.service.View(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to compute dashboard view", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, view); err != nil {
		respondError(c, "failed to build workbook", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(view)+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *DashboardHandler) GetRecords(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	records, rng, err := h.service.Records(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "failed to fetch records", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"range":   rng,
		"records": records,
		"total":   len(records),
	})
}

func (h *DashboardHandler) GetLines(c *gin.Context) {
	lines, err := h.service.Lines(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch lines", err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	c.JSON(http.StatusOK, lines)
}
