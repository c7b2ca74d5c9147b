// backend-go/internal/api/handlers/plan_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
)

type PlanHandler struct {
	plans  *service.PlanService
	ingest *service.IngestService
}

func NewPlanHandler(plans *service.PlanService, ingest *service.IngestService) *PlanHandler {
	return &PlanHandler{plans: plans, ingest: ingest}
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context(), c.Query("area"))
	if err != nil {
		respondError(c, "failed to fetch plans", err)
		return
	}
	if plans == nil {
		plans = []domain.MonthlyPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) SavePlan(c *gin.Context) {
	var plan domain.MonthlyPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan payload", "details": err.Error()})
		return
	}
	saved, err := h.plans.SavePlan(c.Request.Context(), plan)
	if err != nil {
		respondError(c, "failed to save plan", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.plans.DeletePlan(c.Request.Context(), c.Param("area"), c.Param("itemCode")); err != nil {
		respondError(c, "failed to delete plan", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) GetSummaries(c *gin.Context) {
	summaries, err := h.plans.Summaries(c.Request.Context(), c.Query("area"))
	if err != nil {
		respondError(c, "failed to summarize plans", err)
		return
	}
	if summaries == nil {
		summaries = []domain.PlanSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *PlanHandler) GetWorkDays(c *gin.Context) {
	workDays, err := h.plans.GetWorkDays(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch work days", err)
		return
	}
	c.JSON(http.StatusOK, workDays)
}

func (h *PlanHandler) SaveWorkDays(c *gin.Context) {
	var workDays domain.WorkDays
	if err := c.ShouldBindJSON(&workDays); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work days payload", "details": err.Error()})
		return
	}
	if err := h.plans.SaveWorkDays(c.Request.Context(), workDays); err != nil {
		respondError(c, "failed to save work days", err)
		return
	}
	c.JSON(http.StatusOK, workDays)
}

// ImportRecords accepts a JSON array of records as the request body.
func (h *PlanHandler) ImportRecords(c *gin.Context) {
	result, err := h.ingest.ImportRecords(c.Request.Context(), c.Request.Body)
	if err != nil {
		status := http.StatusBadRequest
		if result.Received > 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": "failed to import records", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportPlans accepts a JSON array of plans as the request body.
func (h *PlanHandler) ImportPlans(c *gin.Context) {
	result, err := h.ingest.ImportPlansJSON(c.Request.Context(), c.Request.Body)
	if err != nil {
		status := statusFor(err)
		if result.Received == 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": "failed to import plans", "details": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, result)
}
