// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/prodtrack/backend-go/internal/api/handlers"
	"github.com/andresuchdata/prodtrack/backend-go/internal/api/middleware"
	"github.com/andresuchdata/prodtrack/backend-go/internal/drive"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
)

type Services struct {
	Dashboard *service.DashboardService
	Plans     *service.PlanService
	Ingest    *service.IngestService
	// Drive is nil when no service account is configured.
	Drive *drive.Handler
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		apiGroup.GET("/periods", dashboardHandler.GetPeriods)
		apiGroup.GET("/areas", dashboardHandler.GetAreas)
		apiGroup.GET("/records", dashboardHandler.GetRecords)
		apiGroup.GET("/lines", dashboardHandler.GetLines)

		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("", dashboardHandler.GetDashboard)
			dashboardGroup.GET("/view", dashboardHandler.GetView)
			dashboardGroup.GET("/export", dashboardHandler.ExportView)
		}
	}

	if services.Plans != nil && services.Ingest != nil {
		planHandler := handlers.NewPlanHandler(services.Plans, services.Ingest)
		apiGroup.POST("/records/import", planHandler.ImportRecords)
		apiGroup.GET("/workdays", planHandler.GetWorkDays)
		apiGroup.PUT("/workdays", planHandler.SaveWorkDays)

		planGroup := apiGroup.Group("/plans")
		{
			planGroup.GET("", planHandler.ListPlans)
			planGroup.PUT("", planHandler.SavePlan)
			planGroup.DELETE("/:area/:itemCode", planHandler.DeletePlan)
			planGroup.GET("/summary", planHandler.GetSummaries)
			planGroup.POST("/import", planHandler.ImportPlans)
		}
	}

	if services.Drive != nil {
		driveGroup := apiGroup.Group("/drive")
		{
			driveGroup.GET("/files", services.Drive.ListFiles)
		}
		apiGroup.POST("/plans/import/drive", services.Drive.ImportPlans)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
