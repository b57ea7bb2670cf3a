package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/middleware"
)

// RouterConfig holds everything the HTTP API is built from
type RouterConfig struct {
	Env         string
	Production  bool
	CORSOrigins []string
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *middleware.RateLimiter
	// Metrics serves GET /metrics when set
	Metrics http.Handler
	Logger  logger.Logger

	Insights     *InsightsHandler
	Observations *ObservationHandler
	Medications  *MedicationHandler
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeaders(cfg.Production))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimiter != nil {
		v1.Use(cfg.RateLimiter.Handler())
	}
	{
		v1.GET("/catalog", GetCatalog)

		// Insight routes
		v1.GET("/reports/short", cfg.Insights.GetShortReport)
		v1.GET("/reports/long", cfg.Insights.GetLongReport)
		v1.GET("/reports", cfg.Insights.GetCustomReport)
		v1.GET("/trends", cfg.Insights.GetTrend)
		v1.GET("/entries", cfg.Insights.GetEntries)
		v1.GET("/notifications", cfg.Insights.Notifications)

		// Observation routes
		v1.GET("/observations", cfg.Observations.ListObservations)
		v1.POST("/observations", cfg.Observations.CreateObservation)
		v1.GET("/observations/:id", cfg.Observations.GetObservation)
		v1.PATCH("/observations/:id", cfg.Observations.UpdateObservation)
		v1.DELETE("/observations/:id", cfg.Observations.DeleteObservation)

		// Medication routes
		v1.GET("/medications", cfg.Medications.ListMedications)
		v1.POST("/medications", cfg.Medications.CreateMedication)
		v1.GET("/medications/:id", cfg.Medications.GetMedication)

		v1.GET("/medication-intakes", cfg.Medications.ListIntakes)
		v1.POST("/medication-intakes", cfg.Medications.CreateIntake)
		v1.GET("/medication-intakes/:id", cfg.Medications.GetIntake)
		v1.PATCH("/medication-intakes/:id", cfg.Medications.UpdateIntake)
		v1.DELETE("/medication-intakes/:id", cfg.Medications.DeleteIntake)
	}

	return router
}
