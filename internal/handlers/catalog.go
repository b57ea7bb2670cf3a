package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

type categoryCatalog struct {
	Category models.Category      `json:"category"`
	Patterns []models.PatternInfo `json:"patterns"`
}

// GetCatalog handles GET /api/v1/catalog: every category with its pattern
// types in display order
func GetCatalog(c *gin.Context) {
	catalog := make([]categoryCatalog, 0, len(models.Categories))
	for _, cat := range models.Categories {
		catalog = append(catalog, categoryCatalog{
			Category: cat,
			Patterns: models.PatternsFor(cat),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": catalog,
		"metrics": []models.TrendMetric{
			models.MetricDayScore, models.MetricDailyCount, models.MetricIntensity, models.MetricEnergyLevel,
			models.MetricMood, models.MetricEnergy, models.MetricEffectiveness,
		},
	})
}
