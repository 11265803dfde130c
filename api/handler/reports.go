package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/store"
)

// DailyNutrition returns a handler for
// GET /api/meals/nutritionReport/daily?start=&end=&person=.
func DailyNutrition(repo *store.ReportRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := mealFilter(c, true)
		if !ok {
			return
		}
		days, err := repo.Daily(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, days)
	}
}

// NutritionReport returns a handler for
// GET /api/meals/nutritionReport?start=&end=&person=.
func NutritionReport(repo *store.ReportRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := mealFilter(c, true)
		if !ok {
			return
		}
		totals, err := repo.Totals(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.NutritionReport{
			Start:  *filter.Start,
			End:    *filter.End,
			Totals: totals,
		})
	}
}
