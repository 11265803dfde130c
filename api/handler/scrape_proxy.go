package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/nutrition"
)

// ScrapeSource produces a normalized recipe for a URL: either the
// recipe-scraper service (upstream.ScraperClient) or the in-process
// scraper.Scraper.
type ScrapeSource interface {
	ScrapeURL(ctx context.Context, url string) (*models.NormalizedRecipe, error)
}

type scrapeOutRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ScrapeForForm returns a handler for POST /api/scrape on the recipes
// service. It reshapes the scraped recipe to pre-fill the recipe form.
func ScrapeForForm(src ScrapeSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scrapeOutRequest
		if !bindJSON(c, &req) {
			return
		}

		recipe, err := src.ScrapeURL(c.Request.Context(), req.URL)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, nutrition.ToScrapeOut(recipe))
	}
}
