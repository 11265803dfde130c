package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
)

// RecipeScraper serves scrape requests; *scraper.Scraper implements it.
type RecipeScraper interface {
	Scrape(ctx context.Context, req *models.ScrapeRequest) (*models.NormalizedRecipe, error)
}

// Scrape returns a handler for POST /api/scrape on the recipe-scraper service.
//
// A fetch failure answers 502 (504 on timeout). Anything the page did or did
// not contain is still a 200 with empty fields.
func Scrape(sc RecipeScraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if !bindJSON(c, &req) {
			return
		}
		req.Defaults()

		// ── 2. Scrape ───────────────────────────────────────────────
		recipe, err := sc.Scrape(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		slog.Info("recipe scraped",
			"url", req.URL,
			"ingredients", len(recipe.Ingredients),
			"instructions", len(recipe.Instructions),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		c.JSON(http.StatusOK, recipe)
	}
}
