package upstream

import (
	"context"
	"errors"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
)

// ScraperClient calls the recipe-scraper service.
type ScraperClient struct {
	jsonClient
}

// NewScraperClient creates a client for cfg.ScraperURL.
func NewScraperClient(cfg config.UpstreamConfig) *ScraperClient {
	return &ScraperClient{newJSONClient(cfg.ScraperURL, cfg.ScraperTimeout)}
}

// ScrapeURL posts url to /api/scrape. A transport failure is reported as
// "Scraper request failed: ..." and a non-2xx answer carries {status, error}
// as detail; both use code UPSTREAM_FAILED.
func (c *ScraperClient) ScrapeURL(ctx context.Context, url string) (*models.NormalizedRecipe, error) {
	var recipe models.NormalizedRecipe
	err := c.postJSON(ctx, "/api/scrape", map[string]string{"url": url}, &recipe)

	var statusErr *StatusError
	switch {
	case err == nil:
		if recipe.URL == "" {
			recipe.URL = url
		}
		return &recipe, nil
	case errors.As(err, &statusErr):
		return nil, models.NewAPIError(models.ErrCodeUpstream, "Scraper returned an error", err).
			WithDetail(statusErr.Detail())
	default:
		return nil, models.NewAPIError(models.ErrCodeUpstream, "Scraper request failed: "+err.Error(), err)
	}
}
