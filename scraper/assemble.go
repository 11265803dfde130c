package scraper

import (
	"log/slog"

	"github.com/DDDesignDev/homelab/jsonld"
	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/normalize"
	"github.com/DDDesignDev/homelab/sites"
)

// Assemble builds a recipe from an already fetched page. The site scraper
// is tried first; when the site is unsupported or its scraper fails, the
// page's schema.org Recipe record is used instead. It never fails.
func Assemble(pageURL, rawHTML string, registry *sites.Registry) *models.NormalizedRecipe {
	res := registry.Scrape(pageURL, rawHTML)

	switch res.Status {
	case sites.StatusSupported:
		return FromFields(pageURL, res.Fields)
	default:
		slog.Debug("site scraper not applicable, using schema.org data",
			"url", pageURL, "status", res.Status.String(), "error", res.Err,
		)
		return FromSchema(pageURL, jsonld.ExtractRecipe(rawHTML))
	}
}

// FromFields maps site scraper output. Only the total duration is known on
// this path.
func FromFields(pageURL string, f sites.Fields) *models.NormalizedRecipe {
	nutrition := f.Nutrients
	if nutrition == nil {
		nutrition = map[string]any{}
	}
	return &models.NormalizedRecipe{
		URL:              pageURL,
		Title:            f.Title,
		Author:           f.Author,
		CanonicalURL:     f.CanonicalURL,
		TotalTimeMinutes: f.TotalTime,
		Yields:           f.Yields,
		Image:            f.Image,
		Ingredients:      normalize.CleanLines(f.Ingredients),
		Instructions:     normalize.CleanLines(f.Instructions),
		Nutrition:        nutrition,
	}
}

// FromSchema maps a schema.org Recipe record. An empty record yields a
// recipe with only the URL set.
func FromSchema(pageURL string, rec map[string]any) *models.NormalizedRecipe {
	r := &models.NormalizedRecipe{
		URL:          pageURL,
		Ingredients:  normalize.CleanLines(jsonld.Ingredients(rec)),
		Instructions: normalize.CleanLines(jsonld.Instructions(rec)),
		Nutrition:    jsonld.Nutrition(rec),
	}

	if s, ok := jsonld.String(rec, "name"); ok {
		r.Title = &s
	}
	if s, ok := jsonld.AuthorName(rec); ok {
		r.Author = &s
	}
	if s, ok := jsonld.CanonicalURL(rec); ok {
		r.CanonicalURL = &s
	}
	r.PrepTimeMinutes = duration(rec, "prepTime")
	r.CookTimeMinutes = duration(rec, "cookTime")
	r.TotalTimeMinutes = duration(rec, "totalTime")
	if s, ok := jsonld.Yields(rec); ok {
		r.Yields = &s
	}
	if s, ok := normalize.ImageURL(rec["image"]); ok {
		r.Image = &s
	}

	return r
}

func duration(rec map[string]any, key string) *int {
	s, ok := jsonld.String(rec, key)
	if !ok {
		return nil
	}
	if m, ok := normalize.ParseISODurationMinutes(s); ok {
		return &m
	}
	return nil
}
