package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DDDesignDev/homelab/cache"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/engine"
	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/sites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const soupPage = `<html><head><title>Soup</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
 {"@type":"WebPage","name":"Not a recipe"},
 {"@type":"Recipe","name":"Tomato Soup",
  "author":{"@type":"Person","name":"Ann"},
  "mainEntityOfPage":"https://example.com/soup",
  "prepTime":"PT10M","cookTime":"PT20M","totalTime":"PT30M",
  "recipeYield":4,
  "image":["",{"thumbnailUrl":"http://x/thumb.jpg"}],
  "recipeIngredient":["2  tomatoes","2 tomatoes"," ","1 onion"],
  "recipeInstructions":[{"@type":"HowToStep","text":"Chop."},"Simmer.",{"@type":"HowToStep"},42],
  "nutrition":{"@type":"NutritionInformation","calories":"120 kcal"}}
]}
</script></head><body></body></html>`

var scraperCfg = config.ScraperConfig{
	Timeout:    5 * time.Second,
	MaxTimeout: 10 * time.Second,
	UserAgent:  "Mozilla/5.0 (compatible; RecipeScraper/1.0)",
}

func newServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeRecipe_404IsFetchError(t *testing.T) {
	srv := newServer(t, http.StatusNotFound, "gone", nil)
	s := New(engine.NewHTTPEngine(0), sites.DefaultRegistry(), nil, scraperCfg)

	recipe, err := s.ScrapeRecipe(context.Background(), srv.URL+"/soup", 0)

	assert.Nil(t, recipe)
	var fe *models.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestScrapeRecipe_UnsupportedSiteFallsBackToSchema(t *testing.T) {
	srv := newServer(t, http.StatusOK, soupPage, nil)
	s := New(engine.NewHTTPEngine(0), sites.DefaultRegistry(), nil, scraperCfg)

	recipe, err := s.ScrapeRecipe(context.Background(), srv.URL+"/soup", 20*time.Second)
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/soup", recipe.URL)
	require.NotNil(t, recipe.Title)
	assert.Equal(t, "Tomato Soup", *recipe.Title)
	require.NotNil(t, recipe.Author)
	assert.Equal(t, "Ann", *recipe.Author)
	require.NotNil(t, recipe.CanonicalURL)
	assert.Equal(t, "https://example.com/soup", *recipe.CanonicalURL)
	require.NotNil(t, recipe.PrepTimeMinutes)
	assert.Equal(t, 10, *recipe.PrepTimeMinutes)
	require.NotNil(t, recipe.CookTimeMinutes)
	assert.Equal(t, 20, *recipe.CookTimeMinutes)
	require.NotNil(t, recipe.TotalTimeMinutes)
	assert.Equal(t, 30, *recipe.TotalTimeMinutes)
	require.NotNil(t, recipe.Yields)
	assert.Equal(t, "4", *recipe.Yields)
	require.NotNil(t, recipe.Image)
	assert.Equal(t, "http://x/thumb.jpg", *recipe.Image)
	assert.Equal(t, []string{"2 tomatoes", "1 onion"}, recipe.Ingredients)
	assert.Equal(t, []string{"Chop.", "Simmer."}, recipe.Instructions)
	assert.Equal(t, map[string]any{"calories": "120 kcal"}, recipe.Nutrition)
}

func TestAssemble_SupportedSiteSetsOnlyTotalTime(t *testing.T) {
	registry := sites.NewRegistry()
	registry.Register("example.com", sites.NewSchemaOnly)

	recipe := Assemble("https://example.com/soup", soupPage, registry)

	require.NotNil(t, recipe.TotalTimeMinutes)
	assert.Equal(t, 30, *recipe.TotalTimeMinutes)
	assert.Nil(t, recipe.PrepTimeMinutes)
	assert.Nil(t, recipe.CookTimeMinutes)
	require.NotNil(t, recipe.Yields)
	assert.Equal(t, "4 servings", *recipe.Yields)
	assert.Equal(t, []string{"2 tomatoes", "1 onion"}, recipe.Ingredients)
}

func TestAssemble_FailedScraperFallsBack(t *testing.T) {
	registry := sites.NewRegistry()
	registry.Register("example.com", func(*sites.Page) (sites.Scraper, error) {
		return nil, errors.New("layout changed")
	})

	recipe := Assemble("https://example.com/soup", soupPage, registry)

	require.NotNil(t, recipe.PrepTimeMinutes, "prep time only comes from schema.org fallback")
	assert.Equal(t, []string{"Chop.", "Simmer."}, recipe.Instructions)
}

func TestAssemble_NothingFound(t *testing.T) {
	recipe := Assemble("https://example.org/blank", "<html><body>hello</body></html>", sites.DefaultRegistry())

	assert.Equal(t, "https://example.org/blank", recipe.URL)
	assert.Nil(t, recipe.Title)
	assert.NotNil(t, recipe.Ingredients)
	assert.Empty(t, recipe.Ingredients)
	assert.NotNil(t, recipe.Instructions)
	assert.NotNil(t, recipe.Nutrition)
	assert.Empty(t, recipe.Nutrition)
}

func TestScrape_CacheHonoursMaxAge(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, http.StatusOK, soupPage, &hits)
	s := New(engine.NewHTTPEngine(0), sites.DefaultRegistry(), cache.New(time.Hour, time.Minute), scraperCfg)

	req := &models.ScrapeRequest{URL: srv.URL + "/soup"}
	_, err := s.Scrape(context.Background(), req)
	require.NoError(t, err)
	_, err = s.Scrape(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "max_age 0 always fetches")

	req.MaxAge = 60
	recipe, err := s.Scrape(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "served from cache")
	require.NotNil(t, recipe.Title)
	assert.Equal(t, "Tomato Soup", *recipe.Title)
}

func TestClampTimeout(t *testing.T) {
	s := New(nil, nil, nil, scraperCfg)

	assert.Equal(t, 5*time.Second, s.clampTimeout(0))
	assert.Equal(t, 7*time.Second, s.clampTimeout(7*time.Second))
	assert.Equal(t, 10*time.Second, s.clampTimeout(time.Minute))
}
