package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
)

func upstreamCfg(url string) config.UpstreamConfig {
	return config.UpstreamConfig{
		ScraperURL:     url + "/",
		ScraperTimeout: 2 * time.Second,
		AIURL:          url,
		AITimeout:      2 * time.Second,
	}
}

func asAPIError(t *testing.T, err error) *models.APIError {
	t.Helper()
	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr), "expected *models.APIError, got %T", err)
	return apiErr
}

func TestScraperClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/scrape", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com/pie", body["url"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://example.com/pie","title":"Pie","yields":"8 servings",
			"ingredients":["flour"],"instructions":["bake"],"nutrition":{"calories":"300 kcal"}}`))
	}))
	defer srv.Close()

	recipe, err := NewScraperClient(upstreamCfg(srv.URL)).ScrapeURL(context.Background(), "https://example.com/pie")
	require.NoError(t, err)
	require.NotNil(t, recipe.Title)
	assert.Equal(t, "Pie", *recipe.Title)
	assert.Equal(t, []string{"flour"}, recipe.Ingredients)
	assert.Equal(t, "300 kcal", recipe.Nutrition["calories"])
}

func TestScraperClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer srv.Close()

	_, err := NewScraperClient(upstreamCfg(srv.URL)).ScrapeURL(context.Background(), "https://example.com/pie")
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.ErrCodeUpstream, apiErr.Code)
	assert.Equal(t, map[string]any{
		"status": http.StatusInternalServerError,
		"error":  map[string]any{"detail": "boom"},
	}, apiErr.Detail)
}

func TestScraperClient_StatusErrorPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewScraperClient(upstreamCfg(srv.URL)).ScrapeURL(context.Background(), "https://example.com/pie")
	apiErr := asAPIError(t, err)
	detail, ok := apiErr.Detail.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, detail["status"])
	assert.Equal(t, "bad gateway\n", detail["error"])
}

func TestScraperClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewScraperClient(upstreamCfg(url)).ScrapeURL(context.Background(), "https://example.com/pie")
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.ErrCodeUpstream, apiErr.Code)
	assert.Contains(t, apiErr.Message, "Scraper request failed: ")
	assert.Nil(t, apiErr.Detail)
}

func TestAIClient_Suggest(t *testing.T) {
	var got models.AISuggestRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/suggest", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"suggestions":[{"id":2,"title":"Pancakes","reason":"breakfast"}]}`))
	}))
	defer srv.Close()

	resp, err := NewAIClient(upstreamCfg(srv.URL)).Suggest(context.Background(), &models.AISuggestRequest{
		Prompt:  "breakfast",
		Recipes: []models.RecipeLite{{ID: 2, Title: "Pancakes"}},
		K:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Suggestion{{ID: 2, Title: "Pancakes", Reason: "breakfast"}}, resp.Suggestions)
	assert.Equal(t, 3, got.K)
	require.Len(t, got.Recipes, 1)
}

func TestAIClient_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewAIClient(upstreamCfg(srv.URL)).Suggest(context.Background(), &models.AISuggestRequest{Prompt: "x"})
	apiErr := asAPIError(t, err)
	assert.Equal(t, models.ErrCodeUpstream, apiErr.Code)
	assert.Contains(t, apiErr.Message, "AI suggest failed: ")
}
