package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDDesignDev/homelab/models"
)

type fakeScraper struct {
	timeouts []time.Duration
}

func (f *fakeScraper) ScrapeRecipe(_ context.Context, url string, timeout time.Duration) (*models.NormalizedRecipe, error) {
	f.timeouts = append(f.timeouts, timeout)
	if url == "https://bad.example" {
		return nil, &models.FetchError{URL: url, StatusCode: 404}
	}
	title := "Soup"
	return &models.NormalizedRecipe{
		URL:          url,
		Title:        &title,
		Ingredients:  []string{"water", "salt"},
		Instructions: []string{"boil"},
		Nutrition:    map[string]any{"calories": "100"},
	}, nil
}

func TestScrapeAll(t *testing.T) {
	sc := &fakeScraper{}
	results := scrapeAll(context.Background(), sc, []string{"https://good.example", "https://bad.example"}, 5*time.Second)

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "Soup", *results[0].Recipe.Title)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, sc.timeouts)
}

func TestScrapeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &fakeScraper{}
	results := scrapeAll(ctx, sc, []string{"https://good.example"}, 0)

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, context.Canceled.Error(), results[0].Error)
	assert.Empty(t, sc.timeouts)
}

func TestPrintTable(t *testing.T) {
	results := scrapeAll(context.Background(), &fakeScraper{}, []string{"https://good.example", "https://bad.example"}, 0)

	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, results))

	out := buf.String()
	assert.Contains(t, out, "URL")
	assert.Contains(t, out, "Soup")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "FAILED")
}

func TestWriteJSON(t *testing.T) {
	results := scrapeAll(context.Background(), &fakeScraper{}, []string{"https://good.example"}, 0)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, results))

	var got []result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://good.example", got[0].URL)
	assert.Equal(t, []string{"water", "salt"}, got[0].Recipe.Ingredients)
}
