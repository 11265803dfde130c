package main

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/store"
)

type fakeSource struct {
	recipe *models.NormalizedRecipe
	err    error
}

func (f *fakeSource) ScrapeURL(context.Context, string) (*models.NormalizedRecipe, error) {
	return f.recipe, f.err
}

func newTools(t *testing.T, src *fakeSource) *tools {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, _, err = store.RunMigrations(db)
	require.NoError(t, err)

	return &tools{
		scraper: src,
		recipes: store.NewRecipeRepository(db),
		meals:   store.NewMealRepository(db),
		reports: store.NewReportRepository(db),
	}
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	res, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func ptr[T any](v T) *T { return &v }

func TestScrapeRecipeTool(t *testing.T) {
	src := &fakeSource{recipe: &models.NormalizedRecipe{URL: "https://example.com/r", Title: ptr("Soup")}}
	tl := newTools(t, src)

	out, isErr := call(t, tl.scrapeRecipe, map[string]any{"url": "https://example.com/r"})
	assert.False(t, isErr)
	var got models.NormalizedRecipe
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Soup", *got.Title)

	_, isErr = call(t, tl.scrapeRecipe, map[string]any{})
	assert.True(t, isErr)

	src.err = errors.New("boom")
	out, isErr = call(t, tl.scrapeRecipe, map[string]any{"url": "https://example.com/r"})
	assert.True(t, isErr)
	assert.Contains(t, out, "boom")
}

func TestRecipeTools(t *testing.T) {
	tl := newTools(t, &fakeSource{})
	ctx := context.Background()

	soup, err := tl.recipes.Create(ctx, &models.RecipeCreate{Title: "Tomato Soup", Tags: []string{"Soup", "vegan"}})
	require.NoError(t, err)
	_, err = tl.recipes.Create(ctx, &models.RecipeCreate{Title: "Pancakes"})
	require.NoError(t, err)

	out, isErr := call(t, tl.searchRecipes, map[string]any{"query": "tomato"})
	assert.False(t, isErr)
	assert.Contains(t, out, "Found 1 recipes")
	assert.Contains(t, out, "Tomato Soup [soup, vegan]")

	out, _ = call(t, tl.searchRecipes, map[string]any{"tag": "dessert"})
	assert.Equal(t, "No recipes found.", out)

	out, isErr = call(t, tl.getRecipe, map[string]any{"id": float64(soup.ID)})
	assert.False(t, isErr)
	var got models.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, soup.ID, got.ID)

	out, isErr = call(t, tl.getRecipe, map[string]any{"id": float64(999)})
	assert.True(t, isErr)
	assert.Contains(t, out, "not found")
}

func TestMealTools(t *testing.T) {
	tl := newTools(t, &fakeSource{})
	ctx := context.Background()

	recipe, err := tl.recipes.Create(ctx, &models.RecipeCreate{
		Title:     "Oats",
		Nutrition: &models.NutritionFacts{Calories: ptr(300)},
	})
	require.NoError(t, err)

	day, err := models.ParseDate("2026-03-02")
	require.NoError(t, err)
	in := &models.MealCreate{Day: &day, Slot: "Breakfast", Person: "Ana", Servings: ptr(2.0), RecipeID: &recipe.ID}
	require.NoError(t, in.Normalize())
	_, err = tl.meals.Create(ctx, in)
	require.NoError(t, err)

	out, isErr := call(t, tl.listMeals, map[string]any{"start": "2026-03-01", "end": "2026-03-07"})
	assert.False(t, isErr)
	var meals []models.Meal
	require.NoError(t, json.Unmarshal([]byte(out), &meals))
	require.Len(t, meals, 1)
	assert.Equal(t, "breakfast", meals[0].Slot)

	out, isErr = call(t, tl.listMeals, map[string]any{"start": "2026-03-07", "end": "2026-03-01"})
	assert.True(t, isErr)
	assert.Contains(t, out, "end must be >= start")

	out, isErr = call(t, tl.nutritionReport, map[string]any{"start": "2026-03-01", "end": "2026-03-07", "person": "Ana"})
	assert.False(t, isErr)
	var report struct {
		Days   []models.NutritionDayTotals `json:"days"`
		Report models.NutritionReport      `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Days, 1)
	assert.InDelta(t, 600, report.Report.Totals.Calories, 0.001)

	_, isErr = call(t, tl.nutritionReport, map[string]any{"start": "2026-03-01"})
	assert.True(t, isErr)
}
