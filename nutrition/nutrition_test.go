package nutrition

import (
	"encoding/json"
	"testing"

	"github.com/DDDesignDev/homelab/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFromScraped_SchemaKeys(t *testing.T) {
	facts := FromScraped(map[string]any{
		"calories":            "350.7 kcal",
		"carbohydrateContent": "40 g",
		"proteinContent":      "12.5 g",
		"sodiumContent":       "1,200 mg",
		"servingSize":         " 1 bowl ",
		"unknownThing":        "3",
	})
	require.NotNil(t, facts)

	assert.Equal(t, ptr(350), facts.Calories)
	assert.Equal(t, ptr(40.0), facts.CarbsG)
	assert.Equal(t, ptr(12.5), facts.ProteinG)
	assert.Equal(t, ptr(1200.0), facts.SodiumMg)
	assert.Equal(t, ptr("1 bowl"), facts.ServingSize)
	assert.Nil(t, facts.FatG)
}

func TestFromScraped_LabelKeys(t *testing.T) {
	facts := FromScraped(map[string]any{
		"Calories":      "210 kcal",
		"Saturated Fat": "2 g",
		"Fiber":         json.Number("4"),
		"Sugars":        3.5,
	})
	require.NotNil(t, facts)

	assert.Equal(t, ptr(210), facts.Calories)
	assert.Equal(t, ptr(2.0), facts.SaturatedFatG)
	assert.Equal(t, ptr(4.0), facts.FiberG)
	assert.Equal(t, ptr(3.5), facts.SugarG)
}

func TestFromScraped_FirstNonZeroAliasWins(t *testing.T) {
	facts := FromScraped(map[string]any{
		"calories":       "",
		"calorieContent": 0,
		"energy":         "500 kcal",
	})
	require.NotNil(t, facts)
	assert.Equal(t, ptr(500), facts.Calories)
}

func TestFromScraped_Empty(t *testing.T) {
	assert.Nil(t, FromScraped(nil))
	assert.Nil(t, FromScraped(map[string]any{}))
	assert.Nil(t, FromScraped(map[string]any{"rating": "5 stars"}))
}

func TestToScrapeOut(t *testing.T) {
	r := &models.NormalizedRecipe{
		URL:              "https://example.com/soup",
		Title:            ptr("Soup"),
		TotalTimeMinutes: ptr(45),
		PrepTimeMinutes:  ptr(10),
		Yields:           ptr("Serves 4-6 people"),
		Ingredients:      []string{"water"},
		Instructions:     []string{"Boil."},
		Nutrition:        map[string]any{"calories": "100"},
	}

	out := ToScrapeOut(r)

	assert.Equal(t, ptr("Soup"), out.Title)
	assert.Equal(t, ptr(4), out.Servings)
	assert.Equal(t, ptr(10), out.PrepMinutes)
	assert.Equal(t, ptr(45), out.CookMinutes, "cook falls back to total")
	assert.Equal(t, []string{"water"}, out.Ingredients)
	assert.Equal(t, []string{"Boil."}, out.Steps)
	require.NotNil(t, out.Nutrition)
	assert.Equal(t, ptr(100), out.Nutrition.Calories)
}

func TestToScrapeOut_KeepsCookTime(t *testing.T) {
	out := ToScrapeOut(&models.NormalizedRecipe{
		CookTimeMinutes:  ptr(20),
		TotalTimeMinutes: ptr(45),
		Yields:           ptr("a few"),
	})

	assert.Equal(t, ptr(20), out.CookMinutes)
	assert.Nil(t, out.Servings)
	assert.Nil(t, out.Nutrition)
	assert.Equal(t, []string{}, out.Ingredients)
	assert.Equal(t, []string{}, out.Steps)
}
