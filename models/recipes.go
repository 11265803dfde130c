package models

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recipe is a stored recipe as returned by the recipes API.
type Recipe struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Servings    *int            `json:"servings"`
	PrepMinutes *int            `json:"prep_minutes"`
	CookMinutes *int            `json:"cook_minutes"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Tags        []string        `json:"tags"`
	Nutrition   *NutritionFacts `json:"nutrition"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecipeCreate is the payload for POST /api/recipes.
type RecipeCreate struct {
	Title       string          `json:"title" binding:"required"`
	Description *string         `json:"description"`
	Servings    *int            `json:"servings"`
	PrepMinutes *int            `json:"prep_minutes"`
	CookMinutes *int            `json:"cook_minutes"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Tags        []string        `json:"tags"`
	Nutrition   *NutritionFacts `json:"nutrition"`
}

// Validate checks field constraints that binding tags cannot express.
func (r *RecipeCreate) Validate() error {
	return validateTitle(r.Title)
}

// RecipeUpdate is the payload for PUT /api/recipes/:id. A nil field means
// "leave unchanged"; an empty nutrition object clears the stored facts.
type RecipeUpdate struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Servings    *int            `json:"servings"`
	PrepMinutes *int            `json:"prep_minutes"`
	CookMinutes *int            `json:"cook_minutes"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Tags        []string        `json:"tags"`
	Nutrition   *NutritionFacts `json:"nutrition"`
}

// Validate checks field constraints that binding tags cannot express.
func (r *RecipeUpdate) Validate() error {
	if r.Title != nil {
		return validateTitle(*r.Title)
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < 1 || n > 200 {
		return InvalidInput("title must be between 1 and 200 characters")
	}
	return nil
}

// RecipeListItem is one entry of GET /api/listRecipes.
type RecipeListItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// RecipeLite is the trimmed-down recipe sent to the AI suggestion service.
type RecipeLite struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Servings    *int     `json:"servings"`
	PrepMinutes *int     `json:"prep_minutes"`
	CookMinutes *int     `json:"cook_minutes"`
}

// ScrapeOut is the recipes service's view of a scraped page, shaped to
// pre-fill the recipe form.
type ScrapeOut struct {
	Title       *string         `json:"title"`
	Servings    *int            `json:"servings"`
	PrepMinutes *int            `json:"prep_minutes"`
	CookMinutes *int            `json:"cook_minutes"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Nutrition   *NutritionFacts `json:"nutrition"`
}

// NormalizeTags trims, lower-cases, de-duplicates and sorts tags.
func NormalizeTags(tags []string) []string {
	lower := cases.Lower(language.Und)
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = lower.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TrimLines trims each line and drops the blank ones.
func TrimLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
