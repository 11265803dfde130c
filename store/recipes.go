package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DDDesignDev/homelab/models"
)

const recipeColumns = `id, title, description, servings, prep_minutes, cook_minutes,
	ingredients, steps, tags, nutrition_json, created_at, updated_at`

// RecipeRepository handles database operations for recipes
type RecipeRepository struct {
	db *DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// List returns recipes, most recently updated first. q matches title,
// description and tags; tag matches tags only. Both are case-insensitive
// substring matches and empty strings do not filter.
func (r *RecipeRepository) List(ctx context.Context, q, tag string) ([]models.Recipe, error) {
	var (
		where []string
		args  []any
	)
	if q != "" {
		where = append(where, `(LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(COALESCE(tags, '')) LIKE ?)`)
		pattern := "%" + strings.ToLower(q) + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if tag != "" {
		where = append(where, `LOWER(COALESCE(tags, '')) LIKE ?`)
		args = append(args, "%"+strings.ToLower(tag)+"%")
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one recipe or ErrNotFound.
func (r *RecipeRepository) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	recipe, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return recipe, err
}

// Create inserts a recipe and returns it as stored.
func (r *RecipeRepository) Create(ctx context.Context, in *models.RecipeCreate) (*models.Recipe, error) {
	nutrition, err := encodeNutrition(in.Nutrition)
	if err != nil {
		return nil, err
	}
	ts := formatTime(now())

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recipes
		  (title, description, servings, prep_minutes, cook_minutes, ingredients, steps, tags, nutrition_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		in.Title, nullString(in.Description), nullInt(in.Servings), nullInt(in.PrepMinutes), nullInt(in.CookMinutes),
		encodeLines(in.Ingredients), encodeLines(in.Steps), encodeTags(in.Tags), nutrition, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe id: %w", err)
	}
	return r.Get(ctx, id)
}

// Update applies the non-nil fields of in and returns the stored recipe.
func (r *RecipeRepository) Update(ctx context.Context, id int64, in *models.RecipeUpdate) (*models.Recipe, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if in.Title != nil {
		set("title", *in.Title)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.Servings != nil {
		set("servings", *in.Servings)
	}
	if in.PrepMinutes != nil {
		set("prep_minutes", *in.PrepMinutes)
	}
	if in.CookMinutes != nil {
		set("cook_minutes", *in.CookMinutes)
	}
	if in.Ingredients != nil {
		set("ingredients", encodeLines(in.Ingredients))
	}
	if in.Steps != nil {
		set("steps", encodeLines(in.Steps))
	}
	if in.Tags != nil {
		set("tags", encodeTags(in.Tags))
	}
	if in.Nutrition != nil {
		nutrition, err := encodeNutrition(in.Nutrition)
		if err != nil {
			return nil, err
		}
		set("nutrition_json", nutrition)
	}
	set("updated_at", formatTime(now()))
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE recipes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a recipe or returns ErrNotFound.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether a recipe with id exists.
func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM recipes WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check recipe: %w", err)
	}
	return true, nil
}

// ListTitles returns every recipe's id and title ordered by title.
func (r *RecipeRepository) ListTitles(ctx context.Context) ([]models.RecipeListItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM recipes ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe titles: %w", err)
	}
	defer rows.Close()

	items := []models.RecipeListItem{}
	for rows.Next() {
		var item models.RecipeListItem
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, fmt.Errorf("failed to scan recipe title: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListLite returns up to limit recipes in List order, trimmed to the fields
// the suggestion model needs. Recipes without a title are skipped.
func (r *RecipeRepository) ListLite(ctx context.Context, limit int) ([]models.RecipeLite, error) {
	recipes, err := r.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	lite := make([]models.RecipeLite, 0, min(limit, len(recipes)))
	for _, rec := range recipes {
		if len(lite) >= limit {
			break
		}
		if strings.TrimSpace(rec.Title) == "" {
			continue
		}
		lite = append(lite, models.RecipeLite{
			ID:          rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Tags:        rec.Tags,
			Servings:    rec.Servings,
			PrepMinutes: rec.PrepMinutes,
			CookMinutes: rec.CookMinutes,
		})
	}
	return lite, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(s scanner) (*models.Recipe, error) {
	var (
		rec                     models.Recipe
		description, tags, nutr sql.NullString
		servings, prep, cook    sql.NullInt64
		ingredients, steps      string
		createdAt, updatedAt    string
	)
	err := s.Scan(&rec.ID, &rec.Title, &description, &servings, &prep, &cook,
		&ingredients, &steps, &tags, &nutr, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}

	rec.Description = stringPtr(description)
	rec.Servings = intPtr(servings)
	rec.PrepMinutes = intPtr(prep)
	rec.CookMinutes = intPtr(cook)
	rec.Ingredients = decodeLines(ingredients)
	rec.Steps = decodeLines(steps)
	rec.Tags = decodeTags(tags.String)
	rec.Nutrition = decodeNutrition(rec.ID, nutr)

	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeLines(lines []string) string {
	return strings.Join(models.TrimLines(lines), "\n")
}

func decodeLines(s string) []string {
	return models.TrimLines(strings.Split(s, "\n"))
}

func encodeTags(tags []string) string {
	return strings.Join(models.NormalizeTags(tags), ",")
}

func decodeTags(s string) []string {
	return models.TrimLines(strings.Split(s, ","))
}

// encodeNutrition stores facts without null fields, or NULL when empty.
func encodeNutrition(n *models.NutritionFacts) (sql.NullString, error) {
	if n.IsEmpty() {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode nutrition: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// decodeNutrition tolerates rows written by older versions: malformed JSON
// reads as no nutrition.
func decodeNutrition(id int64, s sql.NullString) *models.NutritionFacts {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return nil
	}
	var n models.NutritionFacts
	if err := json.Unmarshal([]byte(s.String), &n); err != nil {
		slog.Warn("ignoring malformed nutrition_json", "recipe_id", id, "error", err)
		return nil
	}
	return &n
}
