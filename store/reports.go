package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/DDDesignDev/homelab/models"
)

// reportedNutrients are the nutrition_json keys summed by the reports, in
// NutritionTotals field order.
var reportedNutrients = []string{
	"calories", "protein_g", "carbs_g", "fat_g", "fiber_g", "sugar_g", "sodium_mg",
}

// ReportRepository aggregates planned meals against recipe nutrition.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Daily returns one row per day that has at least one meal in range.
func (r *ReportRepository) Daily(ctx context.Context, f models.MealFilter) ([]models.NutritionDayTotals, error) {
	query, args := reportQuery("m.day, ", f)
	query += ` GROUP BY m.day ORDER BY m.day ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily nutrition: %w", err)
	}
	defer rows.Close()

	days := []models.NutritionDayTotals{}
	for rows.Next() {
		var (
			row models.NutritionDayTotals
			day string
		)
		dest := append([]any{&day}, totalsDest(&row.NutritionTotals)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan daily nutrition: %w", err)
		}
		if row.Day, err = models.ParseDate(day); err != nil {
			return nil, fmt.Errorf("failed to parse report day: %w", err)
		}
		days = append(days, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily nutrition: %w", err)
	}
	return days, nil
}

// Totals sums the whole range into a single row.
func (r *ReportRepository) Totals(ctx context.Context, f models.MealFilter) (models.NutritionTotals, error) {
	var totals models.NutritionTotals
	query, args := reportQuery("", f)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(totalsDest(&totals)...); err != nil {
		return totals, fmt.Errorf("failed to query nutrition totals: %w", err)
	}
	return totals, nil
}

// reportQuery selects COUNT(meals) and the servings-weighted sum of each
// nutrient. Recipes with missing or malformed nutrition contribute zero.
func reportQuery(leading string, f models.MealFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT ` + leading + `COUNT(m.id)`)
	for _, key := range reportedNutrients {
		fmt.Fprintf(&b, `,
		COALESCE(SUM(COALESCE(CAST(CASE WHEN json_valid(r.nutrition_json)
			THEN json_extract(r.nutrition_json, '$.%s') END AS REAL), 0) * COALESCE(m.servings, 1)), 0)`, key)
	}
	b.WriteString(`
		FROM meals m
		JOIN recipes r ON m.recipe_id = r.id`)

	where, args := mealWhere("m.", f)
	if len(where) > 0 {
		b.WriteString(` WHERE ` + strings.Join(where, " AND "))
	}
	return b.String(), args
}

func totalsDest(t *models.NutritionTotals) []any {
	return []any{
		&t.MealsCount, &t.Calories, &t.ProteinG, &t.CarbsG, &t.FatG, &t.FiberG, &t.SugarG, &t.SodiumMg,
	}
}
