package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/DDDesignDev/homelab/models"
)

const mealColumns = `id, day, slot, person, servings, recipe_id, notes, created_at, updated_at`

// MealRepository handles database operations for planned meals
type MealRepository struct {
	db *DB
}

// NewMealRepository creates a new meal repository
func NewMealRepository(db *DB) *MealRepository {
	return &MealRepository{db: db}
}

// List returns meals in [Start, End] ordered by day, slot and id. A nil bound
// is open and a person of "" or Household does not filter.
func (r *MealRepository) List(ctx context.Context, f models.MealFilter) ([]models.Meal, error) {
	where, args := mealWhere("", f)
	query := `SELECT ` + mealColumns + ` FROM meals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY day ASC, slot ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, *meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}
	return meals, nil
}

// Get returns one meal or ErrNotFound.
func (r *MealRepository) Get(ctx context.Context, id int64) (*models.Meal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = ?`, id)
	meal, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return meal, err
}

// Create inserts a normalized meal. The caller checks that the recipe exists.
func (r *MealRepository) Create(ctx context.Context, in *models.MealCreate) (*models.Meal, error) {
	ts := formatTime(now())
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO meals (day, slot, person, servings, recipe_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Day.String(), in.Slot, in.Person, *in.Servings, *in.RecipeID, nullString(in.Notes), ts, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read meal id: %w", err)
	}
	return r.Get(ctx, id)
}

// Update applies the non-nil fields of a normalized update.
func (r *MealRepository) Update(ctx context.Context, id int64, in *models.MealUpdate) (*models.Meal, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if in.Day != nil {
		set("day", in.Day.String())
	}
	if in.Slot != nil {
		set("slot", *in.Slot)
	}
	if in.Person != nil {
		set("person", *in.Person)
	}
	if in.Servings != nil {
		set("servings", *in.Servings)
	}
	if in.RecipeID != nil {
		set("recipe_id", *in.RecipeID)
	}
	if in.Notes != nil {
		set("notes", *in.Notes)
	}
	set("updated_at", formatTime(now()))
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE meals SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a meal or returns ErrNotFound.
func (r *MealRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
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

// People returns the distinct people with planned meals, sorted, with
// Household prepended when no meal names it.
func (r *MealRepository) People(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT person FROM meals WHERE person IS NOT NULL AND person != '' ORDER BY person ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var (
		people    []string
		household bool
	)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		household = household || p == models.DefaultPerson
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	if !household {
		people = append([]string{models.DefaultPerson}, people...)
	}
	return people, nil
}

// mealWhere builds the day and person predicates shared by listing and
// reports. prefix qualifies column names, e.g. "m.".
func mealWhere(prefix string, f models.MealFilter) ([]string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Start != nil {
		where = append(where, prefix+"day >= ?")
		args = append(args, f.Start.String())
	}
	if f.End != nil {
		where = append(where, prefix+"day <= ?")
		args = append(args, f.End.String())
	}
	if f.Person != "" && f.Person != models.DefaultPerson {
		where = append(where, prefix+"person = ?")
		args = append(args, f.Person)
	}
	return where, args
}

func scanMeal(s scanner) (*models.Meal, error) {
	var (
		meal                 models.Meal
		day                  string
		notes                sql.NullString
		createdAt, updatedAt string
	)
	err := s.Scan(&meal.ID, &day, &meal.Slot, &meal.Person, &meal.Servings, &meal.RecipeID,
		&notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan meal: %w", err)
	}

	if meal.Day, err = models.ParseDate(day); err != nil {
		return nil, fmt.Errorf("failed to parse meal day: %w", err)
	}
	meal.Notes = stringPtr(notes)
	if meal.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if meal.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &meal, nil
}
