package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/store"
)

var errMealNotFound = models.NewAPIError(models.ErrCodeNotFound, "Meal not found", nil)

// ListRecipeTitles returns a handler for GET /api/listRecipes.
func ListRecipeTitles(repo *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.ListTitles(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ListMeals returns a handler for GET /api/meals?start=&end=&person=. With
// neither date given the range is today through today+6.
func ListMeals(repo *store.MealRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := mealFilter(c, false)
		if !ok {
			return
		}
		if filter.Start == nil && filter.End == nil {
			start := models.Today()
			end := start.AddDays(6)
			filter.Start, filter.End = &start, &end
		}

		meals, err := repo.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, meals)
	}
}

// CreateMeal returns a handler for POST /api/meals.
func CreateMeal(meals *store.MealRepository, recipes *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.MealCreate
		if !bindJSON(c, &req) {
			return
		}
		if err := req.Normalize(); err != nil {
			respondError(c, err)
			return
		}
		if !ensureRecipe(c, recipes, *req.RecipeID) {
			return
		}

		meal, err := meals.Create(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, meal)
	}
}

// UpdateMeal returns a handler for PUT /api/meals/:id. The recipe is only
// re-checked when the update changes it.
func UpdateMeal(meals *store.MealRepository, recipes *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var req models.MealUpdate
		if !bindJSON(c, &req) {
			return
		}

		ctx := c.Request.Context()
		existing, err := meals.Get(ctx, id)
		if err != nil {
			respondError(c, mealErr(err))
			return
		}
		if err := req.Normalize(); err != nil {
			respondError(c, err)
			return
		}
		if req.RecipeID != nil && *req.RecipeID != existing.RecipeID {
			if !ensureRecipe(c, recipes, *req.RecipeID) {
				return
			}
		}

		meal, err := meals.Update(ctx, id, &req)
		if err != nil {
			respondError(c, mealErr(err))
			return
		}
		c.JSON(http.StatusOK, meal)
	}
}

// DeleteMeal returns a handler for DELETE /api/meals/:id.
func DeleteMeal(repo *store.MealRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := repo.Delete(c.Request.Context(), id); err != nil {
			respondError(c, mealErr(err))
			return
		}
		c.JSON(http.StatusOK, models.OKResponse{OK: true})
	}
}

// ListPeople returns a handler for GET /api/people.
func ListPeople(repo *store.MealRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		people, err := repo.People(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, people)
	}
}

func mealErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errMealNotFound
	}
	return err
}

func ensureRecipe(c *gin.Context, recipes *store.RecipeRepository, id int64) bool {
	exists, err := recipes.Exists(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !exists {
		badRequest(c, "Recipe does not exist")
		return false
	}
	return true
}

// mealFilter parses start, end and person query parameters. With required
// set, both dates must be present.
func mealFilter(c *gin.Context, required bool) (models.MealFilter, bool) {
	var f models.MealFilter
	for _, p := range []struct {
		name string
		dst  **models.Date
	}{{"start", &f.Start}, {"end", &f.End}} {
		raw, present := c.GetQuery(p.name)
		if !present || raw == "" {
			if required {
				badRequest(c, p.name+" is required")
				return f, false
			}
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			badRequest(c, p.name+": "+err.Error())
			return f, false
		}
		*p.dst = &d
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		badRequest(c, "end must be >= start")
		return f, false
	}

	if raw := c.Query("person"); raw != "" {
		person, err := models.NormalizePerson(raw)
		if err != nil {
			respondError(c, err)
			return f, false
		}
		f.Person = person
	}
	return f, true
}
