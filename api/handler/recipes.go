package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/store"
)

var errRecipeNotFound = models.NewAPIError(models.ErrCodeNotFound, "Recipe not found", nil)

// recipeErr maps store.ErrNotFound to a 404 "Recipe not found".
func recipeErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errRecipeNotFound
	}
	return err
}

// ListRecipes returns a handler for GET /api/recipes?q=&tag=.
func ListRecipes(repo *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipes, err := repo.List(c.Request.Context(), c.Query("q"), c.Query("tag"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, recipes)
	}
}

// GetRecipe returns a handler for GET /api/recipes/:id.
func GetRecipe(repo *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		recipe, err := repo.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, recipeErr(err))
			return
		}
		c.JSON(http.StatusOK, recipe)
	}
}

// CreateRecipe returns a handler for POST /api/recipes.
func CreateRecipe(repo *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RecipeCreate
		if !bindJSON(c, &req) {
			return
		}
		if err := req.Validate(); err != nil {
			respondError(c, err)
			return
		}

		recipe, err := repo.Create(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, recipe)
	}
}

// UpdateRecipe returns a handler for PUT /api/recipes/:id. Fields left out
// of the body are unchanged.
func UpdateRecipe(repo *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var req models.RecipeUpdate
		if !bindJSON(c, &req) {
			return
		}
		if err := req.Validate(); err != nil {
			respondError(c, err)
			return
		}

		recipe, err := repo.Update(c.Request.Context(), id, &req)
		if err != nil {
			respondError(c, recipeErr(err))
			return
		}
		c.JSON(http.StatusOK, recipe)
	}
}

// DeleteRecipe returns a handler for DELETE /api/recipes/:id.
func DeleteRecipe(repo *store.RecipeRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := repo.Delete(c.Request.Context(), id); err != nil {
			respondError(c, recipeErr(err))
			return
		}
		c.JSON(http.StatusOK, models.OKResponse{OK: true})
	}
}
