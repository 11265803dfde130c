package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/store"
)

// Suggester forwards suggestion requests to the ai-recipes service;
// *upstream.AIClient implements it.
type Suggester interface {
	Suggest(ctx context.Context, req *models.AISuggestRequest) (*models.SuggestResponse, error)
}

// SuggestRecipes returns a handler for POST /api/ai/suggest on the recipes
// service. It sends the most recently updated recipes, trimmed down, along
// with the prompt.
func SuggestRecipes(recipes *store.RecipeRepository, ai Suggester) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SuggestRequest
		if !bindJSON(c, &req) {
			return
		}
		req.Defaults()

		// ── 1. Collect candidates ──────────────────────────────────
		lite, err := recipes.ListLite(c.Request.Context(), req.Limit)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(lite) == 0 {
			c.JSON(http.StatusOK, models.SuggestResponse{Suggestions: []models.Suggestion{}})
			return
		}

		// ── 2. Ask the AI service ──────────────────────────────────
		resp, err := ai.Suggest(c.Request.Context(), &models.AISuggestRequest{
			Prompt:  req.Prompt,
			Recipes: lite,
			K:       req.K,
		})
		if err != nil {
			var apiErr *models.APIError
			if !errors.As(err, &apiErr) {
				err = models.NewAPIError(models.ErrCodeUpstream, "AI suggest failed: "+err.Error(), err)
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
