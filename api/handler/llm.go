package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DDDesignDev/homelab/models"
)

// LLM is the model-facing side of the ai-recipes service; *llm.Client
// implements it.
type LLM interface {
	Ping(ctx context.Context, text string) (*models.PingResponse, error)
	Suggest(ctx context.Context, prompt string, recipes []models.RecipeLite, k int) (*models.SuggestResponse, error)
}

// Ping returns a handler for POST /api/ai/ping.
func Ping(model LLM) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PingRequest
		// An empty body means the default prompt.
		if c.Request.ContentLength != 0 {
			if !bindJSON(c, &req) {
				return
			}
		}
		req.Defaults()

		resp, err := model.Ping(c.Request.Context(), req.Text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SuggestFromCatalogue returns a handler for POST /api/ai/suggest on the
// ai-recipes service.
func SuggestFromCatalogue(model LLM) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AISuggestRequest
		if !bindJSON(c, &req) {
			return
		}
		req.Defaults()

		resp, err := model.Suggest(c.Request.Context(), req.Prompt, req.Recipes, req.K)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
