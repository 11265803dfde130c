package upstream

import (
	"context"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
)

// AIClient calls the ai-recipes service.
type AIClient struct {
	jsonClient
}

// NewAIClient creates a client for cfg.AIURL.
func NewAIClient(cfg config.UpstreamConfig) *AIClient {
	return &AIClient{newJSONClient(cfg.AIURL, cfg.AITimeout)}
}

// Suggest forwards a suggestion request. Any failure is reported as
// "AI suggest failed: ..." with code UPSTREAM_FAILED.
func (c *AIClient) Suggest(ctx context.Context, req *models.AISuggestRequest) (*models.SuggestResponse, error) {
	var resp models.SuggestResponse
	if err := c.postJSON(ctx, "/api/ai/suggest", req, &resp); err != nil {
		apiErr := models.NewAPIError(models.ErrCodeUpstream, "AI suggest failed: "+err.Error(), err)
		if se, ok := err.(*StatusError); ok {
			apiErr.WithDetail(se.Detail())
		}
		return nil, apiErr
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []models.Suggestion{}
	}
	return &resp, nil
}
