package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
)

// Client is a lightweight OpenAI-compatible chat completions client.
// It uses net/http directly; no SDK is needed for two calls.
type Client struct {
	httpClient      *http.Client
	apiKey          string
	model           string
	baseURL         string
	maxPromptTokens int
}

// NewClient creates a client from the LLM configuration. A missing API key is
// not an error here; each call reports LLM_NOT_CONFIGURED instead.
func NewClient(cfg config.LLMConfig) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		maxPromptTokens: cfg.MaxPromptTokens,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// chatRequest is the OpenAI chat completion request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the minimal OpenAI chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage models.LLMUsage `json:"usage"`
}

// chatErrorResponse captures an API error from the LLM provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Ping sends text as a single user message and returns the model's answer.
func (c *Client) Ping(ctx context.Context, text string) (*models.PingResponse, error) {
	content, _, err := c.complete(ctx, chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: text}},
	})
	if err != nil {
		return nil, err
	}
	return &models.PingResponse{Model: c.model, OutputText: content}, nil
}

// suggestion is one pick as returned by the model.
type suggestion struct {
	ID     json.Number `json:"id"`
	Reason string      `json:"reason"`
}

// Suggest asks the model to pick up to k recipes from the catalogue that best
// match prompt. Picks are restricted to recipes actually in the catalogue and
// carry the catalogue's title.
func (c *Client) Suggest(ctx context.Context, prompt string, recipes []models.RecipeLite, k int) (*models.SuggestResponse, error) {
	if len(recipes) == 0 || k <= 0 {
		return &models.SuggestResponse{Suggestions: []models.Suggestion{}}, nil
	}

	catalogue, err := c.fitCatalogue(prompt, recipes)
	if err != nil {
		return nil, err
	}

	content, usage, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSuggestPrompt(k)},
			{Role: "user", Content: "Request: " + prompt + "\n\nRecipes:\n" + catalogue},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Suggestions []suggestion `json:"suggestions"`
	}
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, models.NewAPIError(models.ErrCodeLLMFailure, "LLM returned invalid JSON", err)
	}

	byID := make(map[int64]models.RecipeLite, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	out := make([]models.Suggestion, 0, k)
	seen := make(map[int64]struct{}, k)
	for _, s := range parsed.Suggestions {
		if len(out) >= k {
			break
		}
		id, err := s.ID.Int64()
		if err != nil {
			continue
		}
		rec, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, models.Suggestion{ID: id, Title: rec.Title, Reason: strings.TrimSpace(s.Reason)})
	}

	slog.Debug("llm suggest completed",
		"model", c.model,
		"candidates", strings.Count(catalogue, "\n")+1,
		"picked", len(out),
		"total_tokens", usage.TotalTokens,
	)
	return &models.SuggestResponse{Suggestions: out}, nil
}

// fitCatalogue renders recipes as JSON lines, dropping recipes from the end
// until the prompt fits the token budget. At least one recipe is always kept.
func (c *Client) fitCatalogue(prompt string, recipes []models.RecipeLite) (string, error) {
	lines := make([]string, 0, len(recipes))
	budget := c.maxPromptTokens - estimateTokens(buildSuggestPrompt(0)) - estimateTokens(prompt)
	used := 0
	for _, r := range recipes {
		b, err := json.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("marshal recipe %d: %w", r.ID, err)
		}
		cost := estimateTokens(string(b)) + 1
		if c.maxPromptTokens > 0 && len(lines) > 0 && used+cost > budget {
			break
		}
		used += cost
		lines = append(lines, string(b))
	}
	return strings.Join(lines, "\n"), nil
}

// complete runs one chat completion and returns the first choice's content.
func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, *models.LLMUsage, error) {
	if c.apiKey == "" {
		return "", nil, models.NewAPIError(models.ErrCodeLLMNotConfigured, "OPENAI_API_KEY is not set", nil)
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, models.NewAPIError(models.ErrCodeLLMFailure, "LLM request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, models.NewAPIError(models.ErrCodeLLMFailure, "failed to read LLM response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", nil, classifyLLMError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", nil, models.NewAPIError(models.ErrCodeLLMFailure, "failed to parse LLM response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil, models.NewAPIError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), &chatResp.Usage, nil
}

func buildSuggestPrompt(k int) string {
	return fmt.Sprintf(`You help pick recipes from a household recipe collection.
The user describes what they want to cook. Each recipe is given as one JSON object per line.

Return a JSON object of the form {"suggestions": [{"id": <recipe id>, "reason": "<one short sentence>"}]}.

Rules:
- Suggest at most %d recipes, best match first.
- Only use ids from the provided recipes.
- Return ONLY valid JSON, no markdown fences or explanation.`, k)
}

// classifyLLMError maps HTTP status codes to appropriate error codes.
func classifyLLMError(statusCode int, body []byte) *models.APIError {
	var errResp chatErrorResponse
	msg := "LLM API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewAPIError(models.ErrCodeLLMAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewAPIError(models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewAPIError(models.ErrCodeLLMFailure, fmt.Sprintf("LLM API returned %d: %s", statusCode, msg), nil)
	}
}
