package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.LLMConfig{
		APIKey:          "sk-test",
		Model:           "gpt-test",
		BaseURL:         srv.URL + "/v1/",
		Timeout:         5 * time.Second,
		MaxPromptTokens: 6000,
	})
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"content": content}}},
		"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12},
	})
}

func apiCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr), "expected *models.APIError, got %T", err)
	return apiErr.Code
}

func TestPing(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatReply(w, " pong \n")
	})

	resp, err := c.Ping(context.Background(), "Say 'pong' in one word.")
	require.NoError(t, err)
	assert.Equal(t, "gpt-test", resp.Model)
	assert.Equal(t, "pong", resp.OutputText)
	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Nil(t, got.ResponseFormat)
}

func TestPing_NotConfigured(t *testing.T) {
	c := NewClient(config.LLMConfig{Model: "gpt-test", BaseURL: "http://127.0.0.1:1"})

	_, err := c.Ping(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeLLMNotConfigured, apiCode(t, err))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is not set")
}

func TestComplete_ErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusUnauthorized, models.ErrCodeLLMAuthFailure},
		{http.StatusForbidden, models.ErrCodeLLMAuthFailure},
		{http.StatusTooManyRequests, models.ErrCodeLLMRateLimited},
		{http.StatusInternalServerError, models.ErrCodeLLMFailure},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":{"message":"nope","type":"x"}}`))
			})
			_, err := c.Ping(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, tc.code, apiCode(t, err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestComplete_NoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Ping(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeLLMFailure, apiCode(t, err))
}

var catalogue = []models.RecipeLite{
	{ID: 1, Title: "Chili", Tags: []string{"spicy"}},
	{ID: 2, Title: "Pancakes", Tags: []string{"breakfast"}},
	{ID: 3, Title: "Salad"},
}

func TestSuggest_FiltersToCatalogue(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatReply(w, `{"suggestions":[
			{"id": 2, "reason": " sweet "},
			{"id": 42, "reason": "made up"},
			{"id": 2, "reason": "again"},
			{"id": "1", "reason": "hot"},
			{"id": 3, "reason": "over k"}
		]}`)
	})

	resp, err := c.Suggest(context.Background(), "something for breakfast", catalogue, 2)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, models.Suggestion{ID: 2, Title: "Pancakes", Reason: "sweet"}, resp.Suggestions[0])
	assert.Equal(t, int64(1), resp.Suggestions[1].ID)
	assert.Equal(t, "Chili", resp.Suggestions[1].Title)

	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[0].Content, "at most 2 recipes")
	assert.Contains(t, got.Messages[1].Content, "something for breakfast")
	assert.Contains(t, got.Messages[1].Content, `"title":"Salad"`)
}

func TestSuggest_EmptyCatalogueSkipsModel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("model should not be called")
	})
	resp, err := c.Suggest(context.Background(), "anything", nil, 3)
	require.NoError(t, err)
	assert.NotNil(t, resp.Suggestions)
	assert.Empty(t, resp.Suggestions)
}

func TestSuggest_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(w, "I think Chili.")
	})
	_, err := c.Suggest(context.Background(), "dinner", catalogue, 1)
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeLLMFailure, apiCode(t, err))
}

func TestFitCatalogue_TrimsToBudget(t *testing.T) {
	long := strings.Repeat("word ", 400)
	recipes := []models.RecipeLite{
		{ID: 1, Title: "First", Description: &long},
		{ID: 2, Title: "Second", Description: &long},
		{ID: 3, Title: "Third", Description: &long},
	}

	c := &Client{maxPromptTokens: 1000}
	out, err := c.fitCatalogue("dinner", recipes)
	require.NoError(t, err)
	assert.Contains(t, out, `"title":"First"`)
	assert.NotContains(t, out, `"title":"Third"`)

	// A budget smaller than one recipe still keeps the first.
	c.maxPromptTokens = 10
	out, err = c.fitCatalogue("dinner", recipes)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n")+1)

	c.maxPromptTokens = 0
	out, err = c.fitCatalogue("dinner", recipes)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n")+1)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, estimateTokens(""))
	assert.Equal(t, 1, estimateTokens("ab"))
	assert.Equal(t, 3, estimateTokens("123456789"))
}
