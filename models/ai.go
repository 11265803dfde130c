package models

// SuggestRequest is the payload for POST /api/ai/suggest on the recipes
// service.
type SuggestRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Limit  int    `json:"limit,omitempty" binding:"omitempty,min=1,max=500"`
	K      int    `json:"k,omitempty" binding:"omitempty,min=1,max=20"`
}

// Defaults applies default values to unset fields.
func (r *SuggestRequest) Defaults() {
	if r.Limit == 0 {
		r.Limit = 30
	}
	if r.K == 0 {
		r.K = 3
	}
}

// AISuggestRequest is the payload the recipes service forwards to the
// ai-recipes service.
type AISuggestRequest struct {
	Prompt  string       `json:"prompt" binding:"required"`
	Recipes []RecipeLite `json:"recipes"`
	K       int          `json:"k,omitempty" binding:"omitempty,min=1,max=20"`
}

// Defaults applies default values to unset fields.
func (r *AISuggestRequest) Defaults() {
	if r.K == 0 {
		r.K = 3
	}
}

// Suggestion is one recipe picked by the model for a prompt.
type Suggestion struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

// SuggestResponse is returned by both suggest endpoints.
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// PingRequest is the payload for POST /api/ai/ping.
type PingRequest struct {
	Text string `json:"text"`
}

// Defaults applies default values to unset fields.
func (r *PingRequest) Defaults() {
	if r.Text == "" {
		r.Text = "Say 'pong' in one word."
	}
}

// PingResponse echoes the model used and its answer.
type PingResponse struct {
	Model      string `json:"model"`
	OutputText string `json:"output_text"`
}

// LLMUsage reports token consumption of one completion.
type LLMUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
