// Package upstream holds the HTTP clients the recipes service uses to reach
// its sibling services.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response is kept for the error
// detail.
const maxErrorBody = 64 << 10

// StatusError reports a non-2xx answer from a sibling service. Body is the
// decoded JSON body when it parsed, else the raw text.
type StatusError struct {
	StatusCode int
	Body       any
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.StatusCode)
}

// Detail is the structured form surfaced in API errors.
func (e *StatusError) Detail() map[string]any {
	return map[string]any{"status": e.StatusCode, "error": e.Body}
}

type jsonClient struct {
	baseURL    string
	httpClient *http.Client
}

func newJSONClient(baseURL string, timeout time.Duration) jsonClient {
	return jsonClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// postJSON posts in and decodes a 2xx response into out. Transport failures
// are returned as-is; non-2xx answers as *StatusError.
func (c jsonClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: decodeBody(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeBody(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		return v
	}
	return string(raw)
}
