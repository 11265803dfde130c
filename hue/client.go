// Package hue talks to a Philips Hue bridge over its local v1 REST API.
package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
)

// Client is a bridge client bound to one whitelisted username.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient validates cfg and returns a client for http://{ip}/api/{username}.
func NewClient(cfg config.HueConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    fmt.Sprintf("http://%s/api/%s", cfg.BridgeIP, cfg.Username),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// bridgeLight is the subset of a /lights entry we read.
type bridgeLight struct {
	Name  *string `json:"name"`
	State struct {
		On        *bool `json:"on"`
		Bri       *int  `json:"bri"`
		Reachable *bool `json:"reachable"`
	} `json:"state"`
}

// Lights returns every light sorted by lower-cased name.
func (c *Client) Lights(ctx context.Context) ([]models.Light, error) {
	raw, err := c.lights(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Light, 0, len(raw))
	for id, l := range raw {
		light := models.Light{
			ID:        id,
			On:        l.State.On,
			Bri:       l.State.Bri,
			Reachable: l.State.Reachable,
		}
		if l.Name != nil {
			light.Name = *l.Name
		}
		out = append(out, light)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetState sends the set fields of s, clamped to the bridge's ranges, and
// returns the bridge's response verbatim. An empty state is INVALID_INPUT.
func (c *Client) SetState(ctx context.Context, id string, s models.LightState) (json.RawMessage, error) {
	payload := StatePayload(s)
	if len(payload) == 0 {
		return nil, models.InvalidInput("No valid fields provided")
	}
	return c.do(ctx, http.MethodPut, "/lights/"+url.PathEscape(id)+"/state", payload)
}

// SetAll switches every light on or off, one request at a time, and returns
// how many lights were addressed.
func (c *Client) SetAll(ctx context.Context, on bool) (int, error) {
	raw, err := c.lights(ctx)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, err := c.do(ctx, http.MethodPut, "/lights/"+url.PathEscape(id)+"/state", map[string]any{"on": on}); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// StatePayload builds the allow-listed bridge payload for s.
func StatePayload(s models.LightState) map[string]any {
	payload := map[string]any{}
	if s.On != nil {
		payload["on"] = *s.On
	}
	if s.Bri != nil {
		payload["bri"] = clamp(*s.Bri, 1, 254)
	}
	if s.Hue != nil {
		payload["hue"] = clamp(*s.Hue, 0, 65535)
	}
	if s.Sat != nil {
		payload["sat"] = clamp(*s.Sat, 0, 254)
	}
	return payload
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func (c *Client) lights(ctx context.Context) (map[string]bridgeLight, error) {
	body, err := c.do(ctx, http.MethodGet, "/lights", nil)
	if err != nil {
		return nil, err
	}
	var lights map[string]bridgeLight
	if err := json.Unmarshal(body, &lights); err != nil {
		return nil, models.NewAPIError(models.ErrCodeBridge, "unexpected /lights response: "+string(body), err)
	}
	return lights, nil
}

// do performs one bridge request. Any non-200 answer becomes BRIDGE_ERROR
// carrying the bridge's body text.
func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewAPIError(models.ErrCodeBridge, "bridge request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewAPIError(models.ErrCodeBridge, "failed to read bridge response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, models.NewAPIError(models.ErrCodeBridge, string(respBody), nil)
	}
	return json.RawMessage(respBody), nil
}
