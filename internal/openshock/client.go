// Package openshock implements the downstream client for the OpenShock v2
// control API. It performs exactly one HTTP round trip per tool call and
// normalizes non-2xx replies into *APIError; there are no retries.
package openshock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Kyrnepi/mcp-openshock-server/internal/command"
)

const controlPath = "/2/shockers/control"

// controlRequest is the POST body for /2/shockers/control.
type controlRequest struct {
	Shocks     []command.Control `json:"shocks"`
	CustomName string            `json:"customName"`
}

// Client is the HTTP client for the OpenShock API. The embedded http.Client
// owns connection pooling; Client itself is stateless and safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL and service token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Control sends one control batch and returns the decoded response body.
// customName is attached to the batch so the action is attributable in the
// OpenShock log ("MCP-SHOCK" etc).
func (c *Client) Control(ctx context.Context, controls []command.Control, customName string) (map[string]any, error) {
	body, err := json.Marshal(controlRequest{Shocks: controls, CustomName: customName})
	if err != nil {
		return nil, fmt.Errorf("failed to encode control request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+controlPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build control request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenShockToken", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenShock API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenShock API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewAPIError(resp.StatusCode, string(raw))
	}

	result := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("OpenShock API returned malformed JSON: %w", err)
		}
	}
	return result, nil
}
