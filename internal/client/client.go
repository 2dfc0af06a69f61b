// Package client calls the suggestion API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kota-mizu/skill-builder/internal/suggestion"
)

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("client: unexpected status")

const generatePath = "/api/generate"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for the server at baseURL. A zero timeout leaves the
// request bounded only by ctx.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Generate posts sub to the server and decodes the returned suggestion.
func (c *Client) Generate(ctx context.Context, sub suggestion.Submission) (suggestion.Suggestion, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("post %s: %w", generatePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
		if apiErr.Error != "" {
			return suggestion.Suggestion{}, fmt.Errorf("%w: %d (%s)", ErrUnexpectedStatus, resp.StatusCode, apiErr.Error)
		}
		return suggestion.Suggestion{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var sg suggestion.Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&sg); err != nil {
		return suggestion.Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}
	return sg, nil
}
