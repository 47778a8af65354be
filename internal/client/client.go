// Package client talks to the collaborator service over HTTP. It satisfies
// the session service's source interfaces, so the simulator can run against a
// remote server or fall back to local generation when none is configured.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/macrolab/macrosim/internal/econ"
	"github.com/macrolab/macrosim/internal/history"
	"github.com/macrolab/macrosim/internal/scenario"
	"github.com/macrolab/macrosim/internal/simevent"
)

const defaultMaxRetries = 3

// Client provides access to the collaborator API.
type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
}

// NewClient creates a collaborator client rooted at baseURL. maxRetries of
// zero or less falls back to 3 attempts.
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Client{
		baseURL:    baseURL,
		maxRetries: maxRetries,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Simulate posts the current parameters and returns the generated scenarios.
func (c *Client) Simulate(ctx context.Context, p econ.Params) ([]scenario.Scenario, error) {
	var response struct {
		Scenarios []scenario.Scenario `json:"scenarios"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/simulate", p, &response); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	return response.Scenarios, nil
}

// GenerateEvent fetches market context for event generation.
func (c *Client) GenerateEvent(ctx context.Context) (simevent.Context, error) {
	var evCtx simevent.Context
	if err := c.doJSON(ctx, http.MethodGet, "/generate-event", nil, &evCtx); err != nil {
		return simevent.Context{}, fmt.Errorf("generate event: %w", err)
	}
	return evCtx, nil
}

// HistoricalScenarios posts market conditions and returns the ranked
// historical comparisons. A nil conditions asks the server to derive them
// from its own market snapshot.
func (c *Client) HistoricalScenarios(ctx context.Context, cond *history.Conditions) (history.Response, error) {
	var body any
	if cond != nil {
		body = struct {
			Conditions *history.Conditions `json:"currentConditions"`
		}{Conditions: cond}
	}

	var response history.Response
	if err := c.doJSON(ctx, http.MethodPost, "/historical-scenarios", body, &response); err != nil {
		return history.Response{}, fmt.Errorf("historical scenarios: %w", err)
	}
	return response, nil
}

// doJSON performs a JSON request with retries on network errors and 5xx
// responses. 4xx responses fail immediately.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * 500 * time.Millisecond):
			}
		}

		var reqBody *bytes.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		} else {
			reqBody = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return fmt.Errorf("request rejected: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
