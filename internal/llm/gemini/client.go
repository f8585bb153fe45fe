// Package gemini is the HTTP client for the remote text-generation proxy.
// The proxy exposes one POST route per analysis endpoint and answers with a
// single-field JSON body: {"result": "..."}.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Analysis endpoints understood by the proxy.
const (
	EndpointAnalyze       = "analyze"
	EndpointReport        = "report"
	EndpointPredict       = "predict"
	EndpointPDFContent    = "pdf-content"
	EndpointPhotoAnalysis = "photo-analysis"
)

// Client calls the remote generation proxy.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the proxy at baseURL. The API key is optional;
// when set it is sent as a bearer token.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// response is the proxy's reply envelope.
type response struct {
	Result string `json:"result"`
}

// Generate POSTs payload to the endpoint and returns the generated text.
// Deadlines come from ctx; the caller owns the timeout budget.
func (c *Client) Generate(ctx context.Context, endpoint string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/gemini/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("proxy error %d: %s", resp.StatusCode, string(respBody))
	}

	var out response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if out.Result == "" {
		return "", fmt.Errorf("proxy returned empty result")
	}

	return out.Result, nil
}
