package ml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"NewsGenie/internal/ports"
)

// Client talks to an external inference service for abstractive summaries.
type Client struct {
	endpoint  string
	apiKey    string
	minLength int
	http      *http.Client
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient creates a reusable HTTP client. minLength is forwarded as the
// model's lower summary bound.
func NewClient(endpoint, apiKey string, minLength int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		apiKey:    apiKey,
		minLength: minLength,
		http:      httpClient,
	}
}

type summarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize requests a summary of at most maxLength tokens.
func (c *Client) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if c.endpoint == "" {
		return "", errors.New("inference endpoint is not configured")
	}

	minLength := c.minLength
	if minLength > maxLength {
		minLength = maxLength
	}

	var resp summarizeResponse
	if err := c.post(ctx, "/summarize", summarizeRequest{Text: text, MaxLength: maxLength, MinLength: minLength}, &resp); err != nil {
		return "", err
	}

	summary := strings.TrimSpace(resp.Summary)
	if summary == "" {
		return "", errors.New("inference service returned an empty summary")
	}
	return summary, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
