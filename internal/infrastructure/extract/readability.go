// Package extract downloads article pages and reduces them to readable text.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"NewsGenie/internal/ports"
)

const maxContentLength = 20000

// ReadabilityExtractor fetches a page and keeps its main article text.
type ReadabilityExtractor struct {
	client    *http.Client
	userAgent string
}

var _ ports.ContentExtractor = (*ReadabilityExtractor)(nil)

// NewReadabilityExtractor uses client, or a client with timeout when nil.
func NewReadabilityExtractor(client *http.Client, timeout time.Duration) *ReadabilityExtractor {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &ReadabilityExtractor{client: client, userAgent: "NewsGenie/1.0"}
}

// Extract returns the readable body text behind link, truncated to a sane length.
func (e *ReadabilityExtractor) Extract(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return "", fmt.Errorf("extract %q: not an http url", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", link, err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status %d", link, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", link, err)
	}

	content := strings.Join(strings.Fields(article.TextContent), " ")
	if runes := []rune(content); len(runes) > maxContentLength {
		content = string(runes[:maxContentLength])
	}
	if content == "" {
		return "", fmt.Errorf("no readable content at %s", link)
	}
	return content, nil
}
