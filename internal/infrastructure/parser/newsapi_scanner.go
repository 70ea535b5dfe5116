package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/scanner"
)

const (
	userAgent          = "NewsGenie/1.0"
	newsAPIDefaultURL  = "https://newsapi.org"
	newsAPIMaxPageSize = 20
	newsAPIDefaultQ    = "news"
)

// NewsAPI appends "… [+123 chars]" to truncated content.
var truncatedSuffix = regexp.MustCompile(`\s*(…|\.\.\.)?\s*\[\+\d+ chars\]\s*$`)

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
		Content     string    `json:"content"`
	} `json:"articles"`
}

// NewsAPIScanner queries newsapi.org once per topic.
type NewsAPIScanner struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

var _ scanner.Scanner = (*NewsAPIScanner)(nil)

// NewNewsAPIScanner wires the API key; an empty baseURL targets newsapi.org.
func NewNewsAPIScanner(client *http.Client, baseURL, apiKey string, logger *slog.Logger) *NewsAPIScanner {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = newsAPIDefaultURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NewsAPIScanner{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Name identifies the strategy inside the registry.
func (n *NewsAPIScanner) Name() string {
	return "newsapi"
}

// Scan runs one query per topic. A failing topic is logged and skipped; the
// scan fails only when every query failed.
func (n *NewsAPIScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	topics := req.Topics
	if len(topics) == 0 {
		q := req.Options["defaultQuery"]
		if q == "" {
			q = newsAPIDefaultQ
		}
		topics = []string{q}
	}

	pageSize := newsAPIMaxPageSize
	if req.Limit > 0 && req.Limit < pageSize {
		pageSize = req.Limit
	}

	var (
		results  []domain.Article
		failures int
		lastErr  error
	)
	for _, topic := range topics {
		articles, err := n.query(ctx, topic, pageSize)
		if err != nil {
			failures++
			lastErr = err
			n.logger.ErrorContext(ctx, "newsapi query failed", "site", req.SiteName, "topic", topic, "error", err)
			continue
		}
		n.logger.InfoContext(ctx, "newsapi query", "site", req.SiteName, "topic", topic, "articles", len(articles))
		results = append(results, articles...)
	}

	if failures == len(topics) {
		return nil, fmt.Errorf("all %d newsapi queries failed: %w", failures, lastErr)
	}
	return results, nil
}

func (n *NewsAPIScanner) query(ctx context.Context, topic string, pageSize int) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request newsapi: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read newsapi response: %w", err)
	}

	var payload newsAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode newsapi response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK || payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi returned %s: %s %s", resp.Status, payload.Code, payload.Message)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		content := strings.TrimSpace(truncatedSuffix.ReplaceAllString(a.Content, ""))
		if content == "" {
			content = strings.TrimSpace(a.Description)
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		articles = append(articles, domain.Article{
			Title:       strings.TrimSpace(a.Title),
			Content:     content,
			Link:        a.URL,
			Source:      source,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
