package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/scanner"
)

const (
	arxivBaseURL    = "https://arxiv.org"
	arxivPageSize   = 200
	arxivMaxDefault = 100
)

var dateExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)

// ArxivScanner crawls arXiv listing pages and turns abstracts into candidates.
type ArxivScanner struct {
	client   *http.Client
	pageSize int
}

var _ scanner.Scanner = (*ArxivScanner)(nil)

// NewArxivScanner wires an HTTP client; pageSize defaults to 200.
func NewArxivScanner(client *http.Client) *ArxivScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ArxivScanner{client: client, pageSize: arxivPageSize}
}

// Name identifies the strategy inside the registry.
func (a *ArxivScanner) Name() string {
	return "arxiv"
}

// Scan walks each category listing, newest first, until req.Limit articles
// are collected or the listing ends.
func (a *ArxivScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no categories provided for site %s", req.SiteName)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = arxivMaxDefault
	}

	results := make([]domain.Article, 0)
	seen := map[string]struct{}{}

	for _, cat := range req.Categories {
		skip := 0
		for len(results) < limit {
			pageURL, err := buildPageURL(cat.URL, skip, a.pageSize)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.Name, err)
			}

			doc, err := a.fetchDocument(ctx, pageURL)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.Name, err)
			}

			pageArticles, processed := extractArticles(doc, req.SiteName, cat.Name)
			for _, article := range pageArticles {
				if len(results) >= limit {
					break
				}
				if _, ok := seen[article.Link]; ok {
					continue
				}
				if req.FilterByTopic && len(req.Topics) > 0 && !domain.MatchesAnyTopic(article, req.Topics) {
					continue
				}
				seen[article.Link] = struct{}{}
				results = append(results, article)
			}

			if processed < a.pageSize {
				break
			}
			skip += a.pageSize
		}
	}

	return results, nil
}

func (a *ArxivScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractArticles(doc *goquery.Document, siteName, category string) ([]domain.Article, int) {
	var (
		collected []domain.Article
		processed int
	)

	doc.Find("dl > dt").Each(func(_ int, dt *goquery.Selection) {
		processed++
		article, ok := parseEntry(dt, dt.Next(), siteName, category)
		if ok {
			collected = append(collected, article)
		}
	})

	return collected, processed
}

func parseEntry(dt, dd *goquery.Selection, siteName, category string) (domain.Article, bool) {
	link := dt.Find("a[href*=\"/abs/\"]").First()
	href, _ := link.Attr("href")
	if href == "" {
		return domain.Article{}, false
	}
	if !strings.HasPrefix(href, "http") {
		href = strings.TrimSuffix(arxivBaseURL, "/") + href
	}

	title := strings.TrimSpace(dd.Find(".list-title").First().Text())
	title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))

	abstract := dd.Find("p.mathjax").First().Text()
	abstract = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(abstract), "Abstract:"))

	dateText := strings.TrimSpace(dd.Find(".list-date").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dd.Find(".list-dateline").First().Text())
	}

	var publishedAt time.Time
	if match := dateExpr.FindString(dateText); match != "" {
		if parsed, err := time.Parse("2 Jan 2006", match); err == nil {
			publishedAt = parsed
		}
	}

	source := siteName
	if category != "" {
		source = fmt.Sprintf("%s/%s", siteName, category)
	}

	return domain.Article{
		Title:       title,
		Content:     abstract,
		Link:        href,
		Source:      source,
		PublishedAt: publishedAt,
	}, title != ""
}

func buildPageURL(base string, skip, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid category url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("skip", strconv.Itoa(skip))
	query.Set("show", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
