package parser

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/scanner"
)

// MockArticle is one fixture entry. Without PublishedAt the article is dated
// AgeHours before the scan.
type MockArticle struct {
	Title       string    `yaml:"title"`
	Content     string    `yaml:"content"`
	Link        string    `yaml:"link"`
	Source      string    `yaml:"source"`
	PublishedAt time.Time `yaml:"publishedAt"`
	AgeHours    int       `yaml:"ageHours"`
}

type mockFixtures struct {
	Articles []MockArticle `yaml:"articles"`
}

// MockScanner serves a fixed article feed for development and tests.
type MockScanner struct {
	articles []MockArticle
	now      func() time.Time
}

var _ scanner.Scanner = (*MockScanner)(nil)

// NewMockScanner serves articles; nil serves the built-in feed.
func NewMockScanner(articles []MockArticle) *MockScanner {
	if articles == nil {
		articles = DefaultMockArticles()
	}
	return &MockScanner{articles: articles, now: time.Now}
}

// LoadMockArticles reads a YAML fixture file with a top-level "articles" list.
func LoadMockArticles(path string) ([]MockArticle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}

	var fixtures mockFixtures
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	if len(fixtures.Articles) == 0 {
		return nil, fmt.Errorf("fixtures %s contain no articles", path)
	}
	return fixtures.Articles, nil
}

// Name identifies the strategy inside the registry.
func (m *MockScanner) Name() string {
	return "mock"
}

// Scan returns the feed in fixture order, optionally filtered by topic.
func (m *MockScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := m.now().UTC()
	out := make([]domain.Article, 0, len(m.articles))
	for _, fixture := range m.articles {
		if req.Limit > 0 && len(out) >= req.Limit {
			break
		}

		article := domain.Article{
			Title:       fixture.Title,
			Content:     fixture.Content,
			Link:        fixture.Link,
			Source:      fixture.Source,
			PublishedAt: fixture.PublishedAt,
		}
		if article.PublishedAt.IsZero() {
			article.PublishedAt = now.Add(-time.Duration(fixture.AgeHours) * time.Hour)
		}
		if req.FilterByTopic && len(req.Topics) > 0 && !domain.MatchesAnyTopic(article, req.Topics) {
			continue
		}
		out = append(out, article)
	}
	return out, nil
}

// DefaultMockArticles is the built-in development feed.
func DefaultMockArticles() []MockArticle {
	return []MockArticle{
		{
			Title:   "AI Breakthrough in Natural Language Processing",
			Content: "Researchers have developed a new AI model that significantly improves natural language understanding. The model, based on transformer architecture, shows remarkable performance on various NLP tasks including translation, summarization, and question answering. This breakthrough could revolutionize how we interact with AI systems in everyday applications.",
			Link:    "https://example.com/ai-breakthrough",
			Source:  "Tech News",
		},
		{
			Title:    "Machine Learning Revolutionizes Healthcare Diagnostics",
			Content:  "Healthcare providers are increasingly adopting machine learning algorithms to improve diagnostic accuracy. These AI systems can analyze medical images, patient data, and symptoms to provide faster and more accurate diagnoses. Early results show significant improvements in detection rates for various conditions.",
			Link:     "https://example.com/ml-healthcare",
			Source:   "Health Tech",
			AgeHours: 2,
		},
		{
			Title:    "Global Economic Trends in 2024",
			Content:  "The global economy is showing signs of recovery with emerging markets leading the way. Technology sectors continue to drive growth while traditional industries adapt to digital transformation. Experts predict sustained growth in AI and renewable energy sectors.",
			Link:     "https://example.com/economic-trends",
			Source:   "Business Daily",
			AgeHours: 4,
		},
		{
			Title:    "Climate Change: New Solutions Emerge",
			Content:  "Scientists are developing innovative solutions to address climate change challenges. From carbon capture technologies to renewable energy breakthroughs, these developments offer hope for a sustainable future. International cooperation is key to implementing these solutions effectively.",
			Link:     "https://example.com/climate-solutions",
			Source:   "Science Today",
			AgeHours: 6,
		},
		{
			Title:    "Space Exploration: Mars Mission Update",
			Content:  "The latest Mars mission has provided unprecedented data about the red planet's geology and atmosphere. Scientists are analyzing samples that could reveal evidence of past water and potential for future human habitation. This mission represents a major step forward in space exploration.",
			Link:     "https://example.com/mars-mission",
			Source:   "Space News",
			AgeHours: 8,
		},
	}
}
