package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"NewsGenie/internal/config"
	"NewsGenie/internal/domain"
	"NewsGenie/internal/ports"
	"NewsGenie/internal/scanner"
)

// StrategyOptions tunes a StrategySource.
type StrategyOptions struct {
	// FilterByTopic is forwarded to strategies that cannot query by topic.
	FilterByTopic bool
	// Extractor, when set, replaces content shorter than EnrichMinLength
	// runes with the article's readable full text.
	Extractor         ports.ContentExtractor
	EnrichMinLength   int
	EnrichConcurrency int
}

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	opts     StrategyOptions
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, opts StrategyOptions, log *slog.Logger) *StrategySource {
	if opts.EnrichConcurrency <= 0 {
		opts.EnrichConcurrency = 4
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &StrategySource{
		registry: reg,
		sites:    sites,
		opts:     opts,
		logger:   log,
	}
}

// Candidates runs every configured site in order, de-duplicates by link and
// truncates to limit. A failing site is skipped unless every site failed.
func (s *StrategySource) Candidates(ctx context.Context, topics []string, limit int) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}
	if len(s.sites) == 0 {
		return nil, fmt.Errorf("no sites configured")
	}

	s.logger.DebugContext(ctx, "fetch candidates", "sites", len(s.sites), "topics", topics, "limit", limit)

	var (
		aggregated []domain.Article
		siteErrs   []error
		seen       = map[string]struct{}{}
	)
	for _, site := range s.sites {
		results, err := s.scanSite(ctx, site, topics, limit)
		if err != nil {
			siteErrs = append(siteErrs, err)
			s.logger.ErrorContext(ctx, "site scan failed", "site", site.Name, "error", err)
			continue
		}

		for _, article := range results {
			if article.Link == "" {
				continue
			}
			if _, dup := seen[article.Link]; dup {
				continue
			}
			seen[article.Link] = struct{}{}
			if article.Source == "" {
				article.Source = site.Name
			}
			aggregated = append(aggregated, article)
		}
		s.logger.DebugContext(ctx, "site produced articles", "site", site.Name, "count", len(results))
	}

	if len(siteErrs) == len(s.sites) {
		return nil, errors.Join(siteErrs...)
	}

	if limit > 0 && len(aggregated) > limit {
		aggregated = aggregated[:limit]
	}

	s.enrich(ctx, aggregated)

	s.logger.DebugContext(ctx, "strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) scanSite(ctx context.Context, site config.SiteConfig, topics []string, limit int) ([]domain.Article, error) {
	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", site.Name, err)
	}

	req := scanner.Request{
		SiteName:      site.Name,
		Topics:        topics,
		Limit:         limit,
		FilterByTopic: s.opts.FilterByTopic,
		Options:       site.Options,
		Categories:    toScannerCategories(site.Categories),
	}

	results, err := strategy.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
	}
	return results, nil
}

func (s *StrategySource) enrich(ctx context.Context, articles []domain.Article) {
	if s.opts.Extractor == nil {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.opts.EnrichConcurrency)
	for i := range articles {
		if utf8.RuneCountInString(articles[i].Content) >= s.opts.EnrichMinLength {
			continue
		}
		g.Go(func() error {
			text, err := s.opts.Extractor.Extract(ctx, articles[i].Link)
			if err != nil {
				s.logger.DebugContext(ctx, "content extraction failed", "link", articles[i].Link, "error", err)
				return nil
			}
			if text = strings.TrimSpace(text); utf8.RuneCountInString(text) > utf8.RuneCountInString(articles[i].Content) {
				articles[i].Content = text
			}
			return nil
		})
	}
	_ = g.Wait()
}

func toScannerCategories(cfg []config.CategoryConfig) []scanner.Category {
	categories := make([]scanner.Category, 0, len(cfg))
	for _, cat := range cfg {
		categories = append(categories, scanner.Category{
			Name: cat.Name,
			URL:  cat.URL,
		})
	}
	return categories
}
