package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/metrics"
	"NewsGenie/internal/ports"
	"NewsGenie/internal/relevance"
)

// Defaults applied by NewPipeline when the matching PipelineDeps field is zero.
const (
	DefaultSummaryMaxLength = 150
	DefaultSummaryTimeout   = 10 * time.Second
	DefaultCandidateFactor  = 2
	DefaultFallbackLength   = 200
	DefaultMinSummaryInput  = 50
	DefaultConcurrency      = 4
)

// PipelineDeps wires the driven adapters and tuning knobs into the ranking pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Scorer     ports.RelevanceScorer
	Summarizer ports.Summarizer
	Logger     *slog.Logger

	SummaryMaxLength int
	SummaryTimeout   time.Duration
	CandidateFactor  int
	FallbackLength   int
	MinSummaryInput  int
	Concurrency      int
}

// Pipeline implements the ranking workflow: candidates, scoring, selection and summaries.
type Pipeline struct {
	source     ports.ArticleSource
	scorer     ports.RelevanceScorer
	summarizer ports.Summarizer
	logger     *slog.Logger

	summaryMaxLength int
	summaryTimeout   time.Duration
	candidateFactor  int
	fallbackLength   int
	minSummaryInput  int
	concurrency      int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:           deps.Source,
		scorer:           deps.Scorer,
		summarizer:       deps.Summarizer,
		logger:           deps.Logger,
		summaryMaxLength: orDefault(deps.SummaryMaxLength, DefaultSummaryMaxLength),
		summaryTimeout:   deps.SummaryTimeout,
		candidateFactor:  orDefault(deps.CandidateFactor, DefaultCandidateFactor),
		fallbackLength:   orDefault(deps.FallbackLength, DefaultFallbackLength),
		minSummaryInput:  orDefault(deps.MinSummaryInput, DefaultMinSummaryInput),
		concurrency:      orDefault(deps.Concurrency, DefaultConcurrency),
	}
	if p.summaryTimeout <= 0 {
		p.summaryTimeout = DefaultSummaryTimeout
	}
	if p.scorer == nil {
		p.scorer = relevance.NewScorer(nil)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Rank returns at most maxArticles candidates ordered by descending relevance
// to topics, each with a summary. A failing summarizer degrades a single entry
// to a fallback summary; only a failing article source fails the call.
func (p *Pipeline) Rank(ctx context.Context, userID string, topics []string, maxArticles int) ([]domain.RankedArticle, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	if maxArticles <= 0 {
		return nil, fmt.Errorf("%w: max_articles must be positive, got %d", domain.ErrInvalidInput, maxArticles)
	}
	if p.source == nil {
		return nil, fmt.Errorf("%w: no article source configured", domain.ErrUpstreamUnavailable)
	}

	start := time.Now()
	defer func() {
		metrics.RankingDuration.Observe(time.Since(start).Seconds())
	}()

	candidates, err := p.source.Candidates(ctx, topics, maxArticles*p.candidateFactor)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return nil, fmt.Errorf("load candidates: %w", err)
		}
		return nil, fmt.Errorf("%w: load candidates: %w", domain.ErrUpstreamUnavailable, err)
	}

	candidates = uniqueByLink(candidates)
	metrics.RankingCandidates.Observe(float64(len(candidates)))

	ranked := make([]domain.RankedArticle, 0, min(maxArticles, len(candidates)))
	if len(candidates) == 0 {
		return ranked, nil
	}

	scores := p.scorer.Score(topics, candidates)
	for i, article := range candidates {
		var score float64
		if i < len(scores) {
			score = scores[i]
		}
		ranked = append(ranked, domain.RankedArticle{Article: article, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxArticles {
		ranked = ranked[:maxArticles]
	}

	p.attachSummaries(ctx, ranked)

	p.logger.DebugContext(ctx, "ranking complete",
		"user_id", userID,
		"topics", len(topics),
		"candidates", len(candidates),
		"returned", len(ranked),
		"duration", time.Since(start))

	return ranked, nil
}

// Summarize runs the configured summarizer over free text with the same
// timeout-then-fallback policy Rank applies per article.
func (p *Pipeline) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	if maxLength <= 0 {
		return "", fmt.Errorf("%w: max_length must be positive, got %d", domain.ErrInvalidInput, maxLength)
	}

	summary, reason := p.summarizeText(ctx, text, maxLength)
	if reason == "" {
		return summary, nil
	}

	metrics.SummaryFallbacks.WithLabelValues(reason).Inc()
	p.logger.WarnContext(ctx, "summarizer fallback", "reason", reason)
	return FallbackSummary(domain.Article{Content: text}, maxLength), nil
}

func (p *Pipeline) attachSummaries(ctx context.Context, ranked []domain.RankedArticle) {
	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i := range ranked {
		g.Go(func() error {
			entry := &ranked[i]
			summary, reason := p.summarizeText(ctx, entry.Article.Content, p.summaryMaxLength)
			if reason == "" {
				entry.Summary = summary
				return nil
			}

			metrics.SummaryFallbacks.WithLabelValues(reason).Inc()
			p.logger.WarnContext(ctx, "summarizer fallback",
				"link", entry.Article.Link,
				"reason", reason)
			entry.Summary = FallbackSummary(entry.Article, p.fallbackLength)
			entry.SummaryFallback = true
			return nil
		})
	}

	_ = g.Wait()
}

type summaryResult struct {
	summary string
	err     error
}

// summarizeText returns the summary and an empty reason, or a non-empty
// fallback reason ("empty", "unconfigured", "timeout", "error").
func (p *Pipeline) summarizeText(ctx context.Context, text string, maxLength int) (string, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "empty"
	}
	if utf8.RuneCountInString(text) < p.minSummaryInput {
		return text, ""
	}
	if p.summarizer == nil {
		return "", "unconfigured"
	}

	callCtx, cancel := context.WithTimeout(ctx, p.summaryTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan summaryResult, 1)
	go func() {
		summary, err := p.summarizer.Summarize(callCtx, text, maxLength)
		done <- summaryResult{summary: summary, err: err}
	}()

	var res summaryResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = summaryResult{err: callCtx.Err()}
	}
	metrics.SummarizerDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(res.err, context.DeadlineExceeded):
		return "", "timeout"
	case res.err != nil:
		p.logger.DebugContext(ctx, "summarizer failed", "error", res.err)
		return "", "error"
	case strings.TrimSpace(res.summary) == "":
		return "", "empty"
	default:
		return strings.TrimSpace(res.summary), ""
	}
}

func uniqueByLink(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if _, dup := seen[article.Link]; dup {
			continue
		}
		seen[article.Link] = struct{}{}
		out = append(out, article)
	}
	return out
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
