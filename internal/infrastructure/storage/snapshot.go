package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/metrics"
	"NewsGenie/internal/ports"
)

// SnapshotOptions tunes a Snapshot.
type SnapshotOptions struct {
	// Topics are passed to the loader on refresh.
	Topics []string
	// Size bounds the number of articles fetched per refresh.
	Size int
	// FilterByTopic restricts reads to articles mentioning a requested topic.
	FilterByTopic bool
}

type snapshotData struct {
	articles []domain.Article
	loadedAt time.Time
}

// Snapshot serves candidates from an immutable, periodically replaced
// article set. Readers never block on a refresh once the first load
// succeeded.
type Snapshot struct {
	loader  ports.ArticleSource
	opts    SnapshotOptions
	logger  *slog.Logger
	current atomic.Pointer[snapshotData]
	mu      sync.Mutex
}

var (
	_ ports.ArticleSource = (*Snapshot)(nil)
	_ ports.Refresher     = (*Snapshot)(nil)
)

// NewSnapshot wraps loader; nothing is fetched until Refresh or the first read.
func NewSnapshot(loader ports.ArticleSource, opts SnapshotOptions, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Snapshot{loader: loader, opts: opts, logger: logger}
}

// Refresh replaces the snapshot. On failure the previous snapshot stays in place.
func (s *Snapshot) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Snapshot) refreshLocked(ctx context.Context) error {
	articles, err := s.loader.Candidates(ctx, s.opts.Topics, s.opts.Size)
	metrics.RecordSnapshotRefresh(len(articles), err)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	s.current.Store(&snapshotData{articles: articles, loadedAt: time.Now()})
	s.logger.InfoContext(ctx, "article snapshot refreshed", "articles", len(articles))
	return nil
}

// Candidates returns a copy of the snapshot filtered by topics and truncated
// to limit. The first read loads the snapshot synchronously.
func (s *Snapshot) Candidates(ctx context.Context, topics []string, limit int) ([]domain.Article, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Article, 0, min(len(data.articles), max(limit, 0)))
	for _, article := range data.articles {
		if limit > 0 && len(out) >= limit {
			break
		}
		if s.opts.FilterByTopic && len(topics) > 0 && !domain.MatchesAnyTopic(article, topics) {
			continue
		}
		out = append(out, article)
	}
	return out, nil
}

// LoadedAt reports when the current snapshot was fetched; zero before the first load.
func (s *Snapshot) LoadedAt() time.Time {
	if data := s.current.Load(); data != nil {
		return data.loadedAt
	}
	return time.Time{}
}

func (s *Snapshot) load(ctx context.Context) (*snapshotData, error) {
	if data := s.current.Load(); data != nil {
		return data, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if data := s.current.Load(); data != nil {
		return data, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return s.current.Load(), nil
}
