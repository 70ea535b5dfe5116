package ports

import (
	"context"
	"time"

	"NewsGenie/internal/domain"
)

// ArticleSource supplies the candidate set for a ranking pass.
type ArticleSource interface {
	Candidates(ctx context.Context, topics []string, limit int) ([]domain.Article, error)
}

// Summarizer produces an abstractive summary of raw article text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength int) (string, error)
}

// TextVectorizer turns a corpus into one sparse term-weight vector per document.
type TextVectorizer interface {
	Vectorize(docs []string) []map[string]float64
}

// RelevanceScorer returns one score in [0,1] per article, in input order.
type RelevanceScorer interface {
	Score(topics []string, articles []domain.Article) []float64
}

// InteractionStore keeps the append-only click/favorite log.
type InteractionStore interface {
	Record(ctx context.Context, event domain.InteractionEvent) error
	Stats(ctx context.Context, userID string) (domain.InteractionStats, error)
}

// ProfileStore remembers preferred topics per user.
type ProfileStore interface {
	Topics(ctx context.Context, userID string) ([]string, bool)
	Remember(ctx context.Context, userID string, topics []string)
}

// ContentExtractor downloads the readable full text behind an article link.
type ContentExtractor interface {
	Extract(ctx context.Context, link string) (string, error)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// Refresher reloads a cached data set from its upstream sources.
type Refresher interface {
	Refresh(ctx context.Context) error
}
