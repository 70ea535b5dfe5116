// Package relevance scores candidate articles against a user's preferred topics.
//
// The topic list is joined into a pseudo-document and vectorized together with
// every article's title and content. Each article's score is the cosine
// similarity between its vector and the topic vector, so scores fall in [0,1].
package relevance

import (
	"math"
	"strings"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/ports"
)

// Scorer implements ports.RelevanceScorer over any TextVectorizer.
type Scorer struct {
	vectorizer ports.TextVectorizer
	topicBoost bool
}

var _ ports.RelevanceScorer = (*Scorer)(nil)

// Option configures a Scorer.
type Option func(*Scorer)

// WithTopicBoost multiplies the cosine score by 1.2 when one topic occurs
// verbatim in the article and by 1.5 when two or more do. Results stay clamped to 1.
func WithTopicBoost(enabled bool) Option {
	return func(s *Scorer) {
		s.topicBoost = enabled
	}
}

// NewScorer wires a vectorizer; nil falls back to a default TF-IDF.
func NewScorer(vectorizer ports.TextVectorizer, opts ...Option) *Scorer {
	if vectorizer == nil {
		vectorizer = NewTFIDF(TFIDFConfig{MaxFeatures: 1000})
	}
	s := &Scorer{vectorizer: vectorizer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns one score per article in input order. Degenerate input never
// faults: no articles yields an empty slice, no topics yields all zeroes.
func (s *Scorer) Score(topics []string, articles []domain.Article) []float64 {
	scores := make([]float64, len(articles))
	if len(articles) == 0 {
		return scores
	}

	topicDoc := strings.TrimSpace(strings.Join(topics, " "))
	if topicDoc == "" {
		return scores
	}

	docs := make([]string, 0, len(articles)+1)
	docs = append(docs, topicDoc)
	for _, a := range articles {
		docs = append(docs, a.Text())
	}

	vectors := s.vectorizer.Vectorize(docs)
	if len(vectors) != len(docs) {
		return scores
	}

	for i, a := range articles {
		score := Cosine(vectors[0], vectors[i+1])
		if s.topicBoost && score > 0 {
			score *= boost(a, topics)
		}
		scores[i] = clamp(score)
	}

	return scores
}

func boost(article domain.Article, topics []string) float64 {
	text := strings.ToLower(article.Text())
	matches := 0
	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic != "" && strings.Contains(text, topic) {
			matches++
		}
	}

	switch {
	case matches == 0:
		return 1.0
	case matches == 1:
		return 1.2
	default:
		return 1.5
	}
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
