package domain

import (
	"strings"
	"time"
)

// Article is a candidate news item supplied by the article store.
// Link is the unique key.
type Article struct {
	Title       string
	Content     string
	Link        string
	Source      string
	PublishedAt time.Time
}

// Text returns the combined title and body used for relevance scoring.
func (a Article) Text() string {
	return a.Title + " " + a.Content
}

// MatchesAnyTopic reports whether any topic occurs in the article text, case-insensitively.
func MatchesAnyTopic(article Article, topics []string) bool {
	text := strings.ToLower(article.Text())
	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic != "" && strings.Contains(text, topic) {
			return true
		}
	}
	return false
}

// UserPreference is supplied per request.
type UserPreference struct {
	UserID          string
	PreferredTopics []string
}

// RankedArticle is one entry of a ranking result.
type RankedArticle struct {
	Article         Article
	Score           float64
	Summary         string
	SummaryFallback bool
}
