package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/ports"
)

const (
	noContentSummary = "No content available for summarization."
	leadSentences    = 3
	ellipsis         = "..."
)

// FallbackSummary is the truncated-content summary used when the summarizer
// fails: the lead sentences of the content, else the title, else a fixed notice.
// It is never empty.
func FallbackSummary(article domain.Article, maxChars int) string {
	if lead := LeadSentences(article.Content, leadSentences, maxChars); lead != "" {
		return lead
	}
	if title := strings.TrimSpace(article.Title); title != "" {
		return truncate(title, maxChars)
	}
	return noContentSummary
}

// LeadSentences joins the first n sentences of text and truncates the result
// to maxChars runes on a word boundary. maxChars <= 0 disables truncation.
func LeadSentences(text string, n, maxChars int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	sentences := splitSentences(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return truncate(strings.Join(sentences, " "), maxChars)
}

func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func truncate(text string, maxChars int) string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}

	cut := string(runes[:maxChars])
	if !unicode.IsSpace(runes[maxChars]) {
		if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + ellipsis
}

// ExtractiveSummarizer summarizes offline by keeping the lead sentences.
type ExtractiveSummarizer struct{}

var _ ports.Summarizer = ExtractiveSummarizer{}

// Summarize implements ports.Summarizer.
func (ExtractiveSummarizer) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	summary := LeadSentences(text, leadSentences, maxLength)
	if summary == "" {
		return "", fmt.Errorf("%w: nothing to summarize", domain.ErrInvalidInput)
	}
	return summary, nil
}
