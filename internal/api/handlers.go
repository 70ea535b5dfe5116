package api

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/validation"
)

// Ranker is the ranking pipeline as seen by the HTTP layer.
type Ranker interface {
	Rank(ctx context.Context, userID string, topics []string, maxArticles int) ([]domain.RankedArticle, error)
	Summarize(ctx context.Context, text string, maxLength int) (string, error)
}

// ProfileService records interactions and serves user profiles.
type ProfileService interface {
	RecordInteraction(ctx context.Context, userID, action, articleLink string) error
	Profile(ctx context.Context, userID string) (domain.Profile, error)
	RememberTopics(ctx context.Context, userID string, topics []string)
}

// Options tunes request defaults and bounds.
type Options struct {
	Version            string
	DefaultMaxArticles int
	MaxArticlesLimit   int
	DefaultSummaryLen  int
}

// Handler serves the public endpoints.
type Handler struct {
	ranker   Ranker
	profiles ProfileService
	opts     Options
	logger   *slog.Logger
}

// NewHandler fills zero options with the service defaults.
func NewHandler(ranker Ranker, profiles ProfileService, opts Options, logger *slog.Logger) *Handler {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.DefaultMaxArticles <= 0 {
		opts.DefaultMaxArticles = 10
	}
	if opts.MaxArticlesLimit < opts.DefaultMaxArticles {
		opts.MaxArticlesLimit = max(50, opts.DefaultMaxArticles)
	}
	if opts.DefaultSummaryLen <= 0 {
		opts.DefaultSummaryLen = 150
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{ranker: ranker, profiles: profiles, opts: opts, logger: logger}
}

// NewsQuery holds the validated /news query parameters.
type NewsQuery struct {
	UserID          string `query:"user_id" validate:"required"`
	PreferredTopics string `query:"preferred_topics" validate:"required"`
	MaxArticles     int    `query:"max_articles" validate:"gte=1"`
}

// NewsArticle is one element of the /news response.
type NewsArticle struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	Score       float64    `json:"score"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SummarizeRequest is the POST /summarize body.
type SummarizeRequest struct {
	Text      string `json:"text" validate:"required,min=50"`
	MaxLength int    `json:"max_length" validate:"gte=50,lte=500"`
}

// SummarizeResponse reports lengths in characters.
type SummarizeResponse struct {
	Summary        string `json:"summary"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
}

// ProfileResponse is the GET /user/{userId}/profile body.
type ProfileResponse struct {
	UserID                string   `json:"user_id"`
	PreferredTopics       []string `json:"preferred_topics"`
	ClickHistoryCount     int      `json:"click_history_count"`
	FavoriteArticlesCount int      `json:"favorite_articles_count"`
}

// Root describes the service.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to NewsGenie API",
		"version": h.opts.Version,
		"endpoints": map[string]string{
			"news":      "/news",
			"summarize": "/summarize",
			"profile":   "/user/{userId}/profile",
			"health":    "/health",
			"metrics":   "/metrics",
		},
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.opts.Version,
	})
}

// News ranks candidates for the caller's topics.
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseNewsQuery(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	topics := ParseTopics(query.PreferredTopics)
	if len(topics) == 0 {
		h.respondError(w, r, &validation.RequestValidationError{Fields: []validation.FieldError{{
			Field:   "preferred_topics",
			Tag:     "required",
			Message: "preferred_topics must contain at least one topic",
		}}})
		return
	}

	ctx := r.Context()
	h.profiles.RememberTopics(ctx, query.UserID, topics)

	ranked, err := h.ranker.Rank(ctx, query.UserID, topics, query.MaxArticles)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]NewsArticle, 0, len(ranked))
	for _, item := range ranked {
		article := NewsArticle{
			Title:   item.Article.Title,
			Summary: item.Summary,
			Link:    item.Article.Link,
			Source:  item.Article.Source,
			Score:   math.Round(item.Score*1000) / 1000,
		}
		if !item.Article.PublishedAt.IsZero() {
			published := item.Article.PublishedAt.UTC()
			article.PublishedAt = &published
		}
		out = append(out, article)
	}

	h.logger.InfoContext(ctx, "news served", "user_id", query.UserID, "topics", topics, "articles", len(out))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) parseNewsQuery(r *http.Request) (NewsQuery, error) {
	values := r.URL.Query()
	query := NewsQuery{
		UserID:          strings.TrimSpace(values.Get("user_id")),
		PreferredTopics: values.Get("preferred_topics"),
		MaxArticles:     h.opts.DefaultMaxArticles,
	}

	if raw := strings.TrimSpace(values.Get("max_articles")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return NewsQuery{}, fmt.Errorf("%w: max_articles must be an integer", domain.ErrInvalidInput)
		}
		query.MaxArticles = n
	}

	if verr := validation.ValidateStruct(query); verr != nil {
		return NewsQuery{}, verr
	}
	if query.MaxArticles > h.opts.MaxArticlesLimit {
		return NewsQuery{}, &validation.RequestValidationError{Fields: []validation.FieldError{{
			Field:   "max_articles",
			Tag:     "lte",
			Param:   strconv.Itoa(h.opts.MaxArticlesLimit),
			Message: fmt.Sprintf("max_articles must be less than or equal to %d", h.opts.MaxArticlesLimit),
		}}}
	}
	return query, nil
}

// ParseTopics splits a comma-separated topic list, trimming blanks.
func ParseTopics(raw string) []string {
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			topics = append(topics, p)
		}
	}
	return topics
}

// Summarize summarizes free text.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	req := SummarizeRequest{MaxLength: h.opts.DefaultSummaryLen}
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		h.respondError(w, r, verr)
		return
	}

	summary, err := h.ranker.Summarize(r.Context(), req.Text, req.MaxLength)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SummarizeResponse{
		Summary:        summary,
		OriginalLength: utf8.RuneCountInString(req.Text),
		SummaryLength:  utf8.RuneCountInString(summary),
	})
}

// Profile returns a user's topics and interaction counts.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Profile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	topics := profile.PreferredTopics
	if topics == nil {
		topics = []string{}
	}
	writeJSON(w, http.StatusOK, ProfileResponse{
		UserID:                profile.UserID,
		PreferredTopics:       topics,
		ClickHistoryCount:     profile.ClickHistoryCount,
		FavoriteArticlesCount: profile.FavoriteArticlesCount,
	})
}

// RecordInteraction appends a click or favorite event.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	err := h.profiles.RecordInteraction(r.Context(), chi.URLParam(r, "userId"), values.Get("action"), values.Get("article_id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotFound answers unknown routes with the error body.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, codeNotFound, "route not found", nil)
}

// MethodNotAllowed answers wrong methods on known routes.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, codeMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path, nil)
}
