package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/metrics"
	"NewsGenie/internal/ports"
)

// Profiles serves user profiles and records interactions. It never feeds
// interactions back into ranking.
type Profiles struct {
	interactions ports.InteractionStore
	profiles     ports.ProfileStore
	logger       *slog.Logger
	now          func() time.Time
}

// NewProfiles wires the interaction log and the topic store.
func NewProfiles(interactions ports.InteractionStore, profiles ports.ProfileStore, logger *slog.Logger) *Profiles {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Profiles{
		interactions: interactions,
		profiles:     profiles,
		logger:       logger,
		now:          time.Now,
	}
}

// RecordInteraction validates and appends one event to the interaction log.
func (s *Profiles) RecordInteraction(ctx context.Context, userID, action, articleLink string) error {
	userID = strings.TrimSpace(userID)
	articleLink = strings.TrimSpace(articleLink)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if articleLink == "" {
		return fmt.Errorf("%w: article_id is required", domain.ErrInvalidInput)
	}
	act, err := domain.ParseAction(action)
	if err != nil {
		return err
	}

	event := domain.InteractionEvent{
		ID:          uuid.NewString(),
		UserID:      userID,
		ArticleLink: articleLink,
		Action:      act,
		Timestamp:   s.now().UTC(),
	}
	if err := s.interactions.Record(ctx, event); err != nil {
		return fmt.Errorf("%w: record interaction: %w", domain.ErrUpstreamUnavailable, err)
	}

	metrics.InteractionsRecorded.WithLabelValues(string(act)).Inc()
	s.logger.DebugContext(ctx, "interaction recorded",
		"user_id", userID,
		"action", act,
		"article", articleLink)
	return nil
}

// Profile returns the stored topics of a user joined with the interaction
// counts. Unknown users get an empty default profile, not an error.
func (s *Profiles) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Profile{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	profile := domain.Profile{UserID: userID, PreferredTopics: []string{}}
	if s.profiles != nil {
		if topics, ok := s.profiles.Topics(ctx, userID); ok {
			profile.PreferredTopics = topics
		}
	}

	stats, err := s.interactions.Stats(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: load interaction stats: %w", domain.ErrUpstreamUnavailable, err)
	}
	profile.ClickHistoryCount = stats.ClickCount
	profile.FavoriteArticlesCount = stats.FavoriteCount

	return profile, nil
}

// RememberTopics stores the topics a user ranked with, unless the user
// already has a profile.
func (s *Profiles) RememberTopics(ctx context.Context, userID string, topics []string) {
	if s.profiles == nil || strings.TrimSpace(userID) == "" || len(topics) == 0 {
		return
	}
	if _, ok := s.profiles.Topics(ctx, userID); ok {
		return
	}
	s.profiles.Remember(ctx, userID, topics)
}
