package domain

import (
	"fmt"
	"strings"
	"time"
)

// Action enumerates the user interactions the service records.
type Action string

const (
	ActionClick    Action = "click"
	ActionFavorite Action = "favorite"
)

// ParseAction validates a raw action name.
func ParseAction(raw string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionClick:
		return ActionClick, nil
	case ActionFavorite:
		return ActionFavorite, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q, use 'click' or 'favorite'", ErrInvalidInput, raw)
	}
}

// InteractionEvent is appended to the interaction log and never mutated.
type InteractionEvent struct {
	ID          string
	UserID      string
	ArticleLink string
	Action      Action
	Timestamp   time.Time
}

// InteractionStats aggregates a user's events.
type InteractionStats struct {
	ClickCount    int
	FavoriteCount int
}

// Profile is the user view served by the profile endpoint.
type Profile struct {
	UserID                string
	PreferredTopics       []string
	ClickHistoryCount     int
	FavoriteArticlesCount int
}
