package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/ports"
)

const interactionsTable = "interactions"

const createInteractionsSQL = `
CREATE TABLE IF NOT EXISTS interactions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	article_link TEXT NOT NULL,
	action       TEXT NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS interactions_user_idx ON interactions (user_id);
`

// SQLInteractions keeps the interaction log in SQLite. The default DSN is a
// shared in-memory database; a single open connection serializes writers.
type SQLInteractions struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.InteractionStore = (*SQLInteractions)(nil)

// OpenSQLInteractions opens dsn with the modernc sqlite driver and creates the schema.
func OpenSQLInteractions(ctx context.Context, dsn string) (*SQLInteractions, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open interactions db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createInteractionsSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create interactions schema: %w", err)
	}

	return &SQLInteractions{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Record inserts the event.
func (s *SQLInteractions) Record(ctx context.Context, event domain.InteractionEvent) error {
	query, args, err := s.builder.
		Insert(interactionsTable).
		Columns("id", "user_id", "article_link", "action", "created_at").
		Values(event.ID, event.UserID, event.ArticleLink, string(event.Action), event.Timestamp.UnixNano()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// Stats counts every click and the distinct favorited links of a user.
func (s *SQLInteractions) Stats(ctx context.Context, userID string) (domain.InteractionStats, error) {
	query, args, err := s.builder.
		Select(
			"COALESCE(SUM(CASE WHEN action = 'click' THEN 1 ELSE 0 END), 0)",
			"COUNT(DISTINCT CASE WHEN action = 'favorite' THEN article_link END)",
		).
		From(interactionsTable).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return domain.InteractionStats{}, fmt.Errorf("build stats query: %w", err)
	}

	var stats domain.InteractionStats
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&stats.ClickCount, &stats.FavoriteCount); err != nil {
		return domain.InteractionStats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

// Events returns the user's log ordered by time.
func (s *SQLInteractions) Events(ctx context.Context, userID string) ([]domain.InteractionEvent, error) {
	query, args, err := s.builder.
		Select("id", "user_id", "article_link", "action", "created_at").
		From(interactionsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at", "rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build events query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	var events []domain.InteractionEvent
	for rows.Next() {
		var (
			e      domain.InteractionEvent
			action string
			nanos  int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.ArticleLink, &action, &nanos); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Action = domain.Action(action)
		e.Timestamp = time.Unix(0, nanos).UTC()
		events = append(events, e)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return events, nil
}

// Close releases the database.
func (s *SQLInteractions) Close() error {
	return s.db.Close()
}
