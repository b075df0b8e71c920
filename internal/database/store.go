package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sacredtrees/sappie/internal/logger"
)

// Store is the post log.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SavePost inserts a post and fills in its ID.
	SavePost(ctx context.Context, post *Post) error

	// RecentPosts returns the newest posts first.
	RecentPosts(ctx context.Context, limit int) ([]Post, error)

	// CountPostsSince counts posts on platform at or after since.
	CountPostsSince(ctx context.Context, platform string, since time.Time) (int, error)

	// RunSQLMaintenance compacts the database file.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore returns a Store backed by db.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = logger.Discard()
	}
	return &sqlxStore{
		db:     db,
		logger: log.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SavePost(ctx context.Context, post *Post) error {
	if post == nil {
		return errors.New("cannot save nil post")
	}
	if post.Platform == "" {
		return errors.New("post must have a platform")
	}
	if post.Content == "" {
		return errors.New("post must have non-empty content")
	}

	now := time.Now().UTC()
	if post.PostedAt.IsZero() {
		post.PostedAt = now
	}
	post.PostedAt = post.PostedAt.UTC()
	post.CreatedAt = now
	if post.Kind == "" {
		post.Kind = KindGenerated
	}

	const query = `
        INSERT INTO posts (platform, kind, content, chat_id, user_id, custom_prompt, external_id, sacred_time, posted_at, created_at)
        VALUES (:platform, :kind, :content, :chat_id, :user_id, :custom_prompt, :external_id, :sacred_time, :posted_at, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, post)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving post", "platform", post.Platform, "kind", post.Kind, "error", err)
		return fmt.Errorf("failed to save %s post: %w", post.Platform, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		post.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving post", "error", err)
	}

	s.logger.DebugContext(ctx, "Post saved", "post_id", post.ID, "platform", post.Platform, "kind", post.Kind)
	return nil
}

func (s *sqlxStore) RecentPosts(ctx context.Context, limit int) ([]Post, error) {
	switch {
	case limit <= 0:
		limit = 20
	case limit > 100:
		limit = 100
	}

	const query = `
        SELECT id, platform, kind, content, chat_id, user_id, custom_prompt, external_id, sacred_time, posted_at, created_at
        FROM posts
        ORDER BY posted_at DESC, id DESC
        LIMIT ?;
    `
	var posts []Post
	if err := s.db.SelectContext(ctx, &posts, query, limit); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Error fetching recent posts", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent posts: %w", err)
	}
	return posts, nil
}

func (s *sqlxStore) CountPostsSince(ctx context.Context, platform string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM posts WHERE platform = ? AND posted_at >= ?;`

	var count int
	if err := s.db.GetContext(ctx, &count, query, platform, since.UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error counting posts", "platform", platform, "error", err)
		return 0, fmt.Errorf("failed to count %s posts: %w", platform, err)
	}
	return count, nil
}

// RunSQLMaintenance runs VACUUM. It must not run inside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")
	start := time.Now()

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed", "duration", time.Since(start))
	return nil
}
