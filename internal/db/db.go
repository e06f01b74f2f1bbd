// Package db provides PostgreSQL database access for run and post storage.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun creates a new generation run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, venueID uuid.UUID, postType, copyMode, platform string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO generation_runs (venue_id, post_type, copy_mode, platform, status)
		 VALUES ($1, $2, $3, $4, 'running')
		 RETURNING id`,
		venueID, postType, copyMode, platform,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a generation run as finished. For rejected and failed
// runs the reason carries the first violation or the failure message.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status, model, reason string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generation_runs SET status = $1, model = $2, reason = $3, completed_at = NOW() WHERE id = $4`,
		status, model, reason, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a generation run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, venue_id, post_type, copy_mode, COALESCE(platform, ''), COALESCE(model, ''),
		        status, COALESCE(reason, ''), created_at, completed_at
		 FROM generation_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.VenueID, &run.PostType, &run.CopyMode, &run.Platform, &run.Model,
		&run.Status, &run.Reason, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	PostType string
	Status   string
	Limit    int
}

// ListRuns retrieves recent generation runs for a venue with optional filters
func (db *DB) ListRuns(ctx context.Context, venueID uuid.UUID, filters RunFilters) ([]Run, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, venue_id, post_type, copy_mode, COALESCE(platform, ''), COALESCE(model, ''),
		       status, COALESCE(reason, ''), created_at, completed_at
		FROM generation_runs WHERE venue_id = $1`
	args := []any{venueID}
	argNum := 2

	if filters.PostType != "" {
		query += fmt.Sprintf(" AND post_type = $%d", argNum)
		args = append(args, filters.PostType)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.VenueID, &run.PostType, &run.CopyMode, &run.Platform, &run.Model,
			&run.Status, &run.Reason, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// SavePost stores an accepted draft for a run
func (db *DB) SavePost(ctx context.Context, runID, venueID uuid.UUID, content, model string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO posts (run_id, venue_id, content, model)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		runID, venueID, content, model,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save post: %w", err)
	}
	return id, nil
}

// GetPostByRun retrieves the stored post for a run, if any
func (db *DB) GetPostByRun(ctx context.Context, runID uuid.UUID) (*Post, error) {
	var post Post
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, venue_id, content, COALESCE(model, ''), created_at
		 FROM posts WHERE run_id = $1`,
		runID,
	).Scan(&post.ID, &post.RunID, &post.VenueID, &post.Content, &post.Model, &post.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// ListPosts retrieves recent accepted posts for a venue
func (db *DB) ListPosts(ctx context.Context, venueID uuid.UUID, limit int) ([]Post, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, venue_id, content, COALESCE(model, ''), created_at
		 FROM posts WHERE venue_id = $1 ORDER BY created_at DESC LIMIT $2`,
		venueID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.RunID, &post.VenueID, &post.Content, &post.Model, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// RecordUsage charges one model call to the venue's ledger. This is written
// as soon as the model returns, before the draft's verdict is known.
func (db *DB) RecordUsage(ctx context.Context, venueID, runID uuid.UUID, model string, accepted bool) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO usage_ledger (venue_id, run_id, model, accepted)
		 VALUES ($1, $2, $3, $4)`,
		venueID, runID, model, accepted,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// UsageThisMonth returns the number of model calls charged to a venue since
// the start of the current calendar month.
func (db *DB) UsageThisMonth(ctx context.Context, venueID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM usage_ledger
		 WHERE venue_id = $1 AND created_at >= date_trunc('month', NOW())`,
		venueID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage: %w", err)
	}
	return count, nil
}
