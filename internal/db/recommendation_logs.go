package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/internradar/internal/types"
	"golang.org/x/sync/errgroup"
)

// History pagination bounds
const (
	DefaultHistoryPageSize = 10
	MaxHistoryPageSize     = 50
)

// CreateRecommendationLog appends one recommendation run to the user's history.
func (db *DB) CreateRecommendationLog(ctx context.Context, userID uuid.UUID, entries []types.RecommendationLogEntry) (uuid.UUID, error) {
	payload, err := json.Marshal(LogEntries(entries))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal recommendation log: %w", err)
	}
	if entries == nil {
		payload = []byte("[]")
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO recommendation_logs (user_id, recommendations)
		 VALUES ($1, $2)
		 RETURNING id`,
		userID, payload,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create recommendation log: %w", err)
	}
	return id, nil
}

// ListRecommendationLogs returns one page of a user's history, newest first,
// together with the total number of runs.
func (db *DB) ListRecommendationLogs(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.RecommendationLog, int, error) {
	page, limit = pageBounds(page, limit, DefaultHistoryPageSize, MaxHistoryPageSize)

	logs := []types.RecommendationLog{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := db.pool.Query(gctx,
			`SELECT id, user_id, recommendations, created_at
			 FROM recommendation_logs
			 WHERE user_id = $1
			 ORDER BY created_at DESC
			 LIMIT $2 OFFSET $3`,
			userID, limit, (page-1)*limit,
		)
		if err != nil {
			return fmt.Errorf("failed to list recommendation logs: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var log types.RecommendationLog
			var entries LogEntries
			if err := rows.Scan(&log.ID, &log.UserID, &entries, &log.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan recommendation log: %w", err)
			}
			log.Recommendations = entries
			logs = append(logs, log)
		}
		return rows.Err()
	})
	g.Go(func() error {
		err := db.pool.QueryRow(gctx,
			`SELECT COUNT(*) FROM recommendation_logs WHERE user_id = $1`, userID,
		).Scan(&total)
		if err != nil {
			return fmt.Errorf("failed to count recommendation logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
