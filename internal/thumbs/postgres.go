package thumbs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chathandevog-hash/Malti-Function-Bot/core/logger"
	"github.com/jmoiron/sqlx"
	"log/slog"
)

// PostgresStore keeps thumbnail records in the thumbnails table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps the shared database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Set inserts or overwrites the thumbnail reference for the user.
func (s *PostgresStore) Set(ctx context.Context, userID int64, fileRef string) error {
	const q = `
		INSERT INTO thumbnails (user_id, file_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET file_id = EXCLUDED.file_id, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, q, userID, fileRef); err != nil {
		return fmt.Errorf("thumbs: set: %w", err)
	}
	logger.LogEvent(ctx, logger.Thumbs, slog.LevelInfo, "thumb.saved",
		slog.Int64("user_id", userID),
	)
	return nil
}

// Get returns the stored reference or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, userID int64) (string, error) {
	var fileRef string
	err := s.db.GetContext(ctx, &fileRef,
		`SELECT file_id FROM thumbnails WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("thumbs: get: %w", err)
	}
	return fileRef, nil
}

// Delete removes the record. Deleting an absent record returns ErrNotFound
// so callers can tell the user nothing was stored.
func (s *PostgresStore) Delete(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM thumbnails WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("thumbs: delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	logger.LogEvent(ctx, logger.Thumbs, slog.LevelInfo, "thumb.deleted",
		slog.Int64("user_id", userID),
	)
	return nil
}
