package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/modul-ajar-api/internal/models"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

// DraftRepository persists draft snapshots in Postgres.
type DraftRepository struct {
	db *sqlx.DB
}

// NewDraftRepository constructs the repository.
func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// EnsureSchema creates the drafts table when missing.
func (r *DraftRepository) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS drafts (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure drafts schema: %w", err)
	}
	return nil
}

// Get returns the stored payload or ErrCacheMiss when no row exists.
func (r *DraftRepository) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT key, payload, updated_at FROM drafts WHERE key = $1`
	var draft models.Draft
	if err := r.db.GetContext(ctx, &draft, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.ErrCacheMiss
		}
		return "", fmt.Errorf("get draft %s: %w", key, err)
	}
	return draft.Payload, nil
}

// Set inserts or overwrites the payload stored under key.
func (r *DraftRepository) Set(ctx context.Context, key, payload string) error {
	const query = `INSERT INTO drafts (key, payload, updated_at)
VALUES (:key, :payload, :updated_at)
ON CONFLICT (key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	draft := models.Draft{Key: key, Payload: payload, UpdatedAt: time.Now().UTC()}
	if _, err := r.db.NamedExecContext(ctx, query, draft); err != nil {
		return fmt.Errorf("upsert draft %s: %w", key, err)
	}
	return nil
}

// Remove deletes the payload stored under key. Missing rows are not an error.
func (r *DraftRepository) Remove(ctx context.Context, key string) error {
	const query = `DELETE FROM drafts WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete draft %s: %w", key, err)
	}
	return nil
}
