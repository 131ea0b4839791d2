package chatinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pyguy/pybot/pkg/chat"
	"github.com/pyguy/pybot/pkg/errx"
)

// Schema creates the single table this repository needs
const Schema = `
	CREATE TABLE IF NOT EXISTS chat_histories (
		session_id TEXT PRIMARY KEY,
		messages   JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`

// PostgresHistoryRepository stores one JSONB history row per session.
// Append locks the row (SELECT ... FOR UPDATE) so concurrent appends to the
// same session serialize at the database.
type PostgresHistoryRepository struct {
	db       *sqlx.DB
	maxTurns int
}

// NewPostgresHistoryRepository creates a Postgres-backed repository
func NewPostgresHistoryRepository(db *sqlx.DB, maxTurns int) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{
		db:       db,
		maxTurns: maxTurns,
	}
}

// EnsureSchema creates the backing table if it does not exist
func (r *PostgresHistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return errx.Wrap(err, "failed to ensure chat_histories schema", errx.TypeInternal)
	}
	return nil
}

// Load returns the stored history or a freshly seeded one
func (r *PostgresHistoryRepository) Load(ctx context.Context, sessionID string) (chat.History, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw,
		`SELECT messages FROM chat_histories WHERE session_id = $1`, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return chat.Seeded(), nil
		}
		return nil, errx.Wrap(err, "failed to load history", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	}

	return decodeHistory(string(raw)), nil
}

// Append appends and trims under a row lock and returns the snapshot
func (r *PostgresHistoryRepository) Append(ctx context.Context, sessionID string, msg chat.Message) (chat.History, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errx.Wrap(err, "failed to begin append transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	history := chat.Seeded()
	var raw []byte
	err = tx.GetContext(ctx, &raw,
		`SELECT messages FROM chat_histories WHERE session_id = $1 FOR UPDATE`, sessionID)
	switch {
	case err == sql.ErrNoRows:
		// first message of the session; the upsert below creates the row
	case err != nil:
		return nil, errx.Wrap(err, "failed to lock history row", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	default:
		history = decodeHistory(string(raw))
	}

	history = history.Append(msg, r.maxTurns)
	encoded, err := json.Marshal(history)
	if err != nil {
		return nil, errx.Wrap(err, "failed to encode history", errx.TypeInternal)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_histories (session_id, messages, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id)
		DO UPDATE SET messages = EXCLUDED.messages, updated_at = EXCLUDED.updated_at`,
		sessionID, encoded, time.Now())
	if err != nil {
		return nil, errx.Wrap(err, "failed to save history", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	}

	if err := tx.Commit(); err != nil {
		return nil, errx.Wrap(err, "failed to commit append", errx.TypeInternal)
	}

	return history, nil
}

// Reset deletes the session row; the next Load reseeds
func (r *PostgresHistoryRepository) Reset(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM chat_histories WHERE session_id = $1`, sessionID); err != nil {
		return errx.Wrap(err, "failed to reset history", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	}
	return nil
}
