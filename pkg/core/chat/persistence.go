package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"agentic_finqa/pkg/core/store"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	session_id TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SessionRepo persists conversation state as JSONB rows.
type SessionRepo struct {
	db *store.DB
}

func NewSessionRepo(db *store.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) EnsureSchema(ctx context.Context) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not initialized")
	}
	if _, err := r.db.Pool.Exec(ctx, createSessionsTableSQL); err != nil {
		return fmt.Errorf("failed to create chat_sessions table: %w", err)
	}
	return nil
}

func (r *SessionRepo) Load(ctx context.Context, sessionID string) (*ConversationState, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	var raw []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT state FROM chat_sessions WHERE session_id = $1`, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var st ConversationState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &st, nil
}

func (r *SessionRepo) Save(ctx context.Context, st *ConversationState) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("database not initialized")
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", st.SessionID, err)
	}

	query := `
		INSERT INTO chat_sessions (session_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE
		SET state = EXCLUDED.state, updated_at = now()
	`
	if _, err := r.db.Pool.Exec(ctx, query, st.SessionID, raw); err != nil {
		return fmt.Errorf("failed to save session %s: %w", st.SessionID, err)
	}
	return nil
}

var _ SessionStore = (*SessionRepo)(nil)
