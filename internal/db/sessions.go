package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Session is one wizard run with its stored resume snapshot.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Snapshot  json.RawMessage `json:"snapshot"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateSession opens a new session for a user with an empty snapshot.
func (s *Store) CreateSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	var sess Session
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, snapshot, created_at, updated_at`,
		userID,
	).Scan(&sess.ID, &sess.UserID, &sess.Snapshot, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &sess, nil
}

// GetSession returns nil when the session does not exist or belongs to a
// different user.
func (s *Store) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*Session, error) {
	var sess Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, snapshot, created_at, updated_at
		 FROM sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&sess.ID, &sess.UserID, &sess.Snapshot, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &sess, nil
}

// GetLatestSession returns the user's most recently created session, or nil
// when they have none.
func (s *Store) GetLatestSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	var sess Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, snapshot, created_at, updated_at
		 FROM sessions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&sess.ID, &sess.UserID, &sess.Snapshot, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting latest session: %w", err)
	}
	return &sess, nil
}

// SaveSnapshot replaces the session's snapshot wholesale.
func (s *Store) SaveSnapshot(ctx context.Context, sessionID, userID uuid.UUID, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET snapshot = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		sessionID, userID, raw,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}

// UpdateSnapshotFields sets individual snapshot fields addressed by dotted
// paths (e.g. "resume_metadata.resume_name"). The update runs inside a
// transaction with the row locked, so concurrent updates serialize.
func (s *Store) UpdateSnapshotFields(ctx context.Context, sessionID, userID uuid.UUID, fields map[string]any) (*Session, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT snapshot FROM sessions WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		sessionID, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("locking session: %w", err)
	}

	snapshot := make(map[string]any)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return nil, fmt.Errorf("decoding snapshot: %w", err)
		}
	}
	for path, value := range fields {
		if err := setFieldPath(snapshot, path, value); err != nil {
			return nil, err
		}
	}

	updated, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	var sess Session
	err = tx.QueryRow(ctx,
		`UPDATE sessions SET snapshot = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, snapshot, created_at, updated_at`,
		sessionID, userID, updated,
	).Scan(&sess.ID, &sess.UserID, &sess.Snapshot, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating snapshot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return &sess, nil
}

// setFieldPath writes value at a dotted path inside doc, creating
// intermediate objects as needed. It fails when a path segment addresses
// through a non-object.
func setFieldPath(doc map[string]any, path string, value any) error {
	if path == "" {
		return fmt.Errorf("empty field path")
	}
	segments := strings.Split(path, ".")
	current := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg]
		if !ok {
			child := make(map[string]any)
			current[seg] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("field path %q: segment %q is not an object", path, seg)
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return nil
}
