package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-wizard/internal/schemas"
	"github.com/jonathan/resume-wizard/internal/types"
)

// CreateSession starts a new wizard session server-side and returns its
// identifier. Called once per wizard instance when no session is restored.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var out types.CreateSessionResponse
	if err := c.post(ctx, "/sessions/new", nil, nil, &out); err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("server returned empty session id")
	}
	return out.SessionID, nil
}

// UpdateSession persists general-info fields onto the session record.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, info types.GeneralInfo) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}
	updates := map[string]string{
		"resume_metadata.resume_name":        info.Title,
		"resume_metadata.resume_description": info.Description,
	}
	return c.put(ctx, "/sessions", sessionQuery(sessionID), updates, nil)
}

// ResumeData fetches the full aggregate snapshot for resuming a wizard. The
// document is schema-checked before it is trusted; a malformed snapshot fails
// the restore rather than seeding the wizard with junk.
func (c *Client) ResumeData(ctx context.Context, sessionID string) (*types.ResumeSnapshot, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	var raw json.RawMessage
	if err := c.get(ctx, "/sessions/"+sessionID+"/resume-data", &raw); err != nil {
		return nil, err
	}
	if err := schemas.ValidateSnapshot(raw); err != nil {
		return nil, fmt.Errorf("session %s snapshot is invalid: %w", sessionID, err)
	}
	var out types.ResumeSnapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &out, nil
}
