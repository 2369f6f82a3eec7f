package gateway

import (
	"context"

	"github.com/jonathan/resume-wizard/internal/types"
)

// UpdatePersonalInfo persists the personal-info step to the user profile.
func (c *Client) UpdatePersonalInfo(ctx context.Context, update types.PersonalInfoUpdate) error {
	return c.put(ctx, "/users", nil, update, nil)
}

// AddKnowledgeGraph persists one repeated-section step (work experience,
// education, projects, research, or skills) to the user's knowledge graph.
func (c *Client) AddKnowledgeGraph(ctx context.Context, add types.KnowledgeGraphAdd) error {
	return c.post(ctx, "/users/knowledge-graph/add", nil, add, nil)
}
