package gateway

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-wizard/internal/types"
)

// Analyze ingests a job description for requirement extraction. When the
// request carries a session ID the server also attaches the analysis to it.
func (c *Client) Analyze(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResult, error) {
	if req.JobDescription == "" {
		return nil, fmt.Errorf("job description is required")
	}
	var out types.AnalyzeResult
	if err := c.post(ctx, "/ai/analyze", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompareSkills runs the skill-gap comparison for a session. The result's
// TotalMissing count decides whether the wizard continues to the
// questionnaire or skips ahead to optimize.
func (c *Client) CompareSkills(ctx context.Context, sessionID string) (*types.CompareResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	var out types.CompareResult
	if err := c.post(ctx, "/ai/compare", sessionQuery(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateQuestionnaire asks the server to generate gap-filling questions.
func (c *Client) GenerateQuestionnaire(ctx context.Context, sessionID string) (*types.QuestionnaireResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	var out types.QuestionnaireResult
	if err := c.post(ctx, "/ai/generate-questionnaire", sessionQuery(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnswerQuestions persists questionnaire answers keyed by question ID.
func (c *Client) AnswerQuestions(ctx context.Context, req types.AnswerRequest) (*types.AnswerResult, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	var out types.AnswerResult
	if err := c.post(ctx, "/ai/answer-question", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Optimize triggers server-side restructuring of the knowledge graph. The call
// returns when the optimization has actually finished; progress display keyed
// to this call's lifecycle is the caller's concern.
func (c *Client) Optimize(ctx context.Context) (*types.OptimizeResult, error) {
	var out types.OptimizeResult
	if err := c.post(ctx, "/ai/optimize", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseText extracts a structured knowledge-graph record from free text.
func (c *Client) ParseText(ctx context.Context, text string) (*types.ParseTextResult, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	var out types.ParseTextResult
	if err := c.post(ctx, "/ai/parse-text", nil, types.ParseTextRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
