package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/types"
)

type fakeClient struct {
	prompt   string
	response string
	err      error
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestAnalyzeJob(t *testing.T) {
	fake := &fakeClient{response: `{
		"parsed_requirements": [
			{"name": "Go", "category": "technical", "importance": "required"},
			{"name": "Kubernetes", "category": "technical", "importance": "preferred"}
		],
		"extracted_keywords": ["Go", "Kubernetes", "gRPC"]
	}`}
	analyst := NewAnalyst(fake)

	result, err := analyst.AnalyzeJob(context.Background(), types.AnalyzeRequest{
		JobDescription: "We need Go engineers.",
		JobRole:        "Backend Engineer",
	})
	require.NoError(t, err)

	assert.Len(t, result.ParsedRequirements, 2)
	assert.Equal(t, "Go", result.ParsedRequirements[0].Name)
	assert.Contains(t, fake.prompt, "We need Go engineers.")
	assert.Contains(t, fake.prompt, "Backend Engineer")
}

func TestCompareSkills_CountsDerivedFromLists(t *testing.T) {
	fake := &fakeClient{response: `{
		"matched_fields": [{"name": "Go"}],
		"missing_fields": [{"name": "Kubernetes"}, {"name": "Terraform"}],
		"fill_suggestions": ["Mention any container experience"]
	}`}
	analyst := NewAnalyst(fake)

	result, err := analyst.CompareSkills(context.Background(),
		[]types.RequirementField{{Name: "Go"}, {Name: "Kubernetes"}, {Name: "Terraform"}},
		map[string]any{"skills": []string{"Go"}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalMatched)
	assert.Equal(t, 2, result.TotalMissing)
}

func TestGenerateQuestions_MarksUnanswered(t *testing.T) {
	fake := &fakeClient{response: `{
		"questions": [
			{"question": "Have you used Kubernetes?", "related_field": "Kubernetes"}
		]
	}`}
	analyst := NewAnalyst(fake)

	questions, err := analyst.GenerateQuestions(context.Background(),
		[]types.RequirementField{{Name: "Kubernetes"}})
	require.NoError(t, err)

	require.Len(t, questions, 1)
	assert.Equal(t, "Kubernetes", questions[0].RelatedField)
	assert.Equal(t, string(types.QuestionUnanswered), questions[0].Status)
}

func TestOptimize(t *testing.T) {
	fake := &fakeClient{response: `{
		"professional_profile": {
			"skills": ["Go", "Kubernetes"],
			"summary": "Backend engineer with Go experience."
		},
		"suggestions": ["Quantify impact in work bullets"],
		"total_changes": 3
	}`}
	analyst := NewAnalyst(fake)

	profile, result, err := analyst.Optimize(context.Background(),
		map[string]any{"skills": []string{"Go"}},
		map[string]any{"job_title": "SRE"},
		map[string]string{"q1": "Yes, two years"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalChanges)
	assert.Equal(t, []string{"Go", "Kubernetes"}, profile.Skills)
	assert.Contains(t, fake.prompt, "SRE")
}

func TestParseText(t *testing.T) {
	fake := &fakeClient{response: `{
		"category": "education",
		"data": {"education": [{"institution": "State University", "degree": "BS"}]},
		"confidence": 0.92,
		"reasoning": "Mentions a degree and a school."
	}`}
	analyst := NewAnalyst(fake)

	result, err := analyst.ParseText(context.Background(), "BS from State University")
	require.NoError(t, err)

	assert.Equal(t, "education", result.Category)
	require.Len(t, result.Data.Education, 1)
	assert.Equal(t, "State University", result.Data.Education[0].Institution)
}

func TestCleanJSONBlock(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                      "{\"a\":1}",
		"```json\n{\"a\":1}\n```":        "{\"a\":1}",
		"```\n{\"a\":1}\n```":            "{\"a\":1}",
		"  ```json\n{\"a\":1}\n```  ":    "{\"a\":1}",
		"```json\n[{\"a\":1}]\n```\n":    "[{\"a\":1}]",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanJSONBlock(in))
	}
}
