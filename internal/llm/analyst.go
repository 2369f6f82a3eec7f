package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-wizard/internal/prompts"
	"github.com/jonathan/resume-wizard/internal/types"
)

const promptFile = "wizard.json"

// Analyst runs the wizard's AI operations by prompting an LLM and decoding
// its JSON output into wire types.
type Analyst struct {
	client Client
}

// NewAnalyst wraps a Client with the wizard's prompt set.
func NewAnalyst(client Client) *Analyst {
	return &Analyst{client: client}
}

// AnalyzeJob extracts requirements and keywords from a job description.
func (a *Analyst) AnalyzeJob(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResult, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "analyze_job"), map[string]string{
		"JobRole":        req.JobRole,
		"CompanyName":    req.CompanyName,
		"JobDescription": req.JobDescription,
	})

	var out struct {
		ParsedRequirements []types.RequirementField `json:"parsed_requirements"`
		ExtractedKeywords  []string                 `json:"extracted_keywords"`
	}
	if err := a.generate(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("analyze job: %w", err)
	}

	return &types.AnalyzeResult{
		Message:            "job description analyzed",
		ParsedRequirements: out.ParsedRequirements,
		ExtractedKeywords:  out.ExtractedKeywords,
	}, nil
}

// CompareSkills splits requirements into matched and missing against a
// candidate profile.
func (a *Analyst) CompareSkills(ctx context.Context, requirements []types.RequirementField, profile any) (*types.CompareResult, error) {
	reqJSON, err := json.Marshal(requirements)
	if err != nil {
		return nil, fmt.Errorf("compare skills: %w", err)
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("compare skills: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "compare_skills"), map[string]string{
		"Requirements": string(reqJSON),
		"Profile":      string(profileJSON),
	})

	var out struct {
		MatchedFields   []types.RequirementField `json:"matched_fields"`
		MissingFields   []types.RequirementField `json:"missing_fields"`
		FillSuggestions []string                 `json:"fill_suggestions"`
	}
	if err := a.generate(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("compare skills: %w", err)
	}

	return &types.CompareResult{
		Message:         "profile compared against job requirements",
		MatchedFields:   out.MatchedFields,
		MissingFields:   out.MissingFields,
		FillSuggestions: out.FillSuggestions,
		TotalMatched:    len(out.MatchedFields),
		TotalMissing:    len(out.MissingFields),
	}, nil
}

// GenerateQuestions writes one question per missing requirement.
func (a *Analyst) GenerateQuestions(ctx context.Context, missing []types.RequirementField) ([]types.APIQuestion, error) {
	missingJSON, err := json.Marshal(missing)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "generate_questionnaire"), map[string]string{
		"MissingFields": string(missingJSON),
	})

	var out struct {
		Questions []struct {
			Question     string `json:"question"`
			RelatedField string `json:"related_field"`
		} `json:"questions"`
	}
	if err := a.generate(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions := make([]types.APIQuestion, 0, len(out.Questions))
	for _, q := range out.Questions {
		questions = append(questions, types.APIQuestion{
			Question:     q.Question,
			RelatedField: q.RelatedField,
			Status:       string(types.QuestionUnanswered),
		})
	}
	return questions, nil
}

// OptimizedProfile is the rewritten professional profile produced by Optimize.
type OptimizedProfile struct {
	WorkExperience []types.WorkExperienceEntry `json:"work_experience"`
	Education      []types.EducationEntry      `json:"education"`
	Projects       []types.ProjectEntry        `json:"projects"`
	Skills         []string                    `json:"skills"`
	Summary        string                      `json:"summary"`
}

// Optimize rewrites the candidate profile for the target job, folding in
// questionnaire answers.
func (a *Analyst) Optimize(ctx context.Context, profile, targetJob, answers any) (*OptimizedProfile, *types.OptimizeResult, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, nil, fmt.Errorf("optimize: %w", err)
	}
	jobJSON, err := json.Marshal(targetJob)
	if err != nil {
		return nil, nil, fmt.Errorf("optimize: %w", err)
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, nil, fmt.Errorf("optimize: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "optimize_resume"), map[string]string{
		"Profile":   string(profileJSON),
		"TargetJob": string(jobJSON),
		"Answers":   string(answersJSON),
	})

	var out struct {
		ProfessionalProfile OptimizedProfile `json:"professional_profile"`
		Suggestions         []string         `json:"suggestions"`
		TotalChanges        int              `json:"total_changes"`
	}
	if err := a.generate(ctx, prompt, &out); err != nil {
		return nil, nil, fmt.Errorf("optimize: %w", err)
	}

	result := &types.OptimizeResult{
		Message:      "resume optimized for target job",
		TotalChanges: out.TotalChanges,
		Suggestions:  out.Suggestions,
	}
	return &out.ProfessionalProfile, result, nil
}

// ParseText classifies free text into one knowledge-graph category.
func (a *Analyst) ParseText(ctx context.Context, text string) (*types.ParseTextResult, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "parse_text"), map[string]string{
		"Text": text,
	})

	var out struct {
		Category   string                  `json:"category"`
		Data       types.KnowledgeGraphAdd `json:"data"`
		Confidence float64                 `json:"confidence"`
		Reasoning  string                  `json:"reasoning"`
	}
	if err := a.generate(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("parse text: %w", err)
	}

	return &types.ParseTextResult{
		Message:    "text parsed",
		Category:   out.Category,
		Data:       out.Data,
		Confidence: out.Confidence,
		Reasoning:  out.Reasoning,
	}, nil
}

func (a *Analyst) generate(ctx context.Context, prompt string, out any) error {
	raw, err := a.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding model output: %w", err)
	}
	return nil
}
