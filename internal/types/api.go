package types

// Wire payloads exchanged with the resume backend. Field names follow the
// backend's snake_case JSON contract.

// PersonalInfoUpdate is the PUT /users payload.
type PersonalInfoUpdate struct {
	Name            string            `json:"name,omitempty"`
	CurrentJobTitle string            `json:"current_job_title,omitempty"`
	Address         string            `json:"address,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	ResumeEmail     string            `json:"resume_email,omitempty"`
	Socials         map[string]string `json:"socials,omitempty"`
}

// WorkExperienceEntry is the knowledge-graph shape of one work history record.
type WorkExperienceEntry struct {
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is the knowledge-graph shape of one education record.
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// ProjectEntry is the knowledge-graph shape of one project record.
type ProjectEntry struct {
	Name        string `json:"name,omitempty"`
	URL         string `json:"url,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// ResearchEntry is the knowledge-graph shape of one publication record.
type ResearchEntry struct {
	Title       string `json:"title,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// KnowledgeGraphAdd is the POST /users/knowledge-graph/add payload. Each step
// sends only its own section; absent sections are left untouched server-side.
type KnowledgeGraphAdd struct {
	WorkExperience []WorkExperienceEntry `json:"work_experience,omitempty"`
	Education      []EducationEntry      `json:"education,omitempty"`
	Projects       []ProjectEntry        `json:"projects,omitempty"`
	ResearchWork   []ResearchEntry       `json:"research_work,omitempty"`
	Skills         []string              `json:"skills,omitempty"`
}

// AnalyzeRequest is the POST /ai/analyze payload.
type AnalyzeRequest struct {
	JobDescription string `json:"job_description"`
	JobRole        string `json:"job_role,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
}

// RequirementField is one parsed job requirement.
type RequirementField struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Importance  string `json:"importance,omitempty"`
	Description string `json:"description,omitempty"`
}

// AnalyzeResult is the POST /ai/analyze response.
type AnalyzeResult struct {
	Message            string             `json:"message"`
	ParsedRequirements []RequirementField `json:"parsed_requirements"`
	ExtractedKeywords  []string           `json:"extracted_keywords"`
	SessionUpdated     bool               `json:"session_updated"`
}

// CompareResult is the POST /ai/compare response. TotalMissing drives the
// wizard's conditional jump: zero missing skills skips the questionnaire.
type CompareResult struct {
	Message         string             `json:"message"`
	MissingFields   []RequirementField `json:"missing_fields"`
	MatchedFields   []RequirementField `json:"matched_fields"`
	FillSuggestions []string           `json:"fill_suggestions"`
	TotalMissing    int                `json:"total_missing"`
	TotalMatched    int                `json:"total_matched"`
}

// APIQuestion is the server-side questionnaire entry shape.
type APIQuestion struct {
	ID           string `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer,omitempty"`
	RelatedField string `json:"related_field,omitempty"`
	Status       string `json:"status,omitempty"`
}

// ToQuestion converts the wire shape into the wizard's local shape.
func (q APIQuestion) ToQuestion() Question {
	out := Question{
		ID:           q.ID,
		Question:     q.Question,
		Answer:       q.Answer,
		RelatedField: q.RelatedField,
		Status:       QuestionStatus(q.Status),
	}
	if out.Status == "" {
		out.DeriveStatus()
	}
	return out
}

// QuestionnaireResult is the POST /ai/generate-questionnaire response.
type QuestionnaireResult struct {
	Message        string        `json:"message"`
	TotalQuestions int           `json:"total_questions"`
	Questions      []APIQuestion `json:"questions"`
	Completion     float64       `json:"completion"`
}

// AnswerRequest is the POST /ai/answer-question payload: question ID → answer.
type AnswerRequest struct {
	SessionID string            `json:"session_id"`
	Answers   map[string]string `json:"answers"`
}

// AnswerResult is the POST /ai/answer-question response.
type AnswerResult struct {
	Message              string  `json:"message"`
	TotalQuestions       int     `json:"total_questions"`
	AnsweredCount        int     `json:"answered_count"`
	Completion           float64 `json:"completion"`
	AllQuestionsAnswered bool    `json:"all_questions_answered"`
}

// OptimizeResult is the POST /ai/optimize response.
type OptimizeResult struct {
	Message      string   `json:"message"`
	TotalChanges int      `json:"total_changes"`
	Suggestions  []string `json:"suggestions"`
}

// ParseTextRequest is the POST /ai/parse-text payload.
type ParseTextRequest struct {
	Text string `json:"text"`
}

// ParseTextResult is the POST /ai/parse-text response: free text classified
// into one knowledge-graph category plus the extracted structured data.
type ParseTextResult struct {
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Data       KnowledgeGraphAdd `json:"data"`
	Confidence float64           `json:"confidence"`
	Reasoning  string            `json:"reasoning,omitempty"`
}

// CreateSessionResponse is the POST /sessions/new response.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}
