package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/server/middleware"
	"github.com/jonathan/resume-wizard/internal/types"
)

// handleAnalyze extracts requirements from a job description. When the
// request names a session, the analysis and target job are attached to it.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	if s.ai == nil {
		s.fail(w, &ErrAIUnavailable{})
		return
	}

	var req types.AnalyzeRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.JobDescription == "" {
		s.fail(w, &ErrValidation{Field: "job_description", Message: "job_description is required"})
		return
	}

	result, err := s.ai.AnalyzeJob(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}

	if req.SessionID != "" {
		sessionID, err := uuid.Parse(req.SessionID)
		if err != nil {
			s.fail(w, &ErrValidation{Field: "session_id", Message: "invalid session id"})
			return
		}
		state, sess, err := s.loadState(r, sessionID, userID)
		if err != nil {
			s.fail(w, err)
			return
		}
		state.TargetJob = &types.SnapshotTargetJob{
			JobRole:        req.JobRole,
			CompanyName:    req.CompanyName,
			JobDescription: req.JobDescription,
		}
		state.JobAnalysis = &jobAnalysis{
			ParsedRequirements: result.ParsedRequirements,
			ExtractedKeywords:  result.ExtractedKeywords,
		}
		if err := s.sessions.SaveSnapshot(r.Context(), sess.ID, userID, state); err != nil {
			s.fail(w, err)
			return
		}
		result.SessionUpdated = true
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleCompare splits the session's parsed requirements into matched and
// missing against the caller's knowledge graph, and stores the missing set.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	if s.ai == nil {
		s.fail(w, &ErrAIUnavailable{})
		return
	}

	sessionID, err := sessionIDFromQuery(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	state, sess, err := s.loadState(r, sessionID, userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if state.JobAnalysis == nil || len(state.JobAnalysis.ParsedRequirements) == 0 {
		s.fail(w, &ErrValidation{Message: "session has no analyzed job, run analyze first"})
		return
	}

	graph, err := s.users.GetKnowledgeGraph(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}

	result, err := s.ai.CompareSkills(r.Context(), state.JobAnalysis.ParsedRequirements, graph)
	if err != nil {
		s.fail(w, err)
		return
	}

	state.JobAnalysis.MissingFields = result.MissingFields
	if err := s.sessions.SaveSnapshot(r.Context(), sess.ID, userID, state); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateQuestionnaire writes gap-filling questions for the session's
// missing requirements and stores them with fresh IDs.
func (s *Server) handleGenerateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	if s.ai == nil {
		s.fail(w, &ErrAIUnavailable{})
		return
	}

	sessionID, err := sessionIDFromQuery(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	state, sess, err := s.loadState(r, sessionID, userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if state.JobAnalysis == nil || len(state.JobAnalysis.MissingFields) == 0 {
		s.fail(w, &ErrValidation{Message: "session has no missing skills, run compare first"})
		return
	}

	questions, err := s.ai.GenerateQuestions(r.Context(), state.JobAnalysis.MissingFields)
	if err != nil {
		s.fail(w, err)
		return
	}
	for i := range questions {
		questions[i].ID = uuid.NewString()
	}

	state.Questionnaire = &types.SnapshotQuestions{Questions: questions}
	if err := s.sessions.SaveSnapshot(r.Context(), sess.ID, userID, state); err != nil {
		s.fail(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.QuestionnaireResult{
		Message:        "questionnaire generated",
		TotalQuestions: len(questions),
		Questions:      questions,
		Completion:     0,
	})
}

// handleAnswerQuestions records questionnaire answers keyed by question ID.
func (s *Server) handleAnswerQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedUser(w, r)
	if !ok {
		return
	}

	var req types.AnswerRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.SessionID == "" {
		s.fail(w, &ErrValidation{Field: "session_id", Message: "session_id is required"})
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "session_id", Message: "invalid session id"})
		return
	}

	state, sess, err := s.loadState(r, sessionID, userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if state.Questionnaire == nil || len(state.Questionnaire.Questions) == 0 {
		s.fail(w, &ErrValidation{Message: "session has no questionnaire"})
		return
	}

	answered := 0
	for i := range state.Questionnaire.Questions {
		q := &state.Questionnaire.Questions[i]
		if answer, ok := req.Answers[q.ID]; ok && answer != "" {
			q.Answer = answer
			q.Status = string(types.QuestionAnswered)
		}
		if q.Status == string(types.QuestionAnswered) {
			answered++
		}
	}
	total := len(state.Questionnaire.Questions)
	completion := float64(answered) / float64(total) * 100
	state.Questionnaire.Completion = completion

	if err := s.sessions.SaveSnapshot(r.Context(), sess.ID, userID, state); err != nil {
		s.fail(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AnswerResult{
		Message:              "answers recorded",
		TotalQuestions:       total,
		AnsweredCount:        answered,
		Completion:           completion,
		AllQuestionsAnswered: answered == total,
	})
}

// handleOptimize rewrites the caller's profile for the target job of their
// most recent session and stores the result on that session.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authedUser(w, r)
	if !ok {
		return
	}
	if s.ai == nil {
		s.fail(w, &ErrAIUnavailable{})
		return
	}

	sess, err := s.sessions.GetLatestSession(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if sess == nil {
		s.fail(w, &ErrValidation{Message: "no active session"})
		return
	}
	state, err := decodeState(sess.Snapshot)
	if err != nil {
		s.fail(w, err)
		return
	}
	if state.TargetJob == nil || state.TargetJob.JobDescription == "" {
		s.fail(w, &ErrValidation{Message: "session has no target job, run analyze first"})
		return
	}

	graph, err := s.users.GetKnowledgeGraph(r.Context(), userID)
	if err != nil {
		s.fail(w, err)
		return
	}

	answers := map[string]string{}
	if state.Questionnaire != nil {
		for _, q := range state.Questionnaire.Questions {
			if q.Answer != "" {
				answers[q.Question] = q.Answer
			}
		}
	}

	profile, result, err := s.ai.Optimize(r.Context(), graph, state.TargetJob, answers)
	if err != nil {
		s.fail(w, err)
		return
	}

	state.ProfessionalProfile = &types.SnapshotProfile{
		WorkExperience: profile.WorkExperience,
		Education:      profile.Education,
		Projects:       profile.Projects,
		Skills:         profile.Skills,
		Summary:        profile.Summary,
	}
	if state.ProfessionalProfile.ResearchWork == nil && graph != nil {
		state.ProfessionalProfile.ResearchWork = graph.ResearchWork
	}
	if err := s.sessions.SaveSnapshot(r.Context(), sess.ID, userID, state); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleParseText classifies free text into one knowledge-graph category.
func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authedUser(w, r); !ok {
		return
	}
	if s.ai == nil {
		s.fail(w, &ErrAIUnavailable{})
		return
	}

	var req types.ParseTextRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.Text == "" {
		s.fail(w, &ErrValidation{Field: "text", Message: "text is required"})
		return
	}

	result, err := s.ai.ParseText(r.Context(), req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// authedUser extracts the authenticated user or writes a 401.
func (s *Server) authedUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

// loadState fetches a session and decodes its snapshot.
func (s *Server) loadState(r *http.Request, sessionID, userID uuid.UUID) (*sessionState, *db.Session, error) {
	sess, err := s.sessions.GetSession(r.Context(), sessionID, userID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, &ErrSessionNotFound{SessionID: sessionID.String()}
	}
	state, err := decodeState(sess.Snapshot)
	if err != nil {
		return nil, nil, err
	}
	return state, sess, nil
}
