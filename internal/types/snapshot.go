package types

// ResumeSnapshot is the aggregate returned by GET /sessions/{id}/resume-data.
// It groups the draft by backend section rather than by wizard step; ToDraft
// flattens it back into the shape the wizard works with.
type ResumeSnapshot struct {
	PersonalInfo        *SnapshotPersonalInfo `json:"personal_info,omitempty"`
	ProfessionalProfile *SnapshotProfile      `json:"professional_profile,omitempty"`
	TargetJob           *SnapshotTargetJob    `json:"target_job,omitempty"`
	ResumeMetadata      *SnapshotMetadata     `json:"resume_metadata,omitempty"`
	Questionnaire       *SnapshotQuestions    `json:"questionnaire,omitempty"`
}

// SnapshotMetadata mirrors the resume_metadata section.
type SnapshotMetadata struct {
	ResumeName        string `json:"resume_name,omitempty"`
	ResumeDescription string `json:"resume_description,omitempty"`
}

// SnapshotPersonalInfo mirrors the personal_info section.
type SnapshotPersonalInfo struct {
	Name            string            `json:"name,omitempty"`
	CurrentJobTitle string            `json:"current_job_title,omitempty"`
	Address         string            `json:"address,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Email           string            `json:"email,omitempty"`
	Socials         map[string]string `json:"socials,omitempty"`
}

// SnapshotTargetJob mirrors the target_job section.
type SnapshotTargetJob struct {
	JobRole        string `json:"job_role,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	CompanyURL     string `json:"company_url,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
}

// SnapshotProfile mirrors the professional_profile section.
type SnapshotProfile struct {
	WorkExperience []WorkExperienceEntry `json:"work_experience,omitempty"`
	Education      []EducationEntry      `json:"education,omitempty"`
	Projects       []ProjectEntry        `json:"projects,omitempty"`
	ResearchWork   []ResearchEntry       `json:"research_work,omitempty"`
	Skills         []string              `json:"skills,omitempty"`
	Summary        string                `json:"summary,omitempty"`
}

// SnapshotQuestions mirrors the questionnaire section.
type SnapshotQuestions struct {
	Questions  []APIQuestion `json:"questions,omitempty"`
	Completion float64       `json:"completion,omitempty"`
}

// ToDraft flattens the snapshot into a wizard draft. Missing sections map to
// zero values; record order is preserved as stored.
func (s *ResumeSnapshot) ToDraft() *ResumeDraft {
	draft := &ResumeDraft{}
	if s == nil {
		return draft
	}
	if m := s.ResumeMetadata; m != nil {
		draft.General = GeneralInfo{Title: m.ResumeName, Description: m.ResumeDescription}
	}
	if p := s.PersonalInfo; p != nil {
		draft.Personal = PersonalInfo{
			Name:     p.Name,
			JobTitle: p.CurrentJobTitle,
			Address:  p.Address,
			Phone:    p.Phone,
			Email:    p.Email,
			Socials:  p.Socials,
		}
	}
	if t := s.TargetJob; t != nil {
		draft.Job = JobDetails{
			ApplyingJobTitle: t.JobRole,
			CompanyName:      t.CompanyName,
			CompanyWebsite:   t.CompanyURL,
			Description:      t.JobDescription,
		}
	}
	if q := s.Questionnaire; q != nil {
		for _, aq := range q.Questions {
			draft.Questions = append(draft.Questions, aq.ToQuestion())
		}
	}
	if p := s.ProfessionalProfile; p != nil {
		for _, w := range p.WorkExperience {
			draft.WorkExperiences = append(draft.WorkExperiences, WorkExperience{
				Company:     w.Company,
				Position:    w.Position,
				StartDate:   w.StartDate,
				EndDate:     w.EndDate,
				Description: w.Description,
			})
		}
		for _, e := range p.Education {
			draft.Educations = append(draft.Educations, Education{
				Degree:    e.Degree,
				School:    e.Institution,
				StartDate: e.StartDate,
				EndDate:   e.EndDate,
				Marks:     e.GPA,
			})
		}
		for _, pr := range p.Projects {
			draft.Projects = append(draft.Projects, Project{
				Title:       pr.Name,
				Link:        pr.URL,
				StartDate:   pr.StartDate,
				EndDate:     pr.EndDate,
				Description: pr.Description,
			})
		}
		for _, r := range p.ResearchWork {
			draft.ResearchPapers = append(draft.ResearchPapers, ResearchPaper{
				Title:       r.Title,
				Venue:       r.Venue,
				Date:        r.Date,
				Description: r.Description,
				URL:         r.URL,
			})
		}
		draft.Skills = append([]string(nil), p.Skills...)
		draft.Summary = p.Summary
	}
	return draft
}

// FromDraft builds the backend section layout from a wizard draft. This is the
// inverse of ToDraft and is what the server persists.
func FromDraft(d *ResumeDraft) *ResumeSnapshot {
	snap := &ResumeSnapshot{
		ResumeMetadata: &SnapshotMetadata{
			ResumeName:        d.General.Title,
			ResumeDescription: d.General.Description,
		},
		PersonalInfo: &SnapshotPersonalInfo{
			Name:            d.Personal.Name,
			CurrentJobTitle: d.Personal.JobTitle,
			Address:         d.Personal.Address,
			Phone:           d.Personal.Phone,
			Email:           d.Personal.Email,
			Socials:         d.Personal.Socials,
		},
		TargetJob: &SnapshotTargetJob{
			JobRole:        d.Job.ApplyingJobTitle,
			CompanyName:    d.Job.CompanyName,
			CompanyURL:     d.Job.CompanyWebsite,
			JobDescription: d.Job.Description,
		},
		ProfessionalProfile: &SnapshotProfile{
			Skills:  append([]string(nil), d.Skills...),
			Summary: d.Summary,
		},
	}
	for _, w := range d.WorkExperiences {
		snap.ProfessionalProfile.WorkExperience = append(snap.ProfessionalProfile.WorkExperience, WorkExperienceEntry{
			Company:     w.Company,
			Position:    w.Position,
			StartDate:   w.StartDate,
			EndDate:     w.EndDate,
			Description: w.Description,
		})
	}
	for _, e := range d.Educations {
		snap.ProfessionalProfile.Education = append(snap.ProfessionalProfile.Education, EducationEntry{
			Degree:      e.Degree,
			Institution: e.School,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			GPA:         e.Marks,
		})
	}
	for _, p := range d.Projects {
		snap.ProfessionalProfile.Projects = append(snap.ProfessionalProfile.Projects, ProjectEntry{
			Name:        p.Title,
			URL:         p.Link,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			Description: p.Description,
		})
	}
	for _, r := range d.ResearchPapers {
		snap.ProfessionalProfile.ResearchWork = append(snap.ProfessionalProfile.ResearchWork, ResearchEntry{
			Title:       r.Title,
			Venue:       r.Venue,
			Date:        r.Date,
			Description: r.Description,
			URL:         r.URL,
		})
	}
	if len(d.Questions) > 0 {
		snap.Questionnaire = &SnapshotQuestions{}
		answered := 0
		for _, q := range d.Questions {
			if q.Status == QuestionAnswered {
				answered++
			}
			snap.Questionnaire.Questions = append(snap.Questionnaire.Questions, APIQuestion{
				ID:           q.ID,
				Question:     q.Question,
				Answer:       q.Answer,
				RelatedField: q.RelatedField,
				Status:       string(q.Status),
			})
		}
		snap.Questionnaire.Completion = float64(answered) / float64(len(d.Questions)) * 100
	}
	return snap
}
