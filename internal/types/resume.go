// Package types provides type definitions for structured data used throughout the resume-wizard system.
package types

// GeneralInfo holds resume metadata collected on the first wizard step.
type GeneralInfo struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// PersonalInfo holds contact details for the resume header.
// Every field is optional; Email is only checked for shape when present.
type PersonalInfo struct {
	Name     string            `json:"name,omitempty"`
	JobTitle string            `json:"jobTitle,omitempty"`
	Address  string            `json:"address,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Email    string            `json:"email,omitempty" validate:"omitempty,email"`
	Socials  map[string]string `json:"socialMediaHandles,omitempty"`
}

// JobDetails describes the position the resume is being tailored for.
type JobDetails struct {
	ApplyingJobTitle string `json:"applyingJobTitle,omitempty"`
	CompanyName      string `json:"companyName,omitempty"`
	CompanyWebsite   string `json:"companyWebsite,omitempty"`
	Description      string `json:"jobDescriptionString,omitempty"`
}

// ResumeDraft is the aggregate of every wizard step's values. All fields are
// optional at all times; the user may fill steps in any order. Per-step
// required-ness is enforced only when a step is submitted, never on the
// aggregate itself.
type ResumeDraft struct {
	General         GeneralInfo      `json:"general"`
	Personal        PersonalInfo     `json:"personal"`
	Job             JobDetails       `json:"job"`
	Questions       []Question       `json:"questions,omitempty"`
	WorkExperiences []WorkExperience `json:"workExperiences,omitempty"`
	Educations      []Education      `json:"educations,omitempty"`
	Projects        []Project        `json:"projects,omitempty"`
	ResearchPapers  []ResearchPaper  `json:"researchPapers,omitempty"`
	Skills          []string         `json:"skills,omitempty"`
	Summary         string           `json:"summary,omitempty"`
}

// Clone returns a deep copy of the draft. Merges are validated against a copy
// so a failed validation can never leave the aggregate partially mutated.
func (d *ResumeDraft) Clone() *ResumeDraft {
	out := *d
	if d.Personal.Socials != nil {
		out.Personal.Socials = make(map[string]string, len(d.Personal.Socials))
		for k, v := range d.Personal.Socials {
			out.Personal.Socials[k] = v
		}
	}
	out.Questions = append([]Question(nil), d.Questions...)
	out.WorkExperiences = append([]WorkExperience(nil), d.WorkExperiences...)
	out.Educations = append([]Education(nil), d.Educations...)
	out.Projects = append([]Project(nil), d.Projects...)
	out.ResearchPapers = append([]ResearchPaper(nil), d.ResearchPapers...)
	out.Skills = append([]string(nil), d.Skills...)
	return &out
}
