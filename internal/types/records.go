package types

// Repeated-section records. Order is meaningful for final document rendering
// and must be preserved exactly as the user arranged it. Positional identity
// is tracked by the field-array controller, not by the records themselves.
// An empty end date conventionally means the entry is ongoing.

// Education is a single education entry.
type Education struct {
	Degree    string `json:"degree,omitempty"`
	School    string `json:"school,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Marks     string `json:"marks,omitempty"`
}

// WorkExperience is a single work history entry.
type WorkExperience struct {
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is a single project entry.
type Project struct {
	Title       string `json:"title,omitempty"`
	Link        string `json:"link,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// ResearchPaper is a single publication entry.
type ResearchPaper struct {
	Title       string `json:"title,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}
