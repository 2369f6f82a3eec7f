// Package wizard implements the multi-step resume editor core: the fixed step
// sequence, the state machine that owns the draft aggregate, and the per-step
// validation gate that guards every merge into it.
package wizard

// StepKey identifies one wizard step.
type StepKey string

// Wizard steps in their fixed order.
const (
	StepGeneralInfo    StepKey = "general-info"
	StepPersonalInfo   StepKey = "personal-info"
	StepJobDescription StepKey = "job-description"
	StepQuestionnaire  StepKey = "questionnaire"
	StepOptimize       StepKey = "optimize"
	StepWorkExperience StepKey = "work-experience"
	StepEducation      StepKey = "education"
	StepProjects       StepKey = "projects"
	StepResearch       StepKey = "research"
	StepSkills         StepKey = "skills"
	StepSummary        StepKey = "summary"
)

// Step describes one wizard step. The descriptor table is fixed at build time;
// keys are unique and order defines advance semantics.
type Step struct {
	Key   StepKey
	Title string
}

// Steps is the ordered step descriptor table.
var Steps = []Step{
	{Key: StepGeneralInfo, Title: "General Info"},
	{Key: StepPersonalInfo, Title: "Personal Info"},
	{Key: StepJobDescription, Title: "Job Description"},
	{Key: StepQuestionnaire, Title: "Questionnaire"},
	{Key: StepOptimize, Title: "Optimize"},
	{Key: StepWorkExperience, Title: "Work Experience"},
	{Key: StepEducation, Title: "Education"},
	{Key: StepProjects, Title: "Projects"},
	{Key: StepResearch, Title: "Research Papers"},
	{Key: StepSkills, Title: "Skills"},
	{Key: StepSummary, Title: "Summary"},
}

var stepIndex = func() map[StepKey]int {
	m := make(map[StepKey]int, len(Steps))
	for i, s := range Steps {
		m[s.Key] = i
	}
	return m
}()

// ValidStep reports whether key names a known step.
func ValidStep(key StepKey) bool {
	_, ok := stepIndex[key]
	return ok
}
