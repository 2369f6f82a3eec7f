package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/types"
)

func TestValidate_PersonalInfoAllFieldsOptional(t *testing.T) {
	v := NewValidator()
	res := v.Validate(StepPersonalInfo, types.PersonalInfo{})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidate_PersonalInfoMalformedEmail(t *testing.T) {
	v := NewValidator()
	res := v.Validate(StepPersonalInfo, types.PersonalInfo{Email: "not-an-email"})

	require.False(t, res.Valid)
	assert.Nil(t, res.Normalized)
	assert.Contains(t, res.Errors, "email")
}

func TestValidate_TrimsStrings(t *testing.T) {
	v := NewValidator()
	res := v.Validate(StepGeneralInfo, types.GeneralInfo{Title: "  My Resume  ", Description: " draft "})

	require.True(t, res.Valid)
	got := res.Normalized.(types.GeneralInfo)
	assert.Equal(t, "My Resume", got.Title)
	assert.Equal(t, "draft", got.Description)
}

func TestValidate_SkillsDropsEmptyEntries(t *testing.T) {
	v := NewValidator()
	res := v.Validate(StepSkills, []string{" Go ", "", "  ", "Postgres"})

	require.True(t, res.Valid)
	assert.Equal(t, []string{"Go", "Postgres"}, res.Normalized.([]string))
}

func TestValidate_QuestionnaireDerivesStatus(t *testing.T) {
	v := NewValidator()
	res := v.Validate(StepQuestionnaire, []types.Question{
		{ID: "q1", Question: "Docker experience?", Answer: "  two years  "},
		{ID: "q2", Question: "Kubernetes experience?"},
	})

	require.True(t, res.Valid)
	got := res.Normalized.([]types.Question)
	assert.Equal(t, "two years", got[0].Answer)
	assert.Equal(t, types.QuestionAnswered, got[0].Status)
	assert.Equal(t, types.QuestionUnanswered, got[1].Status)
}

func TestValidate_TypeMismatchIsAFailureNotAPanic(t *testing.T) {
	v := NewValidator()
	res := v.Validate(StepEducation, "not a slice")

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors, "input")
}

func TestValidate_UnknownStep(t *testing.T) {
	v := NewValidator()
	res := v.Validate("bogus", nil)
	assert.False(t, res.Valid)
}

func TestValidate_AuthRequiredness(t *testing.T) {
	// The auth step is the only one with required fields.
	req := types.SignupRequest{}
	assert.Error(t, req.Validate())

	req = types.SignupRequest{Email: "jane@example.com", Password: "short"}
	assert.Error(t, req.Validate())

	req = types.SignupRequest{Email: "jane@example.com", Password: "secret123"}
	assert.NoError(t, req.Validate())
}

func TestSingleFlight_DropsDuplicatePersist(t *testing.T) {
	sf := NewSingleFlight()

	require.True(t, sf.Begin(StepPersonalInfo))
	assert.False(t, sf.Begin(StepPersonalInfo))
	assert.True(t, sf.InFlight(StepPersonalInfo))

	// Other steps persist independently.
	assert.True(t, sf.Begin(StepEducation))

	sf.Done(StepPersonalInfo)
	assert.True(t, sf.Begin(StepPersonalInfo))
}
