package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/types"
)

func newMachine(t *testing.T, opts Options) *Machine {
	t.Helper()
	m, err := New(opts)
	require.NoError(t, err)
	return m
}

func apply(t *testing.T, m *Machine, step StepKey, raw any) Result {
	t.Helper()
	res, err := m.Apply(step, m.Sequence(step), raw)
	require.NoError(t, err)
	return res
}

func TestNew_StartsAtFirstStep(t *testing.T) {
	m := newMachine(t, Options{})
	assert.Equal(t, StepGeneralInfo, m.Current().Key)
}

func TestNew_RestoresInitialStep(t *testing.T) {
	m := newMachine(t, Options{InitialStep: StepEducation, SessionID: "sess-1"})
	assert.Equal(t, StepEducation, m.Current().Key)
	assert.Equal(t, Location{Step: StepEducation, SessionID: "sess-1"}, m.Location())
}

func TestNew_UnknownInitialStep(t *testing.T) {
	_, err := New(Options{InitialStep: "no-such-step"})
	assert.Error(t, err)
}

func TestAdvance_WalksFixedOrderAndStopsAtLast(t *testing.T) {
	m := newMachine(t, Options{})
	for i := 1; i < len(Steps); i++ {
		assert.Equal(t, Steps[i].Key, m.Advance().Key)
	}
	// Already at the last step: advance is a no-op.
	assert.Equal(t, StepSummary, m.Advance().Key)
	assert.Equal(t, StepSummary, m.Current().Key)
}

func TestJumpTo_SkipsForwardAndBack(t *testing.T) {
	m := newMachine(t, Options{})
	require.NoError(t, m.JumpTo(StepOptimize))
	assert.Equal(t, StepOptimize, m.Current().Key)

	require.NoError(t, m.JumpTo(StepPersonalInfo))
	assert.Equal(t, StepPersonalInfo, m.Current().Key)

	assert.Error(t, m.JumpTo("nope"))
}

func TestTransitions_UpdateShareableLocation(t *testing.T) {
	var seen []Location
	m := newMachine(t, Options{
		SessionID:    "sess-9",
		OnTransition: func(l Location) { seen = append(seen, l) },
	})

	m.Advance()
	require.NoError(t, m.JumpTo(StepSkills))
	require.NoError(t, m.JumpTo(StepSkills)) // same step: no transition

	require.Len(t, seen, 2)
	assert.Equal(t, Location{Step: StepPersonalInfo, SessionID: "sess-9"}, seen[0])
	assert.Equal(t, Location{Step: StepSkills, SessionID: "sess-9"}, seen[1])
}

func TestBindSession_IsStableAcrossTransitions(t *testing.T) {
	m := newMachine(t, Options{})
	require.NoError(t, m.BindSession("sess-1"))
	m.Advance()
	assert.Equal(t, "sess-1", m.Location().SessionID)

	// Rebinding the same ID is fine; a different one is not.
	require.NoError(t, m.BindSession("sess-1"))
	assert.Error(t, m.BindSession("sess-2"))
	assert.Error(t, m.BindSession(""))
}

func TestApply_MergesValidInput(t *testing.T) {
	m := newMachine(t, Options{InitialStep: StepPersonalInfo})
	res := apply(t, m, StepPersonalInfo, types.PersonalInfo{
		Name:  "  Jane Doe ",
		Email: "jane@example.com",
	})

	require.True(t, res.Valid)
	draft := m.Draft()
	assert.Equal(t, "Jane Doe", draft.Personal.Name)
	assert.Equal(t, "jane@example.com", draft.Personal.Email)
}

func TestApply_InvalidInputLeavesDraftUnchanged(t *testing.T) {
	seed := &types.ResumeDraft{
		Personal: types.PersonalInfo{Name: "Jane", Email: "jane@example.com"},
		Skills:   []string{"Go"},
	}
	m := newMachine(t, Options{InitialStep: StepPersonalInfo, Draft: seed})
	before := m.Draft()

	res := apply(t, m, StepPersonalInfo, types.PersonalInfo{Email: "not-an-email"})

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors["email"], "valid email")
	assert.Nil(t, res.Normalized)
	assert.Equal(t, before, m.Draft())
}

func TestApply_RejectsInactiveStep(t *testing.T) {
	m := newMachine(t, Options{InitialStep: StepEducation})
	_, err := m.Apply(StepSkills, m.Sequence(StepSkills), []string{"Go"})
	assert.Error(t, err)
}

func TestApply_StaleInputLosesToNewer(t *testing.T) {
	m := newMachine(t, Options{})

	older := m.Sequence(StepGeneralInfo)
	newer := m.Sequence(StepGeneralInfo)

	// The newer input's validation resolves first.
	res, err := m.Apply(StepGeneralInfo, newer, types.GeneralInfo{Title: "new"})
	require.NoError(t, err)
	require.True(t, res.Valid)

	// The older input resolves late: it must not overwrite the newer state.
	res, err = m.Apply(StepGeneralInfo, older, types.GeneralInfo{Title: "old"})
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, "new", m.Draft().General.Title)
}

func TestApply_StaleGuardIsPerStep(t *testing.T) {
	m := newMachine(t, Options{})
	s1 := m.Sequence(StepGeneralInfo)

	m.Advance()
	res, err := m.Apply(StepPersonalInfo, m.Sequence(StepPersonalInfo), types.PersonalInfo{Name: "Jane"})
	require.NoError(t, err)
	require.True(t, res.Valid)

	require.NoError(t, m.JumpTo(StepGeneralInfo))
	res, err = m.Apply(StepGeneralInfo, s1, types.GeneralInfo{Title: "resume"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.False(t, res.Stale)
}

func TestNavigation_PreservesValidatedValues(t *testing.T) {
	m := newMachine(t, Options{InitialStep: StepEducation})
	apply(t, m, StepEducation, []types.Education{{Degree: "BSc", School: "MIT"}})

	require.NoError(t, m.JumpTo(StepSkills))
	require.NoError(t, m.JumpTo(StepEducation))

	draft := m.Draft()
	require.Len(t, draft.Educations, 1)
	assert.Equal(t, "BSc", draft.Educations[0].Degree)
}

func TestDraft_ReturnsACopy(t *testing.T) {
	m := newMachine(t, Options{InitialStep: StepSkills})
	apply(t, m, StepSkills, []string{"Go"})

	d := m.Draft()
	d.Skills[0] = "mutated"
	d.Personal.Name = "mutated"

	fresh := m.Draft()
	assert.Equal(t, []string{"Go"}, fresh.Skills)
	assert.Empty(t, fresh.Personal.Name)
}

func TestSetQuestions_ReplacesQuestionnaire(t *testing.T) {
	m := newMachine(t, Options{})
	m.SetQuestions([]types.Question{
		{ID: "q1", Question: "Tell us about Docker", RelatedField: "Docker", Status: types.QuestionUnanswered},
	})

	draft := m.Draft()
	require.Len(t, draft.Questions, 1)
	assert.Equal(t, "q1", draft.Questions[0].ID)
}
