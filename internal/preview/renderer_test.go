package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/types"
)

func TestRender_IncludesHeaderAndContact(t *testing.T) {
	html, err := Render(&types.ResumeDraft{
		Personal: types.PersonalInfo{
			Name:     "Jane Doe",
			JobTitle: "Software Engineer",
			Email:    "jane@example.com",
			Phone:    "555-0100",
			Socials:  map[string]string{"github": "github.com/jdoe", "linkedin": "linkedin.com/in/jdoe"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "Software Engineer")
	assert.Contains(t, html, "jane@example.com")
	assert.Contains(t, html, "github.com/jdoe")
	assert.Contains(t, html, "linkedin.com/in/jdoe")
}

func TestRender_EmptyEndDateRendersPresent(t *testing.T) {
	html, err := Render(&types.ResumeDraft{
		WorkExperiences: []types.WorkExperience{
			{Company: "Acme", Position: "SWE", StartDate: "2021-03"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "2021-03 – Present")
}

func TestRender_PreservesUserArrangedOrder(t *testing.T) {
	html, err := Render(&types.ResumeDraft{
		Educations: []types.Education{
			{Degree: "MSc", School: "Stanford"},
			{Degree: "BSc", School: "MIT"},
		},
	})
	require.NoError(t, err)
	assert.Less(t, strings.Index(html, "MSc"), strings.Index(html, "BSc"))
}

func TestRender_OmitsEmptySections(t *testing.T) {
	html, err := Render(&types.ResumeDraft{Personal: types.PersonalInfo{Name: "Jane"}})
	require.NoError(t, err)

	assert.NotContains(t, html, "<h2>Work Experience</h2>")
	assert.NotContains(t, html, "<h2>Education</h2>")
	assert.NotContains(t, html, "<h2>Skills</h2>")
}

func TestRender_EscapesUserContent(t *testing.T) {
	html, err := Render(&types.ResumeDraft{
		Personal: types.PersonalInfo{Name: `<script>alert("x")</script>`},
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert")
}

func TestRender_IsPureProjection(t *testing.T) {
	draft := &types.ResumeDraft{
		Personal: types.PersonalInfo{Name: "Jane"},
		Skills:   []string{"Go", "Postgres"},
	}
	first, err := Render(draft)
	require.NoError(t, err)
	second, err := Render(draft)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_NilDraft(t *testing.T) {
	_, err := Render(nil)
	assert.Error(t, err)
}
