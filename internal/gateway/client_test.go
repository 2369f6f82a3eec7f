package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/types"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/v1", nil)
	require.NoError(t, err)
	return c, srv
}

func TestCreateSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sessions/new", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"session_id": "sess-42"})
	}))

	id, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-42", id)
}

func TestCreateSession_EmptyIDIsAnError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, err := c.CreateSession(context.Background())
	assert.Error(t, err)
}

func TestCompareSkills_ParsesTotalMissing(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ai/compare", r.URL.Path)
		assert.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		json.NewEncoder(w).Encode(map[string]any{
			"total_missing":    2,
			"total_matched":    5,
			"fill_suggestions": []string{"Add Docker experience"},
		})
	}))

	res, err := c.CompareSkills(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalMissing)
	assert.Equal(t, 5, res.TotalMatched)
	assert.Equal(t, []string{"Add Docker experience"}, res.FillSuggestions)
}

func TestCompareSkills_RequiresSessionID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request should be issued without a session ID")
	}))

	_, err := c.CompareSkills(context.Background(), "")
	assert.Error(t, err)
}

func TestErrorBody_MessageExtraction(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message key", `{"message":"failed to compare skills"}`, "failed to compare skills"},
		{"fastapi detail key", `{"detail":"Session not found"}`, "Session not found"},
		{"error key", `{"error":"boom"}`, "boom"},
		{"unparseable body", `<html>gateway timeout</html>`, http.StatusText(http.StatusBadGateway)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tc.body))
			}))

			_, err := c.CompareSkills(context.Background(), "sess-1")
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok, "error should be *APIError")
			assert.Equal(t, http.StatusBadGateway, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Error())
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(&APIError{Status: http.StatusUnauthorized}))
	assert.True(t, IsAuthError(&APIError{Status: http.StatusForbidden}))
	assert.False(t, IsAuthError(&APIError{Status: http.StatusInternalServerError}))
	assert.False(t, IsAuthError(context.Canceled))
}

func TestLogin_KeepsCookieForLaterCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok-1", Path: "/"})
		json.NewEncoder(w).Encode(map[string]string{"message": "ok", "email": "jane@example.com"})
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("access_token")
		if err != nil || cookie.Value != "tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "not authenticated"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"email": "jane@example.com"})
	})

	c, _ := newTestClient(t, mux)

	_, err := c.Login(context.Background(), types.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", me.Email)
}

func TestUpdateSession_SendsDottedFieldPaths(t *testing.T) {
	var got map[string]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "sess-7", r.URL.Query().Get("session_id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))

	err := c.UpdateSession(context.Background(), "sess-7", types.GeneralInfo{Title: "SWE Resume", Description: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "SWE Resume", got["resume_metadata.resume_name"])
	assert.Equal(t, "v2", got["resume_metadata.resume_description"])
}

func TestAddKnowledgeGraph_PayloadShape(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/knowledge-graph/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("{}"))
	}))

	err := c.AddKnowledgeGraph(context.Background(), types.KnowledgeGraphAdd{
		WorkExperience: []types.WorkExperienceEntry{{Company: "Acme", Position: "SWE", StartDate: "2020-01"}},
	})
	require.NoError(t, err)

	exps, ok := got["work_experience"].([]any)
	require.True(t, ok)
	first := exps[0].(map[string]any)
	assert.Equal(t, "Acme", first["company"])
	assert.Equal(t, "2020-01", first["start_date"])
	assert.NotContains(t, got, "education")
}

func TestResumeData_DecodesValidSnapshot(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sessions/sess-9/resume-data", r.URL.Path)
		w.Write([]byte(`{
			"personal_info": {"name": "Dana Cole", "email": "dana@example.com"},
			"professional_profile": {"skills": ["Go"]},
			"resume_metadata": {"resume_name": "Backend"}
		}`))
	}))

	snap, err := c.ResumeData(context.Background(), "sess-9")
	require.NoError(t, err)
	require.NotNil(t, snap.PersonalInfo)
	assert.Equal(t, "Dana Cole", snap.PersonalInfo.Name)
	assert.Equal(t, []string{"Go"}, snap.ProfessionalProfile.Skills)
}

func TestResumeData_RejectsMalformedSnapshot(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"personal_info": {"name": 12}}`))
	}))

	_, err := c.ResumeData(context.Background(), "sess-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot is invalid")
}
