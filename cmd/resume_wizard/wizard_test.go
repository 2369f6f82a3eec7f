package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-wizard/internal/gateway"
	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/jonathan/resume-wizard/internal/wizard"
)

func newPersonalInfoFlow(t *testing.T, handler http.Handler) *flow {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gateway.New(srv.URL+"/api/v1", nil)
	require.NoError(t, err)

	machine, err := wizard.New(wizard.Options{
		InitialStep: wizard.StepPersonalInfo,
		SessionID:   "sess-1",
	})
	require.NoError(t, err)

	return &flow{
		client:  client,
		machine: machine,
		guard:   wizard.NewSingleFlight(),
		logger:  zap.NewNop(),
	}
}

func TestSubmitPersonalInfo_InvalidEmailIssuesNoRequest(t *testing.T) {
	var requests atomic.Int32
	f := newPersonalInfoFlow(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Write([]byte("{}"))
	}))

	ok, err := f.submitPersonalInfo(context.Background(), types.PersonalInfo{
		Name:  "Dana Cole",
		Email: "not-an-email",
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(0), requests.Load())
	assert.Empty(t, f.machine.Draft().Personal.Name)
}

func TestSubmitPersonalInfo_ValidInputSyncsOnce(t *testing.T) {
	var requests atomic.Int32
	f := newPersonalInfoFlow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		w.Write([]byte("{}"))
	}))

	ok, err := f.submitPersonalInfo(context.Background(), types.PersonalInfo{
		Name:  "Dana Cole",
		Email: "dana@example.com",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, "Dana Cole", f.machine.Draft().Personal.Name)
}
