package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_ExtractsJobDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Acme Jobs</title></head><body>
			<nav>Home | Jobs</nav>
			<h1>Senior Gopher</h1>
			<div class="job-description">
				<p>Build resilient services.</p>
				<p>Go experience required.</p>
			</div>
			<footer>Copyright Acme</footer>
		</body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithHTTPClient(srv.Client()))
	posting, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Senior Gopher", posting.Title)
	assert.Contains(t, posting.Text, "Build resilient services.")
	assert.Contains(t, posting.Text, "Go experience required.")
	assert.NotContains(t, posting.Text, "Home | Jobs")
	assert.NotContains(t, posting.Text, "Copyright Acme")
}

func TestFetch_FallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Plain posting text.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithHTTPClient(srv.Client()))
	posting, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text.", posting.Text)
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(WithHTTPClient(srv.Client()))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var ingestErr *Error
	require.True(t, errors.As(err, &ingestErr))
	assert.Contains(t, ingestErr.Message, "404")
}

func TestFetch_InvalidURL(t *testing.T) {
	f := NewFetcher()
	_, err := f.Fetch(context.Background(), "not a url")
	require.Error(t, err)

	var ingestErr *Error
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, "invalid URL", ingestErr.Message)
}
