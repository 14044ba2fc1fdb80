package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/docdex/docdex/internal/errors"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) (*GitHubEmbedder, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e, err := NewGitHubEmbedder(GitHubConfig{
		Endpoint: srv.URL,
		Token:    "test-token",
		Model:    "openai/text-embedding-3-small",
	})
	require.NoError(t, err)
	return e, srv
}

func TestNewGitHubEmbedder_MissingConfig(t *testing.T) {
	_, err := NewGitHubEmbedder(GitHubConfig{Endpoint: "https://x", Model: "m"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))

	_, err = NewGitHubEmbedder(GitHubConfig{Token: "t", Model: "m"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))

	_, err = NewGitHubEmbedder(GitHubConfig{Token: "t", Endpoint: "https://x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestEmbedBatch_EmptyInputSkipsNetwork(t *testing.T) {
	called := false
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	vectors, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.False(t, called)
}

func TestEmbedBatch_ReordersByIndexField(t *testing.T) {
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-GitHub-Api-Version"))
		assert.Equal(t, "/embeddings", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"first", "second"}, req.Input)

		// Rows deliberately out of input order.
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0,1]},
			{"index":0,"embedding":[1,0]}
		]}`))
	})

	vectors, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1}, vectors[1])
}

func TestEmbedBatch_ProviderStatusError(t *testing.T) {
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := e.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.True(t, apperrors.IsProvider(err))
	assert.Equal(t, apperrors.ErrCodeProviderStatus, apperrors.GetCode(err))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "502", appErr.Details["status"])
	assert.Equal(t, "upstream unavailable", appErr.Details["body"])
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1,0]}]}`))
	})

	_, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProviderResponse, apperrors.GetCode(err))
}

func TestEmbedBatch_NullEmbedding(t *testing.T) {
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"index":0,"embedding":[1,0]},
			{"index":1,"embedding":null}
		]}`))
	})

	_, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProviderResponse, apperrors.GetCode(err))
}

func TestEmbedBatch_IndexOutOfRange(t *testing.T) {
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":5,"embedding":[1,0]}]}`))
	})

	_, err := e.EmbedBatch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProviderResponse, apperrors.GetCode(err))
}

func TestEmbedBatch_UnparsableBody(t *testing.T) {
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := e.EmbedBatch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.True(t, apperrors.IsProvider(err))
}

func TestEmbed_SingleText(t *testing.T) {
	e, _ := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 1)
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,0.5]}]}`))
	})

	vec, err := e.Embed(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, vec)
}
