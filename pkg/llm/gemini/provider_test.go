package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"petmatch/pkg/llm"
	"petmatch/pkg/match"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewProvider(context.Background(), "test-key", srv.URL, "v1", "models/gemma-3-12b-it")
	require.NoError(t, err)
	return p
}

func TestNewProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(context.Background(), "", "", "", "models/gemma-3-12b-it")
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
}

func TestListModels(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"models":[
			{"name":"models/gemma-3-12b-it","supportedGenerationMethods":["generateContent","countTokens"]},
			{"name":"models/embedding-001"}
		]}`))
	})

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "models/gemma-3-12b-it", models[0].Name)
	assert.Equal(t, []string{"generateContent", "countTokens"}, models[0].SupportedGenerationMethods)
	assert.Empty(t, models[1].SupportedGenerationMethods)
}

func TestListModelsHTTPError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	})

	_, err := p.ListModels(context.Background())

	var statusErr *llm.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "HTTP 403 Forbidden", err.Error())
}

func TestGenerateReturnsText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemma-3-12b-it:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Meet Rex!\n\n![Rex](https://x/rex.jpg)"}]}}]}`))
	})

	text, err := p.Generate(context.Background(), "find me a dog")
	require.NoError(t, err)
	assert.Equal(t, "Meet Rex!\n\n![Rex](https://x/rex.jpg)", text)
}

func TestGenerateRateLimitIsRecognised(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := p.Generate(context.Background(), "find me a dog")
	require.Error(t, err)
	assert.True(t, match.IsRateLimited(err), err.Error())
}
