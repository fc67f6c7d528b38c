package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"petmatch/internal/pkg/logger"
	"petmatch/pkg/llm"
	"petmatch/pkg/match"
	"petmatch/pkg/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDogRepository struct {
	mu    sync.Mutex
	dogs  []match.Candidate
	err   error
	calls int
}

func (f *fakeDogRepository) FindAll(ctx context.Context) ([]match.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.dogs, f.err
}

type fakeGenerator struct {
	mu       sync.Mutex
	generate func(prompt string) (string, error)
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.generate(prompt)
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeLister struct {
	models []llm.ModelInfo
	err    error
	calls  int
}

func (f *fakeLister) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	f.calls++
	return f.models, f.err
}

type fakeDiagnostics struct {
	data json.RawMessage
	err  error
}

func (f *fakeDiagnostics) ListTables(ctx context.Context) (json.RawMessage, error) {
	return f.data, f.err
}

var rex = match.Candidate{
	"name":      "Rex",
	"breed":     "Labrador",
	"size":      "large",
	"image_url": "https://example.com/rex.jpg",
}

func TestSearchWithoutCredentialMakesNoCalls(t *testing.T) {
	dogs := &fakeDogRepository{dogs: []match.Candidate{rex}}
	svc := NewMatchService(dogs, nil, logger.NewNopLogger())
	board := match.NewBoard()

	res := svc.Search(context.Background(), board, "a big dog")

	assert.Equal(t, match.MsgMissingAPIKey, res.Error)
	assert.Zero(t, dogs.calls)
	view := board.Snapshot()
	assert.Equal(t, match.MsgMissingAPIKey, view.Error)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Result)
}

func TestSearchStoreErrorSkipsGeneration(t *testing.T) {
	dogs := &fakeDogRepository{err: &supabase.Error{StatusCode: 401, Message: "JWT expired"}}
	gen := &fakeGenerator{generate: func(string) (string, error) { return "unused", nil }}
	svc := NewMatchService(dogs, gen, logger.NewNopLogger())
	board := match.NewBoard()

	res := svc.Search(context.Background(), board, "a big dog")

	assert.Equal(t, "JWT expired", res.Error)
	assert.Equal(t, "JWT expired", res.Alert)
	assert.Zero(t, gen.calls())

	view := board.Snapshot()
	assert.Equal(t, "JWT expired", view.Error)
	assert.Equal(t, "JWT expired", board.TakeAlert())
	assert.False(t, view.Loading)
}

func TestSearchRateLimitUsesQuotaMessage(t *testing.T) {
	dogs := &fakeDogRepository{dogs: []match.Candidate{rex}}
	gen := &fakeGenerator{generate: func(string) (string, error) {
		return "", errors.New("[GoogleGenerativeAI Error]: [429 Too Many Requests] Resource has been exhausted")
	}}
	svc := NewMatchService(dogs, gen, logger.NewNopLogger())
	board := match.NewBoard()

	res := svc.Search(context.Background(), board, "a big dog")

	assert.True(t, strings.HasPrefix(res.Error, match.MsgQuotaExceeded), res.Error)
	assert.Contains(t, res.Error, "\n\nDetails:\n")
	assert.Contains(t, res.Error, "Resource has been exhausted")
	assert.Equal(t, match.MsgQuotaExceeded, res.Alert)
	assert.Empty(t, res.Result)

	view := board.Snapshot()
	assert.Equal(t, res.Error, view.Error)
	assert.Empty(t, view.Result)
	assert.False(t, view.Loading)
}

func TestSearchOtherGenerationErrorPassesMessage(t *testing.T) {
	dogs := &fakeDogRepository{dogs: []match.Candidate{rex}}
	gen := &fakeGenerator{generate: func(string) (string, error) {
		return "", errors.New("model not found")
	}}
	svc := NewMatchService(dogs, gen, logger.NewNopLogger())

	res := svc.Search(context.Background(), match.NewBoard(), "a big dog")

	assert.True(t, strings.HasPrefix(res.Error, "model not found\n\nDetails:\n"), res.Error)
	assert.Equal(t, "model not found", res.Alert)
}

func TestSearchRecommendsRex(t *testing.T) {
	dogs := &fakeDogRepository{dogs: []match.Candidate{rex}}
	reply := "Rex is a gentle giant who loves long walks!\n\n![Rex](https://example.com/rex.jpg)"
	gen := &fakeGenerator{generate: func(string) (string, error) { return reply, nil }}
	svc := NewMatchService(dogs, gen, logger.NewNopLogger())
	board := match.NewBoard()

	res := svc.Search(context.Background(), board, "a big friendly dog")

	require.Empty(t, res.Error)
	assert.Equal(t, reply, res.Result)
	assert.Equal(t, "Rex", res.Recommended)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "a big friendly dog")
	assert.Contains(t, gen.prompts[0], `"name":"Rex"`)

	view := board.Snapshot()
	assert.Equal(t, reply, view.Result)
	assert.Empty(t, view.Error)
	assert.False(t, view.Loading)
	assert.Equal(t, "a big friendly dog", view.Query)
}

func TestSearchEmptyShelterStillGenerates(t *testing.T) {
	dogs := &fakeDogRepository{dogs: []match.Candidate{}}
	gen := &fakeGenerator{generate: func(string) (string, error) { return "Consider adopting an adult dog.", nil }}
	svc := NewMatchService(dogs, gen, logger.NewNopLogger())

	res := svc.Search(context.Background(), match.NewBoard(), "any dog")

	assert.Equal(t, "Consider adopting an adult dog.", res.Result)
	assert.Empty(t, res.Recommended)
	require.Equal(t, 1, gen.calls())
	assert.Contains(t, gen.prompts[0], "[]")
}

func TestSearchSlowCompletionCannotOverwriteNewer(t *testing.T) {
	dogs := &fakeDogRepository{dogs: []match.Candidate{rex}}
	release := make(chan struct{})
	started := make(chan struct{})
	gen := &fakeGenerator{generate: func(prompt string) (string, error) {
		if strings.Contains(prompt, "slow query") {
			close(started)
			<-release
			return "stale answer", nil
		}
		return "fresh answer", nil
	}}
	svc := NewMatchService(dogs, gen, logger.NewNopLogger())
	board := match.NewBoard()

	done := make(chan bool)
	go func() {
		res := svc.Search(context.Background(), board, "slow query")
		done <- res.Superseded
	}()
	<-started

	fresh := svc.Search(context.Background(), board, "fast query")
	assert.False(t, fresh.Superseded)

	close(release)
	assert.True(t, <-done)

	view := board.Snapshot()
	assert.Equal(t, "fresh answer", view.Result)
	assert.Equal(t, "fast query", view.Query)
	assert.False(t, view.Loading)
}

func TestListModelsFormatsMethods(t *testing.T) {
	lister := &fakeLister{models: []llm.ModelInfo{
		{Name: "models/gemma-3-12b-it", SupportedGenerationMethods: []string{"generateContent", "countTokens"}},
		{Name: "models/embedding-001"},
	}}
	svc := NewDiagnosticsService(lister, &fakeDiagnostics{}, logger.NewNopLogger())
	board := match.NewBoard()
	board.SetError("previous failure")

	res := svc.ListModels(context.Background(), board)

	want := "models/gemma-3-12b-it (generateContent, countTokens)\nmodels/embedding-001 (no methods)"
	assert.Equal(t, want, res.Text)
	assert.Equal(t, want, board.Snapshot().ModelsText)
	assert.Empty(t, board.Snapshot().Error)

	again := svc.ListModels(context.Background(), board)
	assert.Equal(t, res.Text, again.Text)
	assert.Equal(t, 2, lister.calls)
}

func TestListModelsEmpty(t *testing.T) {
	svc := NewDiagnosticsService(&fakeLister{}, &fakeDiagnostics{}, logger.NewNopLogger())

	res := svc.ListModels(context.Background(), match.NewBoard())

	assert.Equal(t, match.MsgNoModels, res.Text)
}

func TestListModelsHTTPFailure(t *testing.T) {
	lister := &fakeLister{err: &llm.HTTPStatusError{StatusCode: 404, Status: "Not Found"}}
	svc := NewDiagnosticsService(lister, &fakeDiagnostics{}, logger.NewNopLogger())
	board := match.NewBoard()
	ticket := board.BeginSearch("calm dog")
	board.Succeed(ticket, "Meet Rex!")
	board.Settle(ticket)

	res := svc.ListModels(context.Background(), board)

	assert.Equal(t, "Google listModels error: HTTP 404 Not Found", res.Error)
	assert.Equal(t, res.Error, board.Snapshot().Error)
	assert.Empty(t, board.Snapshot().Result)
}

func TestListModelsWithoutCredential(t *testing.T) {
	svc := NewDiagnosticsService(nil, &fakeDiagnostics{}, logger.NewNopLogger())
	board := match.NewBoard()

	res := svc.ListModels(context.Background(), board)

	assert.Equal(t, match.MsgMissingAPIKey, res.Error)
	assert.Equal(t, match.MsgMissingAPIKey, board.Snapshot().Error)
}

func TestConnectivity(t *testing.T) {
	tests := []struct {
		name   string
		repo   *fakeDiagnostics
		ok     bool
		status string
	}{
		{
			name:   "success",
			repo:   &fakeDiagnostics{data: json.RawMessage(`[{"tablename":"dogs"}]`)},
			ok:     true,
			status: "Data store OK: [\n  {\n    \"tablename\": \"dogs\"\n  }\n]",
		},
		{
			name:   "application error",
			repo:   &fakeDiagnostics{err: &supabase.Error{StatusCode: 404, Message: "Could not find the function public.pg_tables_list"}},
			status: "Data store error: Could not find the function public.pg_tables_list",
		},
		{
			name:   "transport error",
			repo:   &fakeDiagnostics{err: errors.New("dial tcp: connection refused")},
			status: "Data store error: dial tcp: connection refused",
		},
		{
			name:   "empty error",
			repo:   &fakeDiagnostics{err: errors.New("")},
			status: "Data store error: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDiagnosticsService(nil, tt.repo, logger.NewNopLogger())
			board := match.NewBoard()

			res := svc.TestConnectivity(context.Background(), board)

			assert.Equal(t, tt.ok, res.OK)
			assert.Equal(t, tt.status, res.Status)
			view := board.Snapshot()
			assert.Equal(t, tt.status, view.StoreStatus)
			assert.False(t, view.StoreLoading)
		})
	}
}

func TestFormatModels(t *testing.T) {
	assert.Equal(t, "No models available", FormatModels(nil))
	assert.Equal(t, "a (x)", FormatModels([]llm.ModelInfo{{Name: "a", SupportedGenerationMethods: []string{"x"}}}))
}
