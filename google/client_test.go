package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/enc/audit"
	"github.com/randalmurphal/enc/provider"
)

func intPtr(v int) *int { return &v }

func fakeServer(t *testing.T, status int, body string, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-pro:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		if got != nil {
			data, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NoError(t, json.Unmarshal(data, got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	return New("g-key", "gemini-2.5-pro", append([]Option{WithBaseURL(srv.URL + "/v1beta")}, opts...)...)
}

func TestGenerate_ThinkingFromTotal(t *testing.T) {
	var got map[string]any
	srv := fakeServer(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "fn main() {"}, {"text": "}\n"}]}, "finishReason": "STOP"}],
		"usageMetadata": {"promptTokenCount": 100, "candidatesTokenCount": 50, "totalTokenCount": 200},
		"modelVersion": "gemini-2.5-pro"
	}`, &got)

	mem := &audit.Memory{}
	res, err := newTestClient(srv, WithAudit(mem)).Generate(context.Background(), provider.Request{
		Prompt:         "write main",
		TargetLanguage: "rust",
		MaxTokens:      intPtr(65536),
		ThinkingBudget: intPtr(2048),
	})
	require.NoError(t, err)

	assert.Equal(t, "fn main() {}", res.Content)
	assert.Equal(t, "STOP", res.FinishReason)
	assert.Equal(t, provider.Usage{Input: 100, Output: 50, Thinking: 50, Kind: provider.UnitTokens}, res.Usage)

	genCfg, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.2, genCfg["temperature"], 1e-9)
	assert.InDelta(t, 65536, genCfg["maxOutputTokens"], 0)

	contents, ok := got["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	assert.Equal(t, map[string]any{
		"role":  "user",
		"parts": []any{map[string]any{"text": "write main"}},
	}, contents[0])

	assert.Equal(t, []string{LabelRequest, LabelResponse}, mem.Labels())
	reqLog, _ := mem.Find(LabelRequest)
	assert.Contains(t, reqLog.Body, `"prompt": "write main"`)
	assert.Contains(t, reqLog.Body, `"thinking_budget_requested": 2048`)
}

func TestGenerate_SeedForcesZeroTemperature(t *testing.T) {
	var got map[string]any
	srv := fakeServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"x"}]}}],"usageMetadata":{"promptTokenCount":1,"candidatesTokenCount":1,"totalTokenCount":2}}`, &got)

	_, err := newTestClient(srv).Generate(context.Background(), provider.Request{
		Prompt:         "p",
		TargetLanguage: "go",
		Seed:           intPtr(42),
	})
	require.NoError(t, err)

	genCfg := got["generationConfig"].(map[string]any)
	assert.InDelta(t, 0.0, genCfg["temperature"], 1e-9)
	_, hasMax := genCfg["maxOutputTokens"]
	assert.False(t, hasMax)
	_, hasSeed := genCfg["seed"]
	assert.False(t, hasSeed)
}

func TestNewGenerationConfig(t *testing.T) {
	assert.Equal(t, GenerationConfig{Temperature: 0.2}, NewGenerationConfig(provider.Request{}))

	seeded := NewGenerationConfig(provider.Request{Seed: intPtr(0), MaxTokens: intPtr(10)})
	assert.Equal(t, 0.0, seeded.Temperature)
	require.NotNil(t, seeded.MaxOutputTokens)
	assert.Equal(t, 10, *seeded.MaxOutputTokens)
}

func TestGenerate_UsageFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"metadata absent", `{"candidates":[{"content":{"parts":[{"text":"héllo"}]}}]}`},
		{"metadata all zero", `{"candidates":[{"content":{"parts":[{"text":"héllo"}]}}],"usageMetadata":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeServer(t, http.StatusOK, tt.body, nil)
			res, err := newTestClient(srv).Generate(context.Background(), provider.Request{Prompt: "prompt", TargetLanguage: "go"})
			require.NoError(t, err)
			assert.Equal(t, provider.Usage{Input: 6, Output: 5, Kind: provider.UnitCharacters}, res.Usage)
		})
	}
}

func TestGenerate_ThinkingClampedAtZero(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"x"}]}}],"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":5}}`, nil)
	res, err := newTestClient(srv).Generate(context.Background(), provider.Request{Prompt: "p", TargetLanguage: "go"})
	require.NoError(t, err)
	assert.Equal(t, provider.Usage{Input: 10, Output: 5, Kind: provider.UnitTokens}, res.Usage)
}

func TestGenerate_Blocked(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"},"usageMetadata":{"promptTokenCount":7,"totalTokenCount":7}}`, nil)
	res, err := newTestClient(srv).Generate(context.Background(), provider.Request{Prompt: "p", TargetLanguage: "python"})
	require.NoError(t, err)

	assert.True(t, res.Blocked)
	assert.Equal(t, "// error: could not generate code. response from gemini was empty or blocked. target: python", res.Content)
	assert.Equal(t, provider.Usage{Input: 7, Kind: provider.UnitTokens}, res.Usage)
}

func TestGenerate_APIError(t *testing.T) {
	srv := fakeServer(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, nil)
	_, err := newTestClient(srv).Generate(context.Background(), provider.Request{Prompt: "p", TargetLanguage: "go"})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAPI)
	assert.Contains(t, err.Error(), "INVALID_ARGUMENT: API key not valid")
}

func TestGenerate_HTMLErrorIsOneLine(t *testing.T) {
	srv := fakeServer(t, http.StatusBadGateway, "<html>\n<body>\n\t<h1>502 Bad Gateway</h1>\n</body>\n</html>", nil)
	_, err := newTestClient(srv).Generate(context.Background(), provider.Request{Prompt: "p", TargetLanguage: "go"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "\n")
	assert.Contains(t, err.Error(), "status 502: <html> <body> <h1>502 Bad Gateway</h1> </body> </html>")
}

func TestGenerate_ModelPrefixAndOverride(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"x"}]}}]}`)
	}))
	defer srv.Close()

	c := New("g-key", "gemini-2.5-pro", WithBaseURL(srv.URL))
	_, err := c.Generate(context.Background(), provider.Request{Model: "models/gemini-2.5-flash", Prompt: "p", TargetLanguage: "go"})
	require.NoError(t, err)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", path)
}

func TestGenerate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New("g-key", "gemini-2.5-pro", WithBaseURL(base)).Generate(context.Background(), provider.Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrCommunication)

	var provErr *provider.Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "google", provErr.Provider)
}

func TestRegistration(t *testing.T) {
	assert.True(t, provider.IsRegistered(Name))

	_, err := provider.New(Name, provider.Config{Model: "gemini-2.5-pro"})
	assert.ErrorIs(t, err, provider.ErrCredentialsNotFound)

	adapter, err := provider.New(Name, provider.Config{Model: "gemini-2.5-pro", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "google", adapter.Provider())
}
