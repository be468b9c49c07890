package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGeminiGenerator(context.Background(), "g-key", "gemini-2.5-flash",
		WithGeminiBaseURL(srv.URL+"/"),
		WithGeminiHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return g
}

func TestGeminiGenerateRequestsJSON(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))

		var body struct {
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
			GenerationConfig *struct {
				ResponseMimeType string `json:"responseMimeType"`
			} `json:"generationConfig"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "user", body.Contents[0].Role)
		assert.Equal(t, "analyse this", body.Contents[0].Parts[0].Text)
		require.NotNil(t, body.GenerationConfig)
		assert.Equal(t, "application/json", body.GenerationConfig.ResponseMimeType)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"summary\":"},{"text":"\"ok\"}"}]},"finishReason":"STOP"}]}`))
	})

	text, err := g.Generate(context.Background(), CompletionRequest{Prompt: "analyse this", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, text)
	assert.Equal(t, "gemini-2.5-flash", g.Model())
}

func TestGeminiGeneratePlainTextOmitsResponseMimeType(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if cfg, ok := body["generationConfig"].(map[string]interface{}); ok {
			assert.NotContains(t, cfg, "responseMimeType")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"OK"}]}}]}`))
	})

	text, err := g.Generate(context.Background(), CompletionRequest{Prompt: LivenessPrompt})
	require.NoError(t, err)
	assert.Equal(t, "OK", text)
}

func TestGeminiGenerateSkipsThoughtParts(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"thinking...","thought":true},{"text":"OK"}]}}]}`))
	})

	text, err := g.Generate(context.Background(), CompletionRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "OK", text)
}

func TestGeminiGenerateUpstreamError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := g.Generate(context.Background(), CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiGenerateNoCandidates(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := g.Generate(context.Background(), CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiListModelsFollowsPages(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			w.Write([]byte(`{"models":[{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash","inputTokenLimit":1048576,"supportedGenerationMethods":["generateContent"]}],"nextPageToken":"p2"}`))
			return
		}
		w.Write([]byte(`{"models":[{"name":"models/embedding-001"}]}`))
	})

	list, err := g.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "models/gemini-2.5-flash", list[0].Name)
	assert.Equal(t, "Gemini 2.5 Flash", list[0].DisplayName)
	assert.EqualValues(t, 1048576, list[0].InputTokenLimit)
	assert.Equal(t, []string{"generateContent"}, list[0].SupportedGenerationMethods)
	assert.Equal(t, "models/embedding-001", list[1].Name)
}
