package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	client, err := NewClient(context.Background(), "test-key", WithBaseURL(baseURL))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is required")
}

func TestGenerateText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-pro:generateContent")

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotNil(t, body["systemInstruction"])
		if cfg, ok := body["generationConfig"].(map[string]any); assert.True(t, ok) {
			assert.EqualValues(t, 16000, cfg["maxOutputTokens"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": `{"executive_summary":"ok"}`}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     1200,
				"candidatesTokenCount": 300,
				"totalTokenCount":      1500,
			},
			"modelVersion": "gemini-2.5-pro-001",
		})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	resp, err := client.GenerateText(context.Background(), TextRequest{
		Model:           "gemini-2.5-pro",
		System:          "Return only JSON.",
		Prompt:          "Census",
		MaxOutputTokens: 16000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"executive_summary":"ok"}`, resp.Text)
	assert.Equal(t, "gemini-2.5-pro-001", resp.Model)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, int64(1200), resp.Usage.PromptTokens)
	assert.Equal(t, int64(300), resp.Usage.CandidatesTokens)
}

func TestGenerateText_Error(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"error": map[string]any{
				"code":    429,
				"message": "Resource has been exhausted",
				"status":  "RESOURCE_EXHAUSTED",
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	_, err := client.GenerateText(context.Background(), TextRequest{Model: "gemini-2.5-pro", Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: generate content")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "exhausted")
}

func TestFromSDKResponse_Empty(t *testing.T) {
	resp := fromSDKResponse("gemini-2.5-pro", &genai.GenerateContentResponse{})
	assert.Equal(t, "gemini-2.5-pro", resp.Model)
	assert.Equal(t, "", resp.Text)
	assert.Equal(t, "", resp.FinishReason)
	assert.Zero(t, resp.Usage)
}

func TestFromSDKError(t *testing.T) {
	converted := fromSDKError(genai.APIError{Code: 500, Message: "internal"})
	var apiErr *APIError
	require.True(t, errors.As(converted, &apiErr))
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "gemini: HTTP 500: internal", apiErr.Error())

	plain := errors.New("dial tcp: timeout")
	assert.Same(t, plain, fromSDKError(plain))
}
